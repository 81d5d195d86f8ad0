package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCLI(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	cfg = DefaultConfig()
	writeFiles, checkOnly, useClipboard, pngPath = false, false, false, ""
	t.Cleanup(func() {
		writeFiles, checkOnly, useClipboard, pngPath = false, false, false, ""
		configPath, forceOverride = "", false
	})
}

func newTestCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd, out
}

func TestRunRepair_Stdin(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCommand(narrowBroken)

	require.NoError(t, runRepair(cmd, nil))
	assert.Equal(t, narrowFixed, out.String())
}

func TestRunRepair_StdinKeepsCRLF(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCommand(restoreLineEndings(narrowBroken, true))

	require.NoError(t, runRepair(cmd, nil))
	assert.Equal(t, restoreLineEndings(narrowFixed, true), out.String())
}

func TestRunRepair_Check(t *testing.T) {
	setupCLI(t)
	checkOnly = true

	cmd, out := newTestCommand(narrowBroken)
	assert.ErrorIs(t, runRepair(cmd, nil), errNeedsRepair)
	assert.Equal(t, "<stdin>\n", out.String())

	cmd, out = newTestCommand(narrowFixed)
	assert.NoError(t, runRepair(cmd, nil))
	assert.Empty(t, out.String())
}

func TestRunRepair_CheckFiles(t *testing.T) {
	setupCLI(t)
	checkOnly = true
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.txt", narrowBroken)
	clean := writeFile(t, dir, "clean.txt", narrowFixed)

	cmd, out := newTestCommand("")
	assert.ErrorIs(t, runRepair(cmd, []string{broken, clean}), errNeedsRepair)
	assert.Equal(t, broken+"\n", out.String())
	assert.Equal(t, narrowBroken, readFile(t, broken))
}

func TestRunRepair_WriteFiles(t *testing.T) {
	setupCLI(t)
	writeFiles = true
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.txt", narrowBroken)
	clean := writeFile(t, dir, "clean.txt", narrowFixed)

	cmd, out := newTestCommand("")
	require.NoError(t, runRepair(cmd, []string{broken, clean}))
	assert.Equal(t, broken+"\n", out.String())
	assert.Equal(t, narrowFixed, readFile(t, broken))
}

func TestRunRepair_PrintsFiles(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.txt", narrowBroken)

	cmd, out := newTestCommand("")
	require.NoError(t, runRepair(cmd, []string{broken}))
	assert.Equal(t, narrowFixed, out.String())
}

func TestRunRepair_PrintsSeveralFiles(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", narrowBroken)
	b := writeFile(t, dir, "b.txt", narrowFixed)

	cmd, out := newTestCommand("")
	require.NoError(t, runRepair(cmd, []string{a, b}))
	want := "==> " + a + " <==\n" + narrowFixed + "\n" +
		"==> " + b + " <==\n" + narrowFixed + "\n"
	assert.Equal(t, want, out.String())
}

func TestRunRepair_PrintsFileKeepsCRLF(t *testing.T) {
	setupCLI(t)
	broken := writeFile(t, t.TempDir(), "crlf.txt", restoreLineEndings(narrowBroken, true))

	cmd, out := newTestCommand("")
	require.NoError(t, runRepair(cmd, []string{broken}))
	assert.Equal(t, restoreLineEndings(narrowFixed, true), out.String())
}

func TestRunRepair_MissingFile(t *testing.T) {
	setupCLI(t)
	cmd, _ := newTestCommand("")
	err := runRepair(cmd, []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorContains(t, err, "1 of 1 files failed")
}

func TestRunRepair_PNG(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	pngPath = filepath.Join(dir, "out.png")

	cmd, _ := newTestCommand(narrowBroken)
	require.NoError(t, runRepair(cmd, nil))
	assert.FileExists(t, pngPath)

	a := writeFile(t, dir, "a.txt", narrowBroken)
	b := writeFile(t, dir, "b.txt", narrowBroken)
	cmd, _ = newTestCommand("")
	assert.ErrorContains(t, runRepair(cmd, []string{a, b}), "--png needs exactly one input")
}

func TestRootCommand_DescribesRepairs(t *testing.T) {
	for _, text := range []string{rootCmd.Long, helpMarkdown} {
		assert.Contains(t, text, "missing")
		assert.Contains(t, text, "stray border glyphs")
		assert.NotContains(t, text, "by a model")
	}
}

func TestRunDetect(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCommand(narrowBroken)
	require.NoError(t, runDetect(cmd, nil))
	assert.Equal(t, "<stdin>: yes\n", out.String())

	dir := t.TempDir()
	prose := writeFile(t, dir, "prose.txt", "one line\nand another")
	cmd, out = newTestCommand("")
	require.NoError(t, runDetect(cmd, []string{prose}))
	assert.Equal(t, prose+": no\n", out.String())
}

func TestRunConfigInit(t *testing.T) {
	setupCLI(t)
	configPath = filepath.Join(t.TempDir(), "boxmend.yaml")

	cmd, out := newTestCommand("")
	require.NoError(t, runConfigInit(cmd, nil))
	assert.Contains(t, out.String(), configPath)
	assert.FileExists(t, configPath)

	assert.ErrorContains(t, runConfigInit(cmd, nil), "already exists")

	forceOverride = true
	assert.NoError(t, runConfigInit(cmd, nil))
}

func TestLoadRuntimeConfig_FlagsOverrideFile(t *testing.T) {
	setupCLI(t)
	clearConfigEnv(t)
	configPath = filepath.Join(t.TempDir(), "boxmend.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("jobs: 9\ndetect: true\n"), 0644))

	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&jobs, "jobs", 4, "")
	require.NoError(t, cmd.Flags().Set("jobs", "2"))

	loaded, err := loadRuntimeConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Jobs)
	assert.True(t, loaded.Detect)
	assert.True(t, loaded.Markdown)
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "x\r\ny")

	docs, err := loadDocuments([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []document{{text: "x\ny", filename: path}}, docs)

	_, err = loadDocuments([]string{filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(false, "warn", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = newLogger(true, "warn", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger(false, "loud", "")
	assert.ErrorContains(t, err, "invalid log level")

	path := filepath.Join(t.TempDir(), "boxmend.log")
	l, err = newLogger(false, "info", path)
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()
	assert.Contains(t, readFile(t, path), "hello")
}
