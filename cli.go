package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"boxmend/detect"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose       bool
	configPath    string
	logFile       string
	writeFiles    bool
	checkOnly     bool
	useClipboard  bool
	detectFlag    bool
	markdownFlag  bool
	pngPath       string
	jobs          int
	forceOverride bool

	logger *zap.Logger
	cfg    *Config
)

// errNeedsRepair makes --check exit non-zero.
var errNeedsRepair = errors.New("some inputs need repair")

var rootCmd = &cobra.Command{
	Use:   "boxmend [files...]",
	Short: "Repair misaligned box-drawing diagrams",
	Long: `boxmend repairs box-drawing diagrams that were damaged by editing. It
realigns drifted right borders, restores missing corners and border rows,
removes duplicate bars and stray border glyphs, and re-indents shifted
rows so every box lines up again.

With no files it reads standard input and writes the repaired text to
standard output. Text outside boxes is never changed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == configInitCmd {
			return nil
		}
		var err error
		cfg, err = loadRuntimeConfig(cmd)
		if err != nil {
			return err
		}

		file := logFile
		if file == "" {
			file = cfg.Logging.File
		}
		if cmd == previewCmd && file == "" {
			logger = zap.NewNop()
			return nil
		}
		logger, err = newLogger(verbose, cfg.Logging.Level, file)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRepair,
}

var previewCmd = &cobra.Command{
	Use:   "preview [files...]",
	Short: "Open diagrams in an interactive preview",
	Long: `Opens each file in its own buffer. Press r to repair, d to toggle the
highlighting of rows a repair would change, and ? for all keys.`,
	RunE: runPreview,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Repair diagram files whenever they are saved",
	Long: `Watches the given directories (default: the current one) and repairs
matching files in place once they stop changing. Files are only rewritten
when the repair changes them.`,
	RunE: runWatch,
}

var detectCmd = &cobra.Command{
	Use:   "detect [files...]",
	Short: "Report whether inputs look like ASCII diagrams",
	RunE:  runDetect,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.boxmend.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&detectFlag, "detect", false, "Skip input that does not look like a diagram")
	rootCmd.PersistentFlags().BoolVar(&markdownFlag, "markdown", true, "Repair only fenced code blocks of Markdown files")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 4, "Files repaired concurrently")

	rootCmd.Flags().BoolVarP(&writeFiles, "write", "w", false, "Rewrite files in place")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "List inputs that would change and exit non-zero if any")
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "Repair the clipboard contents in place")
	rootCmd.Flags().StringVar(&pngPath, "png", "", "Also export the repaired diagram as a PNG")
	rootCmd.MarkFlagsMutuallyExclusive("write", "check")

	configInitCmd.Flags().BoolVar(&forceOverride, "force", false, "Overwrite an existing config")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(configCmd)
}

// loadRuntimeConfig reads the config file and lets explicitly set flags win.
func loadRuntimeConfig(cmd *cobra.Command) (*Config, error) {
	path := configPath
	if path == "" {
		path = defaultConfigPath()
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("detect") {
		loaded.Detect = detectFlag
	}
	if flags.Changed("markdown") {
		loaded.Markdown = markdownFlag
	}
	if flags.Changed("jobs") && jobs > 0 {
		loaded.Jobs = jobs
	}
	return loaded, nil
}

func currentOptions() batchOptions {
	return batchOptions{
		Write:    writeFiles,
		Backup:   cfg.Backup,
		Detect:   cfg.Detect,
		Markdown: cfg.Markdown,
		Jobs:     cfg.Jobs,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runRepair(cmd *cobra.Command, args []string) error {
	opts := currentOptions()

	if useClipboard {
		return repairClipboard(cmd, opts)
	}
	if len(args) == 0 {
		return repairStream(cmd, opts)
	}
	if pngPath != "" && len(args) != 1 {
		return fmt.Errorf("--png needs exactly one input, got %d", len(args))
	}

	results, err := repairFiles(commandContext(cmd), args, opts, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed, changed := 0, 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.Path, result.Err)
			continue
		}
		if result.Changed {
			changed++
		}
		switch {
		case checkOnly || writeFiles:
			if result.Changed {
				fmt.Fprintln(out, result.Path)
			}
		default:
			printResult(out, result, len(results) > 1)
		}
	}

	if pngPath != "" && failed == 0 {
		if err := writePNG(results[0].Output, pngPath, cfg.Export); err != nil {
			return fmt.Errorf("failed to export %s: %w", pngPath, err)
		}
	}

	logger.Info("repair finished",
		zap.Int("files", len(results)),
		zap.Int("changed", changed),
		zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	if checkOnly && changed > 0 {
		return errNeedsRepair
	}
	return nil
}

// printResult writes one repaired file to out in its own line endings.
// Several files are each headed by their path, head(1) style, and
// terminated so the next header starts on a line of its own.
func printResult(out io.Writer, result fileResult, headed bool) {
	newline := restoreLineEndings("\n", result.CRLF)
	if headed {
		fmt.Fprintf(out, "==> %s <==%s", result.Path, newline)
	}
	io.WriteString(out, restoreLineEndings(result.Output, result.CRLF))
	if headed && !strings.HasSuffix(result.Output, "\n") {
		io.WriteString(out, newline)
	}
}

func repairStream(cmd *cobra.Command, opts batchOptions) error {
	text, crlf, err := decodeInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	output, _ := repairText("", text, opts)

	if checkOnly {
		if output != text {
			fmt.Fprintln(cmd.OutOrStdout(), "<stdin>")
			return errNeedsRepair
		}
		return nil
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), restoreLineEndings(output, crlf)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if pngPath != "" {
		if err := writePNG(output, pngPath, cfg.Export); err != nil {
			return fmt.Errorf("failed to export %s: %w", pngPath, err)
		}
	}
	return nil
}

func repairClipboard(cmd *cobra.Command, opts batchOptions) error {
	text, err := readClipboardText()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	output, skipped := repairText("", text, opts)
	if skipped || output == text {
		fmt.Fprintln(cmd.ErrOrStderr(), "clipboard unchanged")
		return nil
	}
	if err := writeClipboardText(output); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "clipboard repaired")
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	docs, err := loadDocuments(args)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		initialModel(cfg, logger, docs),
		tea.WithAltScreen(),
		tea.WithContext(commandContext(cmd)),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}

func loadDocuments(paths []string) ([]document, error) {
	docs := make([]document, 0, len(paths))
	for _, path := range paths {
		canvas := NewCanvas()
		if err := canvas.LoadFromFile(path); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		docs = append(docs, document{text: canvas.Text(), filename: path})
	}
	return docs, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := NewWatcher(dirs, cfg, currentOptions(), logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d directories, Ctrl+C to stop\n", len(dirs))

	<-ctx.Done()
	watcher.Stop()

	stats := watcher.Stats()
	fmt.Fprintf(cmd.ErrOrStderr(), "repaired %d files (%d unchanged, %d errors)\n", stats.Repaired, stats.Unchanged, stats.Errors)
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	report := func(name, text string) {
		verdict := "no"
		if detect.LooksLikeASCIIArt(text) {
			verdict = "yes"
		}
		fmt.Fprintf(out, "%s: %s\n", name, verdict)
	}

	if len(args) == 0 {
		text, err := readInput(cmd.InOrStdin())
		if err != nil {
			return err
		}
		report("<stdin>", text)
		return nil
	}
	for _, path := range args {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		text, err := readInput(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		report(path, text)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return errors.New("no home directory; pass --config")
	}
	if _, err := os.Stat(path); err == nil && !forceOverride {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
