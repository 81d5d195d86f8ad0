package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "┌─┐\n└─┘", want: "┌─┐\n└─┘"},
		{name: "line endings", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "control characters", input: "a\x00b\x1bc\td", want: "abc\td"},
		{
			name:  "html",
			input: "<html><body><div>┌─┐</div><div>&lt;x&gt; &amp; y</div></body></html>",
			want:  "┌─┐\n<x> & y\n",
		},
		{
			name:  "rtf with unicode escapes",
			input: `{\rtf1\ansi{\fonttbl\f0\fmodern Menlo;}\f0 \u9484?\u9472?\u9488?\par ok\}}`,
			want:  "┌─┐\nok}",
		},
		{
			name:  "rtf hex escape",
			input: `{\rtf1 caf\'e9}`,
			want:  "café",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.input))
		})
	}
}

func TestClipboardFormatDetection(t *testing.T) {
	assert.True(t, isRTF(`{\rtf1\ansi hello}`))
	assert.False(t, isRTF("plain text"))
	assert.True(t, isHTML("  <html><body>x</body></html>"))
	assert.False(t, isHTML("a < b and <html> later"))
}

func TestModel_Buffers(t *testing.T) {
	m := initialModel(DefaultConfig(), nil, nil)
	assert.Len(t, m.buffers, 1)

	m.addNewBuffer(NewCanvas(), "second.txt")
	assert.Len(t, m.buffers, 2)
	assert.Equal(t, 1, m.currentBufferIndex)
	assert.Equal(t, "second.txt", m.getCurrentBuffer().filename)

	m.closeCurrentBuffer()
	assert.Len(t, m.buffers, 1)
	assert.Equal(t, 0, m.currentBufferIndex)

	m.getCurrentBuffer().filename = "first.txt"
	m.closeCurrentBuffer()
	assert.Len(t, m.buffers, 1)
	assert.Empty(t, m.getCurrentBuffer().filename)
}
