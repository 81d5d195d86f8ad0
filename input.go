package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readInput decodes r as UTF-8, or UTF-16 when it starts with a byte order
// mark, and normalizes line endings to "\n".
func readInput(r io.Reader) (string, error) {
	text, _, err := decodeInput(r)
	return text, err
}

// decodeInput is readInput that also reports whether the source used CRLF
// line endings, so a rewrite can restore them.
func decodeInput(r io.Reader) (text string, crlf bool, err error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", false, fmt.Errorf("failed to decode input: %w", err)
	}
	crlf = bytes.Contains(data, []byte("\r\n"))
	return normalizeLineEndings(string(data)), crlf, nil
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// restoreLineEndings undoes normalizeLineEndings for CRLF sources.
func restoreLineEndings(text string, crlf bool) string {
	if !crlf {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\r\n")
}
