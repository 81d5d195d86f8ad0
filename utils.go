package main

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) addNewBuffer(canvas *Canvas, filename string) {
	buffer := Buffer{
		canvas:    canvas,
		undoStack: []Action{},
		redoStack: []Action{},
		filename:  filename,
	}
	m.buffers = append(m.buffers, buffer)
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) closeCurrentBuffer() {
	if len(m.buffers) <= 1 {
		m.buffers[0] = Buffer{canvas: NewCanvas(), undoStack: []Action{}, redoStack: []Action{}}
		m.currentBufferIndex = 0
		return
	}
	m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
	if m.currentBufferIndex >= len(m.buffers) {
		m.currentBufferIndex = len(m.buffers) - 1
	}
}

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	action := Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	}
	buf.undoStack = append(buf.undoStack, action)
	buf.redoStack = buf.redoStack[:0]
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return cleanClipboardText(string(output)), nil
		}
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return cleanClipboardText(text), nil
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div") || strings.Contains(text, "<pre"))
}

// extractTextFromRTF keeps the plain text of an RTF document. Box glyphs
// arrive as \uN escapes followed by a one-character fallback, which is
// skipped.
func extractTextFromRTF(rtf string) string {
	var result strings.Builder
	result.Grow(len(rtf))
	runes := []rune(rtf)
	depth := 0
	skipDepth := -1

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			depth++
			continue
		case '}':
			if depth == skipDepth {
				skipDepth = -1
			}
			depth--
			continue
		case '\r', '\n':
			continue
		}
		if skipDepth >= 0 {
			if r == '\\' && i+1 < len(runes) {
				i++
			}
			continue
		}
		if r != '\\' {
			result.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}

		next := runes[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			result.WriteRune(next)
			i++
		case next == '\'' && i+3 < len(runes):
			if val, err := strconv.ParseUint(string(runes[i+2:i+4]), 16, 8); err == nil {
				result.WriteRune(rune(val))
			}
			i += 3
		case next == '~':
			result.WriteRune(' ')
			i++
		case next == '-' || next == '_':
			result.WriteRune('-')
			i++
		case next == '*':
			// {\*\destination ...} groups are never rendered.
			skipDepth = depth
			i++
		case isASCIILetter(next):
			start := i + 1
			j := start
			for j < len(runes) && isASCIILetter(runes[j]) {
				j++
			}
			word := string(runes[start:j])
			numStart := j
			if j < len(runes) && runes[j] == '-' {
				j++
			}
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			param := string(runes[numStart:j])
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			i = j - 1

			switch word {
			case "par", "line":
				result.WriteByte('\n')
			case "tab":
				result.WriteByte('\t')
			case "u":
				if n, err := strconv.Atoi(param); err == nil {
					if n < 0 {
						n += 65536
					}
					result.WriteRune(rune(n))
					// Skip the ANSI fallback character.
					if i+1 < len(runes) && runes[i+1] != '\\' && runes[i+1] != '{' && runes[i+1] != '}' {
						i++
					}
				}
			case "fonttbl", "colortbl", "stylesheet", "info":
				skipDepth = depth
			}
		default:
			i++
		}
	}
	return result.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func extractTextFromHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	var tag strings.Builder
	for _, r := range html {
		if r == '<' {
			inTag = true
			tag.Reset()
			continue
		}
		if r == '>' {
			inTag = false
			name := strings.ToLower(strings.Fields(tag.String() + " ")[0])
			if name == "br" || name == "br/" || name == "/p" || name == "/div" {
				result.WriteByte('\n')
			}
			continue
		}
		if inTag {
			tag.WriteRune(r)
			continue
		}
		result.WriteRune(r)
	}
	text := result.String()
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return text
}

// cleanClipboardText turns whatever the clipboard held into plain text
// with "\n" line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = normalizeLineEndings(text)

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
