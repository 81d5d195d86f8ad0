package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// exportVisualTXT writes the visible part of the current buffer exactly as
// the preview shows it, minus highlighting.
func (m *model) exportVisualTXT(filename string) error {
	canvas := m.getCanvas()
	if canvas == nil {
		return fmt.Errorf("no canvas available")
	}

	buf := m.getCurrentBuffer()
	width := m.width
	if width < 1 {
		width = 80
	}
	height := 24
	if m.height > 0 {
		height = m.canvasHeight()
	}

	file, err := os.Create(m.config.GetSavePath(filename))
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range canvas.RenderPlain(width, height, buf.panX, buf.panY) {
		fmt.Fprintln(file, line)
	}
	return nil
}

func (m *model) exportPNG(filename string) error {
	canvas := m.getCanvas()
	if canvas == nil {
		return fmt.Errorf("no canvas available")
	}
	path := m.config.GetSavePath(filename)
	if err := canvas.ExportToPNG(path, m.config.Export); err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	m.logger.Info("exported png", zap.String("path", path))
	return nil
}

// writePNG renders text as a PNG without a preview session.
func writePNG(text, path string, opts ExportConfig) error {
	canvas := NewCanvas()
	canvas.SetText(text)
	return canvas.ExportToPNG(path, opts)
}
