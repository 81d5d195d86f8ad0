package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// document is a text opened in the preview at startup.
type document struct {
	text     string
	filename string
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func initialModel(cfg *Config, logger *zap.Logger, docs []document) model {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 255

	m := model{
		showDiff: true,
		input:    input,
		helpView: viewport.New(0, 0),
		config:   cfg,
		logger:   logger,
	}
	for _, doc := range docs {
		canvas := NewCanvas()
		canvas.SetText(doc.text)
		m.addNewBuffer(canvas, doc.filename)
	}
	if len(m.buffers) == 0 {
		m.addNewBuffer(NewCanvas(), "")
	}
	m.currentBufferIndex = 0
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView.Width = msg.Width
		m.helpView.Height = max(msg.Height-1, 1)
		m.clampPan()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.mode {
		case ModeHelp:
			cmd = m.updateHelp(msg)
		case ModeFileInput:
			cmd = m.updateFileInput(msg)
		case ModeConfirm:
			cmd = m.updateConfirm(msg)
		default:
			cmd = m.updateNormal(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	switch key {
	case "q", "ctrl+c":
		if m.config.Confirmations && m.hasUnsavedChanges() {
			m.askConfirm(ConfirmQuit)
			return nil
		}
		return tea.Quit
	case "r":
		m.repairCurrent()
	case "d":
		m.showDiff = !m.showDiff
	case "u":
		m.undo()
	case "U":
		m.redo()
	case "y":
		if err := writeClipboardText(m.getCanvas().Text()); err != nil {
			m.errorMessage = fmt.Sprintf("Error copying: %s", err.Error())
		} else {
			m.successMessage = "Copied to clipboard"
		}
	case "p":
		m.pasteFromClipboard()
	case "s":
		return m.startFileInput(FileOpSave, m.getCurrentBuffer().filename)
	case "e":
		return m.startFileInput(FileOpSavePNG, "")
	case "E":
		return m.startFileInput(FileOpSaveVisualTXT, "")
	case "o", "O":
		m.openInNewBuffer = key == "O"
		return m.startFileInput(FileOpOpen, "")
	case "{":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex - 1 + len(m.buffers)) % len(m.buffers)
		}
	case "}":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex + 1) % len(m.buffers)
		}
	case "x":
		if m.config.Confirmations && m.getCurrentBuffer().dirty {
			m.askConfirm(ConfirmCloseBuffer)
			return nil
		}
		m.closeCurrentBuffer()
	case "?":
		m.mode = ModeHelp
		m.helpView.SetContent(renderHelp(m.width))
		m.helpView.GotoTop()
	default:
		m.handleNavigation(key)
	}
	return nil
}

func (m *model) hasUnsavedChanges() bool {
	for _, buf := range m.buffers {
		if buf.dirty {
			return true
		}
	}
	return false
}

func (m *model) askConfirm(action ConfirmAction) {
	m.mode = ModeConfirm
	m.confirmAction = action
}

// repairCurrent repairs the current buffer as one undoable action.
func (m *model) repairCurrent() {
	buf := m.getCurrentBuffer()
	before := buf.canvas.Text()
	report := buf.canvas.Analysis()
	if !report.Changed() {
		m.successMessage = "Nothing to repair"
		return
	}

	buf.canvas.Repair()
	m.recordAction(ActionRepair,
		TextChangeData{Text: report.Output, Filename: buf.filename},
		TextChangeData{Text: before, Filename: buf.filename})
	buf.dirty = true

	m.successMessage = fmt.Sprintf("Repaired %d rows in %d boxes", len(report.ChangedRows), len(report.Boxes))
	m.logger.Debug("repaired buffer",
		zap.String("filename", buf.filename),
		zap.Int("rows", len(report.ChangedRows)),
		zap.Int("boxes", len(report.Boxes)))
}

func (m *model) pasteFromClipboard() {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error pasting: %s", err.Error())
		return
	}
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return
	}
	m.addNewBuffer(NewCanvas(), "")
	buf := m.getCurrentBuffer()
	buf.canvas.SetText(text)
	buf.dirty = true
	m.recordAction(ActionPaste, TextChangeData{Text: text}, TextChangeData{})
	m.successMessage = "Pasted into a new buffer"
}

func (m *model) startFileInput(op FileOperation, initial string) tea.Cmd {
	m.mode = ModeFileInput
	m.fileOp = op
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) updateFileInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		m.submitFileInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submitFileInput runs the pending file operation. On failure the prompt
// stays open with the error shown.
func (m *model) submitFileInput() {
	filename := strings.TrimSpace(m.input.Value())
	if filename == "" {
		m.errorMessage = "Please enter a filename"
		return
	}
	m.errorMessage = ""

	switch m.fileOp {
	case FileOpSave:
		filename = withExtension(filename, ".txt")
		path := m.config.GetSavePath(filename)
		if _, err := os.Stat(path); err == nil && m.config.Confirmations && path != m.getCurrentBuffer().filename {
			m.pendingFilename = path
			m.askConfirm(ConfirmOverwriteFile)
			return
		}
		m.saveTo(path)
	case FileOpSavePNG:
		filename = withExtension(filename, ".png")
		if err := m.exportPNG(filename); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting PNG: %s", err.Error())
		} else {
			m.successMessage = fmt.Sprintf("Exported to %s", absPath(m.config.GetSavePath(filename)))
			if m.getCanvas().Analysis().Changed() {
				m.successMessage += " (repaired layout)"
			}
		}
	case FileOpSaveVisualTXT:
		filename = withExtension(filename, ".txt")
		if err := m.exportVisualTXT(filename); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting text: %s", err.Error())
		} else {
			m.successMessage = fmt.Sprintf("Exported to %s", absPath(m.config.GetSavePath(filename)))
		}
	case FileOpOpen:
		m.openFile(filename)
	}

	if m.errorMessage == "" {
		m.mode = ModeNormal
		m.input.Blur()
	}
}

func withExtension(filename, ext string) string {
	if filepath.Ext(filename) == "" {
		return filename + ext
	}
	return filename
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (m *model) saveTo(path string) {
	buf := m.getCurrentBuffer()
	if err := buf.canvas.SaveToFile(path); err != nil {
		m.errorMessage = fmt.Sprintf("Error saving file: %s", err.Error())
		return
	}
	buf.filename = path
	buf.dirty = false
	m.successMessage = fmt.Sprintf("Saved to %s", absPath(path))
	m.logger.Info("saved buffer", zap.String("path", path))
}

// openFile loads filename into a new buffer, or into the current one as an
// undoable reload.
func (m *model) openFile(filename string) {
	canvas := NewCanvas()
	if err := canvas.LoadFromFile(filename); err != nil {
		m.errorMessage = fmt.Sprintf("Error opening file: %s", err.Error())
		return
	}

	if m.openInNewBuffer {
		m.addNewBuffer(canvas, filename)
		m.openInNewBuffer = false
	} else {
		buf := m.getCurrentBuffer()
		before := TextChangeData{Text: buf.canvas.Text(), Filename: buf.filename}
		buf.canvas.SetText(canvas.Text())
		buf.filename = filename
		buf.panX, buf.panY = 0, 0
		m.recordAction(ActionReload, TextChangeData{Text: canvas.Text(), Filename: filename}, before)
		buf.dirty = false
	}
	m.successMessage = fmt.Sprintf("Opened %s", filename)
}

func (m *model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return tea.Quit
		case ConfirmCloseBuffer:
			m.closeCurrentBuffer()
		case ConfirmOverwriteFile:
			m.saveTo(m.pendingFilename)
			if m.errorMessage != "" {
				m.mode = ModeFileInput
				return nil
			}
			m.pendingFilename = ""
			m.input.Blur()
		}
		m.mode = ModeNormal
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			m.fileOp = FileOpSave
			return nil
		}
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) updateHelp(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "?", "esc":
		m.mode = ModeNormal
		return nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return cmd
}

// canvasHeight is the number of screen rows left for the document.
func (m *model) canvasHeight() int {
	height := m.height - 1
	if len(m.buffers) > 1 {
		height--
	}
	if height < 1 {
		height = 1
	}
	return height
}

func (m *model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString("Open: ")
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := fmt.Sprintf("Buffer %d", i+1)
		if buf.filename != "" {
			name = filepath.Base(buf.filename)
		}
		if buf.dirty {
			name += "*"
		}
		if i == m.currentBufferIndex {
			name = "[" + name + "]"
		}
		bar.WriteString(name)
	}
	return runewidth.FillRight(runewidth.Truncate(bar.String(), width, ""), width)
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return m.helpView.View() + "\n" + "Mode: HELP | j/k=scroll, ?/q/Esc=close"
	}

	width := m.width
	if width < 1 {
		width = 1
	}

	var result strings.Builder
	if len(m.buffers) > 1 {
		result.WriteString(m.renderBufferBar(width))
		result.WriteString("\n")
	}
	buf := m.getCurrentBuffer()
	rows := buf.canvas.Render(width, m.canvasHeight(), buf.panX, buf.panY, m.showDiff)
	result.WriteString(strings.Join(rows, "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) statusLine() string {
	switch m.mode {
	case ModeFileInput:
		var op string
		switch m.fileOp {
		case FileOpSave:
			op = "Save"
		case FileOpSavePNG:
			op = "Export PNG"
		case FileOpSaveVisualTXT:
			op = "Export text"
		case FileOpOpen:
			op = "Open"
			if m.openInNewBuffer {
				op = "Open in new buffer"
			}
		}
		status := fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", op, m.input.View())
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status

	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit with unsaved changes? (y/n)"
		case ConfirmCloseBuffer:
			message = "Close current buffer? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingFilename)
		}
		return "Mode: CONFIRM | " + message
	}

	buf := m.getCurrentBuffer()
	analysis := buf.canvas.Analysis()
	status := fmt.Sprintf("Mode: %s | Boxes: %d | Pending rows: %d", m.modeString(), len(analysis.Boxes), len(analysis.ChangedRows))
	if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}
