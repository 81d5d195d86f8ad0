package main

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"
)

type Buffer struct {
	canvas    *Canvas
	undoStack []Action
	redoStack []Action
	filename  string
	panX      int
	panY      int
	dirty     bool
}

type model struct {
	width              int
	height             int
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	showDiff           bool
	fileOp             FileOperation
	openInNewBuffer    bool
	confirmAction      ConfirmAction
	pendingFilename    string
	input              textinput.Model
	helpView           viewport.Model
	errorMessage       string
	successMessage     string
	config             *Config
	logger             *zap.Logger
}

type point struct {
	X, Y int
}

type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

// TextChangeData is the whole-buffer text on one side of an action.
type TextChangeData struct {
	Text     string
	Filename string
}
