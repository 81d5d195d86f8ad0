package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeFileInput
	ModeConfirm
	ModeHelp
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmCloseBuffer
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionRepair ActionType = iota
	ActionPaste
	ActionReload
)

// Highlight colors for changed cells.
const (
	colorNone    = -1
	colorRepair  = 0 // cells rewritten by the last repair
	colorPending = 1 // rows the next repair would rewrite
	numColors    = 2
)
