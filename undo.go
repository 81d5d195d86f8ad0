package main

func (m *model) undo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.undoStack) == 0 {
		return
	}

	lastIndex := len(buf.undoStack) - 1
	action := buf.undoStack[lastIndex]
	buf.undoStack = buf.undoStack[:lastIndex]

	switch action.Type {
	case ActionRepair, ActionPaste, ActionReload:
		data := action.Inverse.(TextChangeData)
		buf.canvas.SetText(data.Text)
		if action.Type == ActionReload {
			buf.filename = data.Filename
		}
	}
	buf.dirty = true

	buf.redoStack = append(buf.redoStack, action)
}

func (m *model) redo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.redoStack) == 0 {
		return
	}

	lastIndex := len(buf.redoStack) - 1
	action := buf.redoStack[lastIndex]
	buf.redoStack = buf.redoStack[:lastIndex]

	switch action.Type {
	case ActionRepair:
		data := action.Data.(TextChangeData)
		buf.canvas.ApplyRepair(data.Text)
	case ActionPaste, ActionReload:
		data := action.Data.(TextChangeData)
		buf.canvas.SetText(data.Text)
		if action.Type == ActionReload {
			buf.filename = data.Filename
		}
	}
	buf.dirty = true

	buf.undoStack = append(buf.undoStack, action)
}
