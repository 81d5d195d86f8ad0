package main

func (m *model) handleNavigation(key string) {
	m.handlePan(key, m.getMoveSpeed(key))
}

// handlePan scrolls the document under a fixed viewport.
func (m *model) handlePan(key string, speed int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	switch key {
	case "h", "left", "H", "shift+left":
		buf.panX -= speed
	case "l", "right", "L", "shift+right":
		buf.panX += speed
	case "k", "up", "K", "shift+up":
		buf.panY -= speed
	case "j", "down", "J", "shift+down":
		buf.panY += speed
	case "g", "home":
		buf.panX, buf.panY = 0, 0
	}
	m.clampPan()
}

func (m *model) clampPan() {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	w, h := buf.canvas.Size()
	maxX, maxY := w-1, h-1
	if buf.panX > maxX {
		buf.panX = maxX
	}
	if buf.panY > maxY {
		buf.panY = maxY
	}
	if buf.panX < 0 {
		buf.panX = 0
	}
	if buf.panY < 0 {
		buf.panY = 0
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
