// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package navigation

import "sync"

// Key is a platform-neutral navigation key. Hosts map their own key codes
// onto these values.
type Key uint8

const (
	KeyNone Key = iota
	KeyZoomIn
	KeyZoomOut
	KeyIterationsUp
	KeyIterationsDown
	KeyReset
	KeyQuit
)

// Translator converts pointer, wheel, keyboard and resize input into
// Events and pushes them onto a Queue. It tracks drag state so that a
// pointer move only pans while the button is held.
//
// Translator methods may be called from the host's input callbacks on any
// goroutine.
type Translator struct {
	queue *Queue

	mu       sync.Mutex
	dragging bool
	lastX    float64
	lastY    float64
}

// NewTranslator returns a Translator feeding q.
func NewTranslator(q *Queue) *Translator {
	return &Translator{queue: q}
}

// PointerDown starts a drag at (x, y).
func (t *Translator) PointerDown(x, y float64) {
	t.mu.Lock()
	t.dragging = true
	t.lastX, t.lastY = x, y
	t.mu.Unlock()
}

// PointerUp ends the current drag.
func (t *Translator) PointerUp() {
	t.mu.Lock()
	t.dragging = false
	t.mu.Unlock()
}

// PointerMove emits a PanBy for the distance moved since the last pointer
// position while dragging.
func (t *Translator) PointerMove(x, y float64) {
	t.mu.Lock()
	if !t.dragging {
		t.mu.Unlock()
		return
	}
	dx, dy := x-t.lastX, y-t.lastY
	t.lastX, t.lastY = x, y
	t.mu.Unlock()

	if dx == 0 && dy == 0 {
		return
	}
	t.queue.Push(PanBy(float32(dx), float32(dy)))
}

// Scroll emits ZoomIn for positive delta and ZoomOut for negative delta.
// Each call is one wheel tick regardless of magnitude.
func (t *Translator) Scroll(delta float64) {
	switch {
	case delta > 0:
		t.queue.Push(ZoomIn())
	case delta < 0:
		t.queue.Push(ZoomOut())
	}
}

// Key emits the event bound to k. It reports true for KeyQuit, which
// produces no event; quitting is the host's decision.
func (t *Translator) Key(k Key) (quit bool) {
	switch k {
	case KeyZoomIn:
		t.queue.Push(ZoomIn())
	case KeyZoomOut:
		t.queue.Push(ZoomOut())
	case KeyIterationsUp:
		t.queue.Push(IncreaseIterations())
	case KeyIterationsDown:
		t.queue.Push(DecreaseIterations())
	case KeyReset:
		t.queue.Push(Reset())
	case KeyQuit:
		return true
	}
	return false
}

// Resize emits a Resize event.
func (t *Translator) Resize(width, height int) {
	t.queue.Push(Resize(width, height))
}

// KeyForName maps a key name as reported by browsers (KeyboardEvent.key)
// or typed by a user onto a navigation Key.
func KeyForName(name string) Key {
	switch name {
	case "+", "=":
		return KeyZoomIn
	case "-", "_":
		return KeyZoomOut
	case "ArrowUp", "Up":
		return KeyIterationsUp
	case "ArrowDown", "Down":
		return KeyIterationsDown
	case "r", "R":
		return KeyReset
	case "Escape", "Esc":
		return KeyQuit
	}
	return KeyNone
}
