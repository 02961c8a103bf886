package workflow

import (
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultMinSelectionLength is the smallest selection (in runes, after
// trimming) that produces a valid-selection event.
const DefaultMinSelectionLength = 5

// DefaultDebounce lets the native selection settle after pointer-up
// before it is read.
const DefaultDebounce = 120 * time.Millisecond

// SelectionEvent is published by the Watcher. Valid carries the
// selection; an invalid event means "selection cleared".
type SelectionEvent struct {
	Valid     bool
	Selection Selection
}

// Watcher reads the active selection on (debounced) pointer-up and
// key-up events and publishes valid/cleared selection events. It has no
// side effects beyond the event: no storage, no network.
type Watcher struct {
	MinLength int
	Debounce  time.Duration

	source func() Selection
	sink   func(SelectionEvent)

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher wires a selection source (reads the document's current
// selection) to an event sink. A zero Debounce fires synchronously,
// which tests rely on.
func NewWatcher(source func() Selection, sink func(SelectionEvent)) *Watcher {
	return &Watcher{
		MinLength: DefaultMinSelectionLength,
		Debounce:  DefaultDebounce,
		source:    source,
		sink:      sink,
	}
}

// HandlePointerUp schedules a selection read.
func (w *Watcher) HandlePointerUp() { w.schedule() }

// HandleKeyUp schedules a selection read.
func (w *Watcher) HandleKeyUp() { w.schedule() }

func (w *Watcher) schedule() {
	if w.Debounce <= 0 {
		w.evaluate()
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.evaluate)
}

func (w *Watcher) evaluate() {
	sel := w.source()
	if utf8.RuneCountInString(sel.Trimmed()) < w.MinLength || !sel.Anchor.Editable() {
		w.sink(SelectionEvent{Valid: false})
		return
	}
	w.sink(SelectionEvent{Valid: true, Selection: sel})
}
