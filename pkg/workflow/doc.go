// Package workflow implements the selection-triggered enhancement
// workflow: watching text selections, showing the floating trigger,
// driving the enhancement panel state machine and applying accepted
// results back into the host element.
//
// The package operates on a small abstract document model rather than a
// real DOM, so the whole workflow is testable in isolation. A host
// embedding (browser bridge, TUI, test harness) feeds events in and
// renders whatever the trigger/panel state says.
package workflow

import "strings"

// ElementKind identifies what kind of host element a selection is
// anchored in.
type ElementKind int

const (
	KindStatic ElementKind = iota
	KindInput
	KindTextarea
	KindContentEditable
)

// Element models the host element a selection lives in. Value holds the
// element's text; Start/End offsets into it are rune offsets.
type Element struct {
	Kind        ElementKind
	Value       string
	Attached    bool // false once the element left the document
	RoleTextbox bool // ARIA textbox role on an otherwise static element

	// Mutated by the replacement applier.
	Focused bool
	Caret   int
	Events  []string // synthetic events dispatched (input, change)
}

// Editable reports whether the element qualifies as an enhancement
// target: native text inputs, textareas, contenteditable hosts and ARIA
// textboxes.
func (e *Element) Editable() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindInput, KindTextarea, KindContentEditable:
		return true
	}
	return e.RoleTextbox
}

// Selection is a snapshot of the active text selection. For selections
// spanning multiple elements only the anchor element counts.
type Selection struct {
	Text   string
	Anchor *Element
	Start  int // rune offset into Anchor.Value
	End    int
}

// Trimmed returns the selection text without surrounding whitespace.
func (s Selection) Trimmed() string {
	return strings.TrimSpace(s.Text)
}

// Range is the captured selection target used later by the replacement
// applier. It outlives the live selection, so the element may have
// detached by the time it is used.
type Range struct {
	Element *Element
	Start   int
	End     int
}

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	X, Y, W, H int
}

// Viewport is the visible page area markers must stay inside.
type Viewport struct {
	W, H int
}
