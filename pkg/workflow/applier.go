package workflow

import "errors"

// ErrReplaceFailed means the captured target can no longer take the
// replacement (detached element, non-editable host). Callers recover by
// copying the result to the clipboard instead.
var ErrReplaceFailed = errors.New("replace target is no longer available")

// Replace splices newText into the captured range's element.
//
// For inputs and textareas the text lands between the recorded
// offsets, focus is restored, the caret ends up after the inserted
// text, and synthetic input/change events are recorded so a reactive
// host notices the mutation. For contenteditable hosts the captured
// range is restored, its contents deleted, the text inserted and the
// selection collapsed after it.
func Replace(r Range, newText string) error {
	el := r.Element
	if el == nil || !el.Attached || !el.Editable() {
		return ErrReplaceFailed
	}

	value := []rune(el.Value)
	start, end := clampRange(r.Start, r.End, len(value))

	switch el.Kind {
	case KindInput, KindTextarea:
		el.Value = string(value[:start]) + newText + string(value[end:])
		el.Focused = true
		el.Caret = start + len([]rune(newText))
		el.Events = append(el.Events, "input", "change")
	default: // contenteditable / ARIA textbox
		el.Value = string(value[:start]) + newText + string(value[end:])
		el.Caret = start + len([]rune(newText)) // collapsed selection
		el.Events = append(el.Events, "input")
	}
	return nil
}

func clampRange(start, end, max int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > max {
		end = max
	}
	if start > end {
		start = end
	}
	return start, end
}
