package workflow

// Marker geometry, viewport pixels.
const (
	MarkerSize = 28
	MarkerGap  = 6
)

// Marker is the floating trigger's position. At most one marker exists
// at a time.
type Marker struct {
	X, Y int
}

// PlaceMarker positions a marker above the selection rect, or below it
// when there is no room, clamped horizontally to the viewport.
func PlaceMarker(sel Rect, vp Viewport) Marker {
	x := sel.X + sel.W/2 - MarkerSize/2
	if x < 0 {
		x = 0
	}
	if max := vp.W - MarkerSize; x > max {
		x = max
	}

	y := sel.Y - MarkerGap - MarkerSize
	if y < 0 {
		y = sel.Y + sel.H + MarkerGap
	}
	return Marker{X: x, Y: y}
}

// Trigger owns the floating marker lifecycle: shown on a valid
// selection, removed on cleared selection, scroll, resize or an outside
// click, and replaced (never duplicated) on the next selection.
type Trigger struct {
	Viewport Viewport

	marker     *Marker
	onActivate func()
}

// NewTrigger creates a trigger whose activation callback opens the
// enhancement panel.
func NewTrigger(vp Viewport, onActivate func()) *Trigger {
	return &Trigger{Viewport: vp, onActivate: onActivate}
}

// Marker returns the current marker, or nil when none is shown.
func (t *Trigger) Marker() *Marker {
	return t.marker
}

// HandleSelection shows or removes the marker according to the event.
func (t *Trigger) HandleSelection(ev SelectionEvent, rect Rect) {
	if !ev.Valid {
		t.Remove()
		return
	}
	m := PlaceMarker(rect, t.Viewport)
	t.marker = &m
}

// HandleScroll removes the marker; the selection rect is stale.
func (t *Trigger) HandleScroll() { t.Remove() }

// HandleResize removes the marker.
func (t *Trigger) HandleResize() { t.Remove() }

// HandleOutsideClick removes the marker when a click lands outside both
// the marker and any open panel.
func (t *Trigger) HandleOutsideClick() { t.Remove() }

// Activate fires the panel-open callback (mouse or keyboard) and
// removes the marker.
func (t *Trigger) Activate() {
	if t.marker == nil {
		return
	}
	t.Remove()
	if t.onActivate != nil {
		t.onActivate()
	}
}

// Remove clears the marker if present.
func (t *Trigger) Remove() {
	t.marker = nil
}
