package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/enhance"
	"github.com/hasanabusheikh26/superprompt/pkg/sites"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
)

// PanelState is the enhancement panel's lifecycle state.
type PanelState int

const (
	StateClosed PanelState = iota
	StateIdle
	StateLoading
	StateSuccess
	StateError
)

func (s PanelState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "closed"
}

// DefaultStyle is the instruction submitted when the panel opens
// without an explicit user choice.
const DefaultStyle = "improve"

// ErrBusy is returned when a submit lands while a request is already in
// flight for this panel instance.
var ErrBusy = errors.New("an enhancement request is already in flight")

// ErrNoResult is returned by replace/copy before a successful result
// exists.
var ErrNoResult = errors.New("no enhanced result available")

// Enhancer is the network client surface the panel drives.
type Enhancer interface {
	Enhance(ctx context.Context, text, instruction string) (string, error)
}

// HistoryStore receives completed enhancements. Storage failures are
// logged and never block the panel.
type HistoryStore interface {
	AppendHistory(ctx context.Context, e store.HistoryEntry) error
	RecordAttempt(ctx context.Context, success bool) error
}

// Panel drives a single enhancement request/response cycle:
// idle → loading → success|error, success → loading on re-submit, any
// state → closed on close, Escape or outside click.
type Panel struct {
	Enhancer  Enhancer
	History   HistoryStore
	Clipboard Clipboard
	AutoCopy  bool             // copy to clipboard on replace as well
	Now       func() time.Time // nil means time.Now

	state      PanelState
	processing bool
	selection  Selection
	captured   Range
	site       string
	result     string
	lastErr    error
}

// State returns the current panel state.
func (p *Panel) State() PanelState { return p.state }

// Result returns the enhanced text after a successful request.
func (p *Panel) Result() string { return p.result }

// Err returns the failure behind the error state.
func (p *Panel) Err() error { return p.lastErr }

// Open (re)opens the panel for a selection, capturing the replacement
// target and resetting the processing guard. The host is expected to
// follow up with Submit(ctx, DefaultStyle) unless the user already
// picked a style.
func (p *Panel) Open(sel Selection, site string) {
	p.selection = sel
	p.captured = Range{Element: sel.Anchor, Start: sel.Start, End: sel.End}
	p.site = site
	p.state = StateIdle
	p.processing = false
	p.result = ""
	p.lastErr = nil
}

// Submit issues exactly one enhancement request. Re-entrant submits
// while a request is in flight are rejected with ErrBusy; after an
// error the user's retry is just another Submit.
func (p *Panel) Submit(ctx context.Context, instruction string) error {
	if p.state == StateClosed {
		return errors.New("panel is closed")
	}
	if p.processing {
		return ErrBusy
	}
	if instruction == "" {
		instruction = DefaultStyle
	}

	p.processing = true
	p.state = StateLoading

	result, err := p.Enhancer.Enhance(ctx, p.selection.Text, instruction)
	p.processing = false

	if err != nil {
		p.lastErr = err
		p.state = StateError
		p.recordAttempt(ctx, err)
		return err
	}

	p.result = result
	p.lastErr = nil
	p.state = StateSuccess
	p.recordAttempt(ctx, nil)
	p.appendHistory(ctx)
	return nil
}

// Replace applies the result to the captured target and closes the
// panel. When the target is gone the result is copied to the clipboard
// instead; the panel stays open and ErrReplaceFailed is returned so the
// host can show a warning.
func (p *Panel) Replace(ctx context.Context) error {
	if p.state != StateSuccess {
		return ErrNoResult
	}
	if err := Replace(p.captured, p.result); err != nil {
		utils.Log.Warnf("replace failed, falling back to clipboard: %v", err)
		if p.Clipboard != nil {
			if cerr := p.Clipboard.WriteText(p.result); cerr != nil {
				utils.Log.Errorf("clipboard fallback failed: %v", cerr)
			}
		}
		return err
	}
	if p.AutoCopy && p.Clipboard != nil {
		if err := p.Clipboard.WriteText(p.result); err != nil {
			utils.Log.Debugf("auto-copy failed: %v", err)
		}
	}
	p.Close()
	return nil
}

// Copy writes the result to the clipboard without closing the panel.
func (p *Panel) Copy() error {
	if p.state != StateSuccess {
		return ErrNoResult
	}
	if p.Clipboard == nil {
		return errors.New("no clipboard available")
	}
	return p.Clipboard.WriteText(p.result)
}

// Close dismisses the panel. Escape and outside clicks route here.
func (p *Panel) Close() {
	p.state = StateClosed
	p.processing = false
}

// HandleEscape closes the panel.
func (p *Panel) HandleEscape() { p.Close() }

// HandleOutsideClick closes the panel.
func (p *Panel) HandleOutsideClick() { p.Close() }

// recordAttempt feeds the measured success-rate counters. Validation
// failures never reached the network, so they don't count as requests.
func (p *Panel) recordAttempt(ctx context.Context, err error) {
	if p.History == nil {
		return
	}
	if err != nil {
		switch enhance.Kind(err) {
		case enhance.ErrInvalidInput, enhance.ErrTooLong:
			return
		}
	}
	if rerr := p.History.RecordAttempt(ctx, err == nil); rerr != nil {
		utils.Log.Debugf("recording attempt failed: %v", rerr)
	}
}

func (p *Panel) appendHistory(ctx context.Context) {
	if p.History == nil {
		return
	}
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	entry := store.NewHistoryEntry(p.selection.Text, p.result, p.site, sites.Glyph(p.site), now)
	if err := p.History.AppendHistory(ctx, entry); err != nil {
		utils.Log.Errorf("saving history entry failed: %v", err)
	}
}
