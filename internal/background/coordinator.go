// Package background hosts the long-lived coordinator: idempotent
// install initialization, the cross-context message dispatcher and
// periodic history retention pruning.
package background

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hasanabusheikh26/superprompt/pkg/store"
)

// DefaultRetentionDays is the history retention window for pruning.
const DefaultRetentionDays = 180

// ClearConfirmation is the phrase a bulk clear must carry.
const ClearConfirmation = "CLEAR"

// ErrUnknownAction is returned for any message type the coordinator has
// no handler for. Unknown actions fail loudly, never silently succeed.
var ErrUnknownAction = errors.New("unknown action")

// ErrBadConfirmation rejects a bulk clear without the exact phrase.
var ErrBadConfirmation = fmt.Errorf("history clear requires confirmation phrase %q", ClearConfirmation)

// Message is the closed set of cross-context actions. One concrete type
// per action; the dispatcher matches them exhaustively.
type Message interface{ action() string }

type SaveToHistory struct{ Entry store.HistoryEntry }

type GetHistory struct{ Opts store.ListOptions }

type ClearHistory struct{ Confirmation string }

type GetStats struct{}

type GetSettings struct{}

type UpdateSettings struct{ Partial map[string]string }

type OpenDashboard struct{}

type Ping struct{}

func (SaveToHistory) action() string  { return "saveToHistory" }
func (GetHistory) action() string     { return "getHistory" }
func (ClearHistory) action() string   { return "clearHistory" }
func (GetStats) action() string       { return "getStats" }
func (GetSettings) action() string    { return "getSettings" }
func (UpdateSettings) action() string { return "updateSettings" }
func (OpenDashboard) action() string  { return "openDashboard" }
func (Ping) action() string           { return "ping" }

// Ack is the response for messages that carry no payload back.
type Ack struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Pong answers a liveness check.
type Pong struct {
	Status string `json:"status"`
}

// Coordinator mediates storage writes and cross-context notifications.
type Coordinator struct {
	DB            *store.DB
	RetentionDays int

	// OnOpenDashboard is the host hook behind the openDashboard
	// message (the CLI points it at the serve dashboard URL).
	OnOpenDashboard func() error
}

func New(db *store.DB) *Coordinator {
	return &Coordinator{DB: db, RetentionDays: DefaultRetentionDays}
}

// OnInstall seeds default settings without ever overwriting existing
// values, then prunes anything already past retention. Safe to run on
// every startup.
func (c *Coordinator) OnInstall(ctx context.Context) error {
	if err := c.DB.InitDefaults(ctx); err != nil {
		return fmt.Errorf("initializing defaults: %w", err)
	}
	if _, err := c.prune(ctx); err != nil {
		return err
	}
	return nil
}

// Handle dispatches one message to its handler and returns the typed
// response. A message type outside the closed set yields
// ErrUnknownAction.
func (c *Coordinator) Handle(ctx context.Context, msg Message) (any, error) {
	switch m := msg.(type) {
	case SaveToHistory:
		if err := c.DB.AppendHistory(ctx, m.Entry); err != nil {
			return Ack{Success: false, Error: err.Error()}, err
		}
		return Ack{Success: true}, nil

	case GetHistory:
		entries, err := c.DB.ListHistory(ctx, m.Opts)
		return entries, err

	case ClearHistory:
		if m.Confirmation != ClearConfirmation {
			return Ack{Success: false, Error: ErrBadConfirmation.Error()}, ErrBadConfirmation
		}
		if err := c.DB.ClearHistory(ctx); err != nil {
			return Ack{Success: false, Error: err.Error()}, err
		}
		return Ack{Success: true}, nil

	case GetStats:
		return c.DB.Stats(ctx)

	case GetSettings:
		return c.DB.Settings(ctx)

	case UpdateSettings:
		if err := c.DB.MergeSettings(ctx, m.Partial); err != nil {
			return Ack{Success: false, Error: err.Error()}, err
		}
		return Ack{Success: true}, nil

	case OpenDashboard:
		if c.OnOpenDashboard == nil {
			return Ack{Success: false, Error: "no dashboard host registered"}, errors.New("no dashboard host registered")
		}
		if err := c.OnOpenDashboard(); err != nil {
			return Ack{Success: false, Error: err.Error()}, err
		}
		return Ack{Success: true}, nil

	case Ping:
		return Pong{Status: "pong"}, nil

	default:
		return Ack{Success: false, Error: ErrUnknownAction.Error()}, fmt.Errorf("%w: %T", ErrUnknownAction, msg)
	}
}

// RunPruner prunes on start and then on every tick until the context is
// cancelled.
func (c *Coordinator) RunPruner(ctx context.Context, interval time.Duration) {
	if n, err := c.prune(ctx); err != nil {
		utils.Log.Warnf("history prune failed: %v", err)
	} else if n > 0 {
		utils.Log.Infof("pruned %d history entries past retention", n)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := c.prune(ctx); err != nil {
				utils.Log.Warnf("history prune failed: %v", err)
			} else if n > 0 {
				utils.Log.Infof("pruned %d history entries past retention", n)
			}
		}
	}
}

func (c *Coordinator) prune(ctx context.Context) (int, error) {
	days := c.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return c.DB.PruneHistory(ctx, cutoff)
}
