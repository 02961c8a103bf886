package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// HistoryEntry represents one completed enhancement. Entries are
// immutable once written; they are only ever deleted (individually, by
// bulk clear, or by retention pruning).
type HistoryEntry struct {
	ID           string `json:"id"`
	OriginalText string `json:"originalText"`
	EnhancedText string `json:"enhancedText"`
	Site         string `json:"site"`
	SiteIcon     string `json:"siteIcon"`
	CreatedAt    int64  `json:"createdAt"` // epoch milliseconds
	DisplayDate  string `json:"displayDate"`
}

// UsageStats is derived from the history list plus the request
// counters; it is a cache of a pure function, never source of truth.
type UsageStats struct {
	TotalEnhancements int     `json:"totalEnhancements"`
	SitesUsed         int     `json:"sitesUsed"`
	SuccessRate       float64 `json:"successRate"` // 0..1, measured from request counters
}

// ListOptions filters and limits history reads.
type ListOptions struct {
	Search string // case-insensitive substring over original, enhanced and site
	Limit  int    // 0 means no limit
}

// Recognized settings keys. Unknown keys are ignored on write and never
// returned on read.
const (
	SettingDarkMode         = "darkMode"
	SettingSoundEffects     = "soundEffects"
	SettingAutoCopy         = "autoCopy"
	SettingShowFloatingIcon = "showFloatingIcon"
	SettingQuality          = "quality"
)

// DefaultSettings returns a complete settings map with every recognized
// key present. Reads overlay stored values on top of this, so callers
// always see a full map.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingDarkMode:         "false",
		SettingSoundEffects:     "false",
		SettingAutoCopy:         "true",
		SettingShowFloatingIcon: "true",
		SettingQuality:          "balanced",
	}
}

// NewHistoryEntry builds an entry with a collision-resistant ID
// (millisecond timestamp plus a random hex suffix) and a precomputed
// display date.
func NewHistoryEntry(original, enhanced, site, siteIcon string, now time.Time) HistoryEntry {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	millis := now.UnixMilli()
	return HistoryEntry{
		ID:           fmt.Sprintf("%d-%s", millis, hex.EncodeToString(suffix)),
		OriginalText: original,
		EnhancedText: enhanced,
		Site:         site,
		SiteIcon:     siteIcon,
		CreatedAt:    millis,
		DisplayDate:  now.Format("Jan 2, 2006 3:04 PM"),
	}
}
