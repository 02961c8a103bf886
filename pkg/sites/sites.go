// Package sites maps page hostnames to display glyphs for history
// entries and the dashboard.
package sites

import (
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// DefaultGlyph is used for any host without a dedicated glyph.
const DefaultGlyph = "🌐"

var glyphs = map[string]string{
	"openai.com":      "🤖",
	"chatgpt.com":     "🤖",
	"claude.ai":       "✴️",
	"anthropic.com":   "✴️",
	"gemini.google.com": "♊",
	"google.com":      "🔍",
	"github.com":      "🐙",
	"stackoverflow.com": "📚",
	"reddit.com":      "👽",
	"x.com":           "🐦",
	"twitter.com":     "🐦",
	"linkedin.com":    "💼",
	"notion.so":       "📝",
	"docs.google.com": "📄",
	"mail.google.com": "✉️",
	"slack.com":       "💬",
	"discord.com":     "🎮",
	"medium.com":      "✍️",
}

// Normalize collapses a hostname to its registrable domain, so
// "chat.example.co.uk" and "www.example.co.uk" both identify as
// "example.co.uk". Hosts that don't parse (IPs, localhost) are returned
// lowercased as-is.
func Normalize(hostname string) string {
	host := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(hostname), "."))
	if host == "" {
		return ""
	}
	if domain, err := publicsuffix.Domain(host); err == nil && domain != "" {
		return domain
	}
	return host
}

// Glyph returns the display glyph for a hostname. Subdomains with their
// own entry (e.g. gemini.google.com) win over the registrable domain.
func Glyph(hostname string) string {
	host := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(hostname), "."))
	if g, ok := glyphs[host]; ok {
		return g
	}
	if g, ok := glyphs[Normalize(host)]; ok {
		return g
	}
	return DefaultGlyph
}
