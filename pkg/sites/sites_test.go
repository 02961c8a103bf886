package sites

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"github.com", "github.com"},
		{"gist.github.com", "github.com"},
		{"WWW.Example.CO.UK", "example.co.uk"},
		{"localhost", "localhost"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.host); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"known domain", "github.com", "🐙"},
		{"subdomain falls back to registrable domain", "gist.github.com", "🐙"},
		{"dedicated subdomain entry wins", "gemini.google.com", "♊"},
		{"case insensitive", "GitHub.com", "🐙"},
		{"unknown domain gets the default", "example.org", DefaultGlyph},
		{"empty host gets the default", "", DefaultGlyph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Glyph(tt.host); got != tt.want {
				t.Errorf("Glyph(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
