// Package export serializes the enhancement history to downloadable
// files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/hasanabusheikh26/superprompt/pkg/store"
)

// Item is one exported history record.
type Item struct {
	Original  string `json:"original"`
	Enhanced  string `json:"enhanced"`
	Site      string `json:"site"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

// Document is the export file payload.
type Document struct {
	ExportDate string `json:"exportDate"`
	TotalItems int    `json:"totalItems"`
	History    []Item `json:"history"`
}

// NewDocument converts a history list (order preserved) into an export
// document stamped with the export time.
func NewDocument(entries []store.HistoryEntry, now time.Time) Document {
	doc := Document{
		ExportDate: now.UTC().Format(time.RFC3339),
		TotalItems: len(entries),
		History:    make([]Item, 0, len(entries)),
	}
	for _, e := range entries {
		doc.History = append(doc.History, Item{
			Original:  e.OriginalText,
			Enhanced:  e.EnhancedText,
			Site:      e.Site,
			Date:      e.DisplayDate,
			Timestamp: e.CreatedAt,
		})
	}
	return doc
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md)", format)
	}
}
