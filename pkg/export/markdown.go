package export

import (
	"fmt"
	"io"
)

// MarkdownExporter writes a human-readable digest of the history.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(doc Document, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Enhancement History\n\nExported: %s\nEntries: %d\n", doc.ExportDate, doc.TotalItems); err != nil {
		return err
	}
	for _, item := range doc.History {
		site := item.Site
		if site == "" {
			site = "unknown site"
		}
		if _, err := fmt.Fprintf(w, "\n## %s — %s\n\n**Original**\n\n> %s\n\n**Enhanced**\n\n> %s\n", site, item.Date, item.Original, item.Enhanced); err != nil {
			return err
		}
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
