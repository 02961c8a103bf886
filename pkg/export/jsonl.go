package export

import (
	"encoding/json"
	"io"
)

// JSONLExporter writes one history item per line, suited for piping
// into other tools.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, item := range doc.History {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
