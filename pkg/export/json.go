package export

import (
	"encoding/json"
	"io"
)

// JSONExporter writes the full export document, pretty-printed.
type JSONExporter struct{}

func (e *JSONExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// ReadJSON parses a previously exported JSON document. Exporting and
// re-reading yields the same history items in the same order.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	err := json.NewDecoder(r).Decode(&doc)
	return doc, err
}
