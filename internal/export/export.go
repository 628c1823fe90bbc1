// Package export serializes a list's resolved company records to
// portable text. References that no longer resolve against the
// catalog are kept, not dropped: the CSV row goes out blank and the
// JSON entry goes out null, so row count always equals list length.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"

	"venturescope-engine/internal/catalog"
)

// ErrEmptyList reports that the list exists but holds nothing. The
// caller shows a dedicated empty-state notice instead of producing a
// file, so this must stay distinct from a missing list.
var ErrEmptyList = errors.New("list is empty")

var csvHeader = []string{"Name", "Industry", "Stage", "Location", "Website"}

// CSV renders one quoted, comma-separated row per reference under the
// fixed header. encoding/csv escapes fields, so a comma inside a
// location or name can no longer corrupt the columns.
func CSV(names []string, cat *catalog.Catalog) ([]byte, error) {
	if len(names) == 0 {
		return nil, ErrEmptyList
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, name := range names {
		row := []string{"", "", "", "", ""}
		if c, ok := cat.FindByName(name); ok {
			row = []string{c.Name, c.Industry, c.Stage, c.Location, c.Website}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON renders the resolved records as a pretty-printed array, null
// where a reference no longer resolves.
func JSON(names []string, cat *catalog.Catalog) ([]byte, error) {
	if len(names) == 0 {
		return nil, ErrEmptyList
	}

	records := make([]*catalog.Company, 0, len(names))
	for _, name := range names {
		if c, ok := cat.FindByName(name); ok {
			copied := c
			records = append(records, &copied)
		} else {
			records = append(records, nil)
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

// Filename is the download name for an exported list.
func Filename(listName, ext string) string {
	return listName + "." + ext
}
