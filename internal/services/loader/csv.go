package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}

// table is a parsed CSV file with trimmed header names.
type table struct {
	index map[string]int
	rows  [][]string
}

// readTable parses b. A blank file yields a nil table and no error.
func readTable(b []byte) (*table, error) {
	b = stripBOM(b)
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	t := &table{index: make(map[string]int, len(records[0]))}
	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// col returns the index of the first present name, or -1.
func (t *table) col(names ...string) int {
	for _, n := range names {
		if i, ok := t.index[n]; ok {
			return i
		}
	}
	return -1
}

func (t *table) has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// cell returns the trimmed value at column i, or "" when the column or cell is missing.
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
