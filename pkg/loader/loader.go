/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: loader.go
Description: Sample table loading for the tablesynth engine. Discovers the
input/output sample pair in a directory, coerces delimited text cells through a
strict primitive grammar, and decodes JSON rows with column order preserved.
Loading is fail-fast: any malformed sample aborts synthesis.
*/

package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kleascm/tablesynth/pkg/table"
)

var supportedExts = map[string]bool{
	"csv":   true,
	"tsv":   true,
	"jsonl": true,
	"json":  true,
}

// FindSampleFiles locates the input.* and output.* sample files in dir and
// returns their shared extension plus both paths. Both files must exist and
// carry the same supported extension.
func FindSampleFiles(dir string) (string, string, string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", "", "", fmt.Errorf("invalid sample directory: %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid sample directory: %w", err)
	}
	var inputFile, outputFile string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "input.") {
			inputFile = filepath.Join(dir, name)
		}
		if strings.HasPrefix(name, "output.") {
			outputFile = filepath.Join(dir, name)
		}
	}
	if inputFile == "" || outputFile == "" {
		return "", "", "", fmt.Errorf("missing input/output files in %s", dir)
	}
	inExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(inputFile), "."))
	outExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(outputFile), "."))
	if inExt != outExt {
		return "", "", "", fmt.Errorf("input/output extension mismatch: %s vs %s", inExt, outExt)
	}
	if !supportedExts[inExt] {
		return "", "", "", fmt.Errorf("unsupported file extension: %s", inExt)
	}
	return inExt, inputFile, outputFile, nil
}

// ParsePrimitive coerces a delimited-text cell into a typed value. Booleans
// fold case; integers reject leading zeros so codes like "007" stay strings;
// non-finite floats stay strings.
func ParsePrimitive(text string) table.Value {
	stripped := strings.TrimSpace(text)
	switch strings.ToLower(stripped) {
	case "true":
		return table.BoolValue(true)
	case "false":
		return table.BoolValue(false)
	}
	if stripped == "" {
		return table.StringValue("")
	}
	zeroPadded := strings.HasPrefix(stripped, "0") &&
		stripped != "0" && stripped != "0.0" &&
		!strings.HasPrefix(stripped, "0.")
	if !zeroPadded {
		if i, err := strconv.ParseInt(stripped, 10, 64); err == nil {
			return table.IntValue(i)
		}
		if f, err := strconv.ParseFloat(stripped, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return table.FloatValue(f)
		}
	}
	return table.StringValue(text)
}

// LoadTable reads one sample table from path according to ext
func LoadTable(path, ext string) (*table.Table, error) {
	switch ext {
	case "csv", "tsv":
		return loadDelimited(path, ext)
	case "jsonl":
		return loadJSONLines(path)
	case "json":
		return loadJSONArray(path)
	}
	return nil, fmt.Errorf("unsupported file extension: %s", ext)
}

func loadDelimited(path, ext string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if ext == "tsv" {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if len(records) == 0 {
		return &table.Table{}, nil
	}
	columns := records[0]
	rows := make([]table.Row, 0, len(records)-1)
	for _, parts := range records[1:] {
		row := make(table.Row, len(columns))
		for idx, key := range columns {
			if idx < len(parts) {
				row[key] = ParsePrimitive(parts[idx])
			} else {
				row[key] = table.StringValue("")
			}
		}
		rows = append(rows, row)
	}
	return &table.Table{Columns: columns, Rows: rows}, nil
}

func loadJSONLines(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	t := &table.Table{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, keys, err := decodeObject([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if t.Columns == nil {
			t.Columns = keys
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func loadJSONArray(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("parse error: invalid json, expected array")
	}

	t := &table.Table{}
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		row, keys, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if t.Columns == nil {
			t.Columns = keys
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// decodeObject decodes a single JSON object into a row while preserving the
// key order encountered in the document. encoding/json maps drop ordering, so
// the token stream is walked directly.
func decodeObject(data []byte) (table.Row, []string, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("invalid row: expected object")
	}

	row := make(table.Row)
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("invalid row: non-string key")
		}
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		val, err := table.FromAny(raw)
		if err != nil {
			return nil, nil, err
		}
		row[key] = val
		keys = append(keys, key)
	}
	return row, keys, nil
}
