package sheet

import (
	"encoding/csv"
	"regexp"
	"strings"
)

// Record is one data row keyed by header name.
type Record struct {
	Line   int // 1-based line in the source text
	Fields map[string]string
}

func (r Record) Get(key string) string { return r.Fields[key] }

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseCSV splits text into header-keyed records. Each line is a row; quoted fields
// may contain commas but not line breaks. Rows whose field count differs from the
// header count are dropped.
func ParseCSV(text string) []Record {
	if strings.TrimSpace(text) == "" {
		return []Record{}
	}
	lines := lineBreak.Split(text, -1)

	rawHeaders := strings.Split(strings.TrimPrefix(lines[0], "\uFEFF"), ",")
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	out := make([]Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values, ok := splitLine(line)
		if !ok || len(values) != len(headers) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for j, h := range headers {
			fields[h] = values[j]
		}
		out = append(out, Record{Line: i + 2, Fields: fields})
	}
	return out
}

func splitLine(line string) ([]string, bool) {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	values, err := r.Read()
	if err != nil {
		return nil, false
	}
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	return values, true
}
