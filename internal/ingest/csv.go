package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter rune // 0 detects ';' or ',' from the first line
	SkipRows  int
}

// ParseCSV reads delimited text into trimmed string rows.
func ParseCSV(r io.Reader, opts CSVOptions) ([][]string, error) {
	br := bufio.NewReader(r)

	delim := opts.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		delim = detectDelimiter(head)
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var rows [][]string
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		if i < opts.SkipRows {
			continue
		}
		for j, field := range record {
			record[j] = strings.TrimSpace(field)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// detectDelimiter picks ';' when the first line has more semicolons than commas.
// Spreadsheets exported with a decimal-comma locale use ';'.
func detectDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
