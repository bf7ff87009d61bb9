package groups

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/phylotree/pkg/errors"
)

// relationRow is one parsed row of a relation CSV.
type relationRow struct {
	Sequence string
	Group    string
	Color    string // empty when the file has no color column
}

// readRelationCSV parses a relation file. The header must contain
// "sequence" and "group" columns (matched case-insensitively); an
// optional "color" column supplies explicit group colors. Extra
// columns are ignored.
func readRelationCSV(path string) ([]relationRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "relation file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "open relation file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // validated per row below

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read CSV header from %s", path)
	}

	seqCol, groupCol, colorCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "sequence":
			seqCol = i
		case "group":
			groupCol = i
		case "color":
			colorCol = i
		}
	}
	if seqCol < 0 || groupCol < 0 {
		return nil, errors.New(errors.ErrCodeInvalidCSV,
			"relation file must contain 'sequence' and 'group' columns, got %v", header)
	}

	var rows []relationRow
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read CSV row %d", line)
		}
		if seqCol >= len(record) || groupCol >= len(record) {
			return nil, errors.New(errors.ErrCodeInvalidCSV,
				"row %d has %d fields, need at least %d", line, len(record), groupCol+1)
		}

		row := relationRow{
			Sequence: strings.TrimSpace(record[seqCol]),
			Group:    strings.TrimSpace(record[groupCol]),
		}
		if colorCol >= 0 && colorCol < len(record) {
			row.Color = strings.TrimSpace(record[colorCol])
		}
		if row.Sequence == "" || row.Group == "" {
			continue // blank padding rows are tolerated
		}
		rows = append(rows, row)
	}

	return rows, nil
}
