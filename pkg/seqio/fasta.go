// Package seqio reads FASTA sequence files and detects the molecule
// type, which downstream tools need to pick their substitution models.
package seqio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/phylotree/pkg/errors"
)

// Record is one FASTA entry. ID is the first whitespace-delimited
// token of the header line; Description the remainder.
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// ReadFile parses the FASTA file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "sequence file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open sequence file %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read parses FASTA records from r. Sequence lines are concatenated
// and stripped of whitespace; empty lines between records are allowed.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	var cur *Record
	var seq strings.Builder

	flush := func() error {
		if cur == nil {
			return nil
		}
		cur.Sequence = seq.String()
		if cur.Sequence == "" {
			return errors.New(errors.ErrCodeInvalidInput, "record %q has no sequence data", cur.ID)
		}
		records = append(records, *cur)
		cur = nil
		seq.Reset()
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024) // alignments can have very long lines
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "":
			continue
		case strings.HasPrefix(text, ">"):
			if err := flush(); err != nil {
				return nil, err
			}
			header := strings.TrimSpace(text[1:])
			if header == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "empty FASTA header at line %d", line)
			}
			id, desc, _ := strings.Cut(header, " ")
			cur = &Record{ID: id, Description: strings.TrimSpace(desc)}
		default:
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"sequence data before first header at line %d", line)
			}
			seq.WriteString(strings.Join(strings.Fields(text), ""))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sequence data")
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no FASTA records found")
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate sequence ID %q", rec.ID)
		}
		seen[rec.ID] = true
	}
	return records, nil
}

// WriteTo serializes records as FASTA to w, wrapping sequence lines
// at 80 columns.
func WriteTo(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		header := rec.ID
		if rec.Description != "" {
			header += " " + rec.Description
		}
		if _, err := bw.WriteString(">" + header + "\n"); err != nil {
			return err
		}
		for i := 0; i < len(rec.Sequence); i += 80 {
			end := i + 80
			if end > len(rec.Sequence) {
				end = len(rec.Sequence)
			}
			if _, err := bw.WriteString(rec.Sequence[i:end] + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
