package seqio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/phylotree/pkg/errors"
)

func TestRead(t *testing.T) {
	input := ">seq1 homo sapiens\nACGT\nACGT\n\n>seq2\nGGCC\n"

	records, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "seq1" || records[0].Description != "homo sapiens" {
		t.Errorf("records[0] header = %q %q", records[0].ID, records[0].Description)
	}
	if records[0].Sequence != "ACGTACGT" {
		t.Errorf("records[0].Sequence = %q, want concatenated lines", records[0].Sequence)
	}
	if records[1].ID != "seq2" || records[1].Sequence != "GGCC" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "data before header", input: "ACGT\n>seq1\nACGT\n"},
		{name: "empty header", input: ">\nACGT\n"},
		{name: "record without sequence", input: ">seq1\n>seq2\nACGT\n"},
		{name: "duplicate id", input: ">a\nACGT\n>a\nGGCC\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Read = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	records := []Record{
		{ID: "a", Description: "first", Sequence: strings.Repeat("ACGT", 50)},
		{ID: "b", Sequence: "MKVL"},
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, records); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(back) != 2 || back[0].Sequence != records[0].Sequence || back[1].ID != "b" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		seqs []string
		want SeqType
	}{
		{name: "dna", seqs: []string{"ACGTACGT"}, want: DNA},
		{name: "dna lowercase", seqs: []string{"acgtacgt"}, want: DNA},
		{name: "dna with gaps", seqs: []string{"ACG-T.NN"}, want: DNA},
		{name: "rna", seqs: []string{"ACGUACGU"}, want: RNA},
		{name: "u and t is dna", seqs: []string{"ACGU", "ACGT"}, want: DNA},
		{name: "protein", seqs: []string{"MKVLFE"}, want: Protein},
		{name: "protein by stop codon", seqs: []string{"ACGT*"}, want: Protein},
		{name: "protein wins over rna", seqs: []string{"ACGU", "MKVLFE"}, want: Protein},
		{name: "protein without marker residues", seqs: []string{"MKVDGHRSTYW"}, want: Protein},
		{name: "protein outside both alphabets wins over rna", seqs: []string{"ACGU", "MKVD"}, want: Protein},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Record, len(tt.seqs))
			for i, s := range tt.seqs {
				records[i] = Record{ID: string(rune('a' + i)), Sequence: s}
			}
			if got := Detect(records); got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
		})
	}
}
