package seqio

import (
	"strings"
)

// SeqType is the detected molecule type of an input set.
type SeqType string

const (
	Protein SeqType = "protein"
	DNA     SeqType = "dna"
	RNA     SeqType = "rna"
)

// proteinOnly are residue codes that cannot appear in nucleotide
// sequences; seeing any of them marks the input as protein. 'U' is
// excluded here despite being a valid amino acid code
// (selenocysteine) because it is overwhelmingly more likely to mean
// uracil; the U-vs-T rule below settles it.
const proteinOnly = "EFILPQXZJO*"

// nucleotides are the residues a pure nucleotide sequence may contain,
// besides the ignored gap/unknown codes.
const nucleotides = "ACGTU"

// Detect classifies the records' molecule type. Any residue unique to
// amino acid alphabets makes the set protein; a set drawn entirely
// from the nucleotide alphabet is RNA when it has U without T and DNA
// otherwise. Anything outside both alphabets defaults to protein, the
// safer model for ambiguous input. Gaps and unknowns ('-', '.', 'N')
// are ignored.
func Detect(records []Record) SeqType {
	sawU, sawT, sawOther := false, false, false
	for _, rec := range records {
		for _, r := range strings.ToUpper(rec.Sequence) {
			switch {
			case r == '-' || r == '.' || r == 'N':
				continue
			case strings.ContainsRune(proteinOnly, r):
				return Protein
			case r == 'U':
				sawU = true
			case r == 'T':
				sawT = true
			case !strings.ContainsRune(nucleotides, r):
				sawOther = true
			}
		}
	}
	if sawOther {
		return Protein
	}
	if sawU && !sawT {
		return RNA
	}
	return DNA
}

// IsNucleotide reports whether the type is DNA or RNA.
func (s SeqType) IsNucleotide() bool { return s == DNA || s == RNA }
