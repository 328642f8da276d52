package dotter

import (
	"fmt"
	"strings"
)

// Strand selects which strand of a DNA sequence is displayed/compared.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

// Sequence owns one of the two sequences under comparison, plus its derived
// caches: the reverse-complement buffer and the three reading-frame peptide
// translations of the chosen strand. A Sequence is immutable after Ingest
// except for these caches, which are computed on first use and memoised.
type Sequence struct {
	Name     string
	Residues []byte
	Kind     ResidueKind
	Strand   Strand

	// Min/Max give the 1-based coordinates the first/last residue
	// represent in the enclosing coordinate system.
	Min, Max int

	revComp      []byte
	revCompBad   []int // source indices of invalid nucleotides hit while complementing
	peptideFrame [3][]byte
	framesDone   bool
}

// Ingest uppercases text, rejects an empty sequence, and returns a Sequence
// whose coordinate range is [offset+1, offset+len(text)].
func Ingest(name string, text []byte, kind ResidueKind, strand Strand, offset int) (*Sequence, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("invalid input: sequence %q is empty", name)
	}
	residues := []byte(strings.ToUpper(string(text)))
	return &Sequence{
		Name:     name,
		Residues: residues,
		Kind:     kind,
		Strand:   strand,
		Min:      offset + 1,
		Max:      offset + len(residues),
	}, nil
}

// Len returns the number of residues in the sequence.
func (s *Sequence) Len() int { return len(s.Residues) }

// ReverseComplementCached returns the reverse complement of s.Residues,
// computing and memoising it on first call, along with the indices of any
// invalid nucleotides. Only meaningful for DNA.
func (s *Sequence) ReverseComplementCached() ([]byte, []int) {
	if s.revComp == nil {
		s.revComp, s.revCompBad = ReverseComplement(s.Residues)
	}
	return s.revComp, s.revCompBad
}

// Reversed returns s.Residues read back to front, for a reversed peptide
// display where there is no complement notion.
func (s *Sequence) Reversed() []byte {
	n := len(s.Residues)
	out := make([]byte, n)
	for i, b := range s.Residues {
		out[n-1-i] = b
	}
	return out
}

// StrandResidues returns the residues of the strand s.Strand selects: the
// raw buffer for Forward, the reverse complement for Reverse.
func (s *Sequence) StrandResidues() []byte {
	if s.Strand == Reverse {
		rc, _ := s.ReverseComplementCached()
		return rc
	}
	return s.Residues
}

// PeptideFrames translates s.StrandResidues() in the three reading frames,
// memoising the result.
func (s *Sequence) PeptideFrames() [3][]byte {
	if !s.framesDone {
		strandSeq := s.StrandResidues()
		for frame := 0; frame < 3; frame++ {
			s.peptideFrame[frame] = Translate(strandSeq, frame)
		}
		s.framesDone = true
	}
	return s.peptideFrame
}

// BaseAt returns the residue at a 1-based display coordinate within the
// sequence's coordinate range. If complement is true and the sequence is
// DNA, the complemented base is returned instead.
func (s *Sequence) BaseAt(displayCoord int, complement bool) (byte, error) {
	if displayCoord < s.Min || displayCoord > s.Max {
		return 0, fmt.Errorf("coordinate %d outside [%d,%d]",
			displayCoord, s.Min, s.Max)
	}
	idx := displayCoord - s.Min
	b := s.Residues[idx]
	if complement && s.Kind == DNA {
		c, _ := Complement(b)
		return c, nil
	}
	return b, nil
}

// SameResidues reports whether two sequences are byte-identical.
func SameResidues(a, b *Sequence) bool {
	if len(a.Residues) != len(b.Residues) {
		return false
	}
	for i := range a.Residues {
		if a.Residues[i] != b.Residues[i] {
			return false
		}
	}
	return true
}
