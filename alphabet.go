package dotter

// ResidueKind distinguishes the two sequence alphabets the core understands.
type ResidueKind int

const (
	DNA ResidueKind = iota
	PEPTIDE
)

// NotResidue is returned by CodeOfResidue for any byte that is not a valid
// member of the alphabet in use.
const NotResidue = -1

// proteinAlphabet lists the recognised protein letters (20 amino acids plus
// the ambiguity codes B and Z) in the order their codes are assigned,
// 0..21. 'X' and '*' both land on UnknownCode.
const proteinAlphabet = "ARNDCQEGHILKMFPSTWYVBZ"

// UnknownCode is the substitution matrix row/column scoring "unknown vs
// anything".
const UnknownCode = 23

// proteinCode and nucleotideCode are 256-entry byte-to-code tables built
// once at startup, with every unassigned entry at NotResidue so a lookup
// needs no bounds checking beyond upper-casing.
var (
	proteinCode    [256]int
	nucleotideCode [256]int
)

func init() {
	for i := range proteinCode {
		proteinCode[i] = NotResidue
		nucleotideCode[i] = NotResidue
	}
	for i := range proteinAlphabet {
		proteinCode[proteinAlphabet[i]] = i
	}
	proteinCode['X'] = UnknownCode
	proteinCode['*'] = UnknownCode
}

// Nucleotide codes. U shares T's code.
const (
	baseA = 0
	baseC = 1
	baseG = 2
	baseT = 3
	baseN = 4
)

func init() {
	nucleotideCode['A'] = baseA
	nucleotideCode['C'] = baseC
	nucleotideCode['G'] = baseG
	nucleotideCode['T'] = baseT
	nucleotideCode['U'] = baseT
	nucleotideCode['N'] = baseN
}

// complementTable maps an upper-case nucleotide letter to its Watson-Crick
// complement. Bytes outside this table are not valid nucleotides.
var complementTable = map[byte]byte{
	'A': 'T', 'T': 'A', 'U': 'A',
	'C': 'G', 'G': 'C',
	'N': 'N',
}

// CodeOfResidue maps a residue character (upper or lower case) to its
// alphabet code for the given ResidueKind. '*' maps to UnknownCode in
// PEPTIDE mode; any other unrecognised byte, and '*' in DNA mode, returns
// NotResidue.
func CodeOfResidue(b byte, kind ResidueKind) int {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	switch kind {
	case PEPTIDE:
		return proteinCode[b]
	case DNA:
		return nucleotideCode[b]
	}
	return NotResidue
}

// Complement returns the Watson-Crick complement of a nucleotide letter,
// preserving case. If the byte is not a recognised nucleotide letter, ok is
// false and b is returned unchanged so the caller can warn and continue.
func Complement(b byte) (comp byte, ok bool) {
	lower := b >= 'a' && b <= 'z'
	up := b
	if lower {
		up -= 'a' - 'A'
	}
	c, found := complementTable[up]
	if !found {
		return b, false
	}
	if lower {
		c += 'a' - 'A'
	}
	return c, true
}
