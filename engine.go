package dotter

import (
	"fmt"
	"math"
)

// CompareMode selects which comparison family the score-matrix engine runs.
type CompareMode int

const (
	PxP CompareMode = iota // protein x protein
	NxN                    // dna x dna, both strands
	NxP                    // dna x protein, three reading frames
)

// CompareConfig bundles the comparison knobs that change what the engine
// computes, as opposed to how the result is displayed.
type CompareConfig struct {
	Mode          CompareMode
	SelfCompare   bool
	DisplayMirror bool
	WatsonOnly    bool
	CrickOnly     bool
}

// Resfac returns how many horizontal residues one column of the plot
// represents: 3 when a DNA reference is translated against a protein match,
// 1 otherwise.
func (c CompareConfig) Resfac() int {
	if c.Mode == NxP {
		return 3
	}
	return 1
}

// Pixmap is a contiguous row-major greyscale score array.
type Pixmap struct {
	Width, Height int
	Data          []byte
}

// NewPixmap allocates a zero-initialised pixmap of the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{Width: width, Height: height, Data: make([]byte, width*height)}
}

func (pm *Pixmap) index(q, s int) (int, error) {
	if q < 0 || q >= pm.Width || s < 0 || s >= pm.Height {
		return 0, fmt.Errorf("pixel (%d,%d) outside [0,%d)x[0,%d)",
			q, s, pm.Width, pm.Height)
	}
	return s*pm.Width + q, nil
}

// setMax writes v at (q,s), keeping the larger of v and whatever was already
// there. Out-of-bounds writes are reported, never applied.
func (pm *Pixmap) setMax(q, s int, v byte) error {
	idx, err := pm.index(q, s)
	if err != nil {
		return err
	}
	if v > pm.Data[idx] {
		pm.Data[idx] = v
	}
	return nil
}

// codeOfDNA and codeOfProtein adapt CodeOfResidue to score-table indexing:
// an unrecognised byte routes to the matrix's "unknown" slot rather than a
// negative index.
func codeOfDNA(b byte) int {
	c := CodeOfResidue(b, DNA)
	if c < 0 {
		return 5
	}
	return c
}

func codeOfProtein(b byte) int {
	c := CodeOfResidue(b, PEPTIDE)
	if c < 0 {
		return UnknownCode
	}
	return c
}

// codeOfDNAComplement returns the code of the complemented base, used when
// scoring the reference against the reverse strand of the match.
func codeOfDNAComplement(b byte) int {
	c, _ := Complement(b)
	return codeOfDNA(c)
}

// DeriveZoom picks a zoom factor so that the pixmap fits inside a memory
// budget of budgetMb megabytes.
func DeriveZoom(refLen, resfac, matchLen int, budgetMb float64) float64 {
	area := float64(refLen)/float64(resfac)*float64(matchLen)/1e6 - 1e-6
	return math.Floor(math.Sqrt(area/budgetMb)) + 1
}

// passParams is the per-pass strategy for the shared sliding-sum skeleton:
// iteration direction on the match sequence, the diagonal clip used under
// self-comparison, and the residue-to-code maps for each axis.
type passParams struct {
	reverse     bool // Crick pass: iterate s downward, invert the sub-cell
	clipDiag    bool // self-compare: only score q <= s
	codeOfRef   func(byte) int
	codeOfMatch func(byte) int
}

// RunEngine produces the greyscale pixmap for the two sequences restricted
// to the projection's visible ranges. It dispatches one pass per strand or
// reading frame, then applies the self-compare mirror copy if requested.
func RunEngine(ref, match *Sequence, m Matrix, w int, proj *Projection, pixelFac int, cfg CompareConfig) (*Pixmap, error) {
	if w <= 0 {
		return nil, fmt.Errorf("invalid input: window size must be positive, got %d", w)
	}
	if pixelFac <= 0 {
		return nil, fmt.Errorf("invalid input: pixel_fac must be positive, got %d", pixelFac)
	}

	refSub, err := visibleResidues(ref, proj.RefRange)
	if err != nil {
		return nil, err
	}
	matchSub, err := visibleResidues(match, proj.MatchRange)
	if err != nil {
		return nil, err
	}

	pm := NewPixmap(proj.ImageWidth, proj.ImageHeight)
	selfCompare := cfg.SelfCompare && (cfg.Mode == PxP || cfg.Mode == NxN)

	printEngineStats(len(refSub)/cfg.Resfac(), len(matchSub), cfg)
	bar := &ProgressBar{Label: "dotplot", Total: uint64(passCount(cfg) * len(matchSub))}

	switch cfg.Mode {
	case PxP:
		err = runPass(pm, refSub, matchSub, m, w, proj.Zoom,
			pixelFac, passParams{codeOfRef: codeOfProtein, codeOfMatch: codeOfProtein, clipDiag: selfCompare}, bar)
		if err != nil {
			return nil, err
		}

	case NxN:
		if !cfg.CrickOnly {
			err = runPass(pm, refSub, matchSub, m, w, proj.Zoom,
				pixelFac, passParams{codeOfRef: codeOfDNA, codeOfMatch: codeOfDNA, clipDiag: selfCompare}, bar)
			if err != nil {
				return nil, err
			}
		}
		if !cfg.WatsonOnly {
			err = runPass(pm, refSub, matchSub, m, w, proj.Zoom,
				pixelFac, passParams{codeOfRef: codeOfDNAComplement, codeOfMatch: codeOfDNA,
					clipDiag: selfCompare, reverse: true}, bar)
			if err != nil {
				return nil, err
			}
		}

	case NxP:
		for frame := 0; frame < 3; frame++ {
			pep := peptideFrame(ref, refSub, proj.RefRange, frame)
			err = runPass(pm, pep, matchSub, m, w, proj.Zoom,
				pixelFac, passParams{codeOfRef: codeOfProtein, codeOfMatch: codeOfProtein}, bar)
			if err != nil {
				return nil, err
			}
		}
	}
	bar.Finish()

	if selfCompare && cfg.DisplayMirror {
		mirrorPixmap(pm)
	}
	return pm, nil
}

// visibleResidues slices a sequence down to the residues the given display
// range covers.
func visibleResidues(s *Sequence, r Range) ([]byte, error) {
	if r.Min < s.Min || r.Max > s.Max {
		return nil, fmt.Errorf("invalid input: range [%d,%d] outside sequence %q [%d,%d]",
			r.Min, r.Max, s.Name, s.Min, s.Max)
	}
	off := r.Min - s.Min
	return s.Residues[off : off+r.Len()], nil
}

// peptideFrame returns the reading-frame translation of the visible part of
// a DNA reference. The cached whole-sequence translations are reused when
// the range covers the full sequence; a sub-range is re-translated so that
// frame 0 starts at the left edge of the plot.
func peptideFrame(ref *Sequence, refSub []byte, r Range, frame int) []byte {
	if r.Min == ref.Min && r.Max == ref.Max {
		return ref.PeptideFrames()[frame]
	}
	return Translate(refSub, frame)
}

// passCount returns how many sliding-sum passes the configuration needs.
func passCount(cfg CompareConfig) int {
	switch cfg.Mode {
	case NxP:
		return 3
	case NxN:
		n := 0
		if !cfg.CrickOnly {
			n++
		}
		if !cfg.WatsonOnly {
			n++
		}
		return n
	}
	return 1
}

// printEngineStats reports the work about to be done, in millions of dots.
func printEngineStats(qlen, slen int, cfg CompareConfig) {
	dots := float64(qlen) / 1e6 * float64(slen)
	if cfg.SelfCompare {
		dots /= 2
	}
	if cfg.Mode == NxN && !cfg.WatsonOnly && !cfg.CrickOnly {
		dots *= 2
	}
	if cfg.Mode == NxP {
		dots *= 3
	}
	Vprintf("%d vs. %d residues => %.2f million dots.\n", qlen, slen, dots)
}

// runPass is the sliding-diagonal-sum skeleton shared by every mode.
//
// For each match position s it maintains newsum[q], the running sum of
// substitution scores along the w-long diagonal ending at (q,s), computed
// from the previous row as
//
//	newsum[q] = oldsum[q-1] + scoreVec[match[s]][q] - scoreVec[match[s-w]][q-w]
//
// with scoreVec[r][q] pre-tabulated as matrix[r][codeOfRef(refSeq[q])]. Two
// row buffers are ping-ponged on the parity of s. The first w-1 positions of
// each diagonal ramp up against an implicit all-zeros delete row; no pixel
// is emitted until both q and s have consumed a full window (symmetrically
// s <= len-w on the reverse pass, which streams s downward).
//
// A positive newsum lands in the pixel holding the window midpoint, but only
// on the lower triangle of its zoom x zoom sub-cell, so that one diagonal
// contributes to exactly one pixel per cell; the reverse pass flips the
// sub-cell origin to the bottom-left corner. The written value is
// min(255, newsum*pixelFac/w), kept as a maximum against prior passes.
func runPass(pm *Pixmap, refSeq, matchSeq []byte, m Matrix, w int, zoom float64, pixelFac int, pp passParams, bar *ProgressBar) error {
	peplen := len(refSeq)
	n := len(matchSeq)
	if peplen == 0 || n == 0 {
		return nil
	}

	scoreVec := make([][]int, MatrixSize)
	for code := 0; code < MatrixSize; code++ {
		row := make([]int, peplen)
		for q := 0; q < peplen; q++ {
			row[q] = m.Vals[code][pp.codeOfRef(refSeq[q])]
		}
		scoreVec[code] = row
	}

	sIndex := make([]int, n)
	for s := 0; s < n; s++ {
		sIndex[s] = pp.codeOfMatch(matchSeq[s])
	}

	sum1 := make([]int, peplen)
	sum2 := make([]int, peplen)
	win2 := w / 2

	start, inc := 0, 1
	if pp.reverse {
		start, inc = n-1, -1
	}

	for sIdx := start; sIdx >= 0 && sIdx < n; sIdx += inc {
		bar.Increment()
		var oldsum, newsum []int
		if sIdx&1 == 1 {
			newsum, oldsum = sum1, sum2
		} else {
			newsum, oldsum = sum2, sum1
		}

		var delrow []int
		if pp.reverse {
			if sIdx < n-w {
				delrow = scoreVec[sIndex[sIdx+w]]
			}
		} else {
			if sIdx >= w {
				delrow = scoreVec[sIndex[sIdx-w]]
			}
		}
		addrow := scoreVec[sIndex[sIdx]]

		newsum[0] = addrow[0]

		qmax := w
		if peplen < qmax {
			qmax = peplen
		}
		for q := 1; q < qmax; q++ {
			newsum[q] = oldsum[q-1] + addrow[q]
		}

		validS := sIdx >= w
		if pp.reverse {
			validS = sIdx <= n-w
		}

		stop := peplen
		if pp.clipDiag && sIdx+1 < stop {
			stop = sIdx + 1
		}
		for q := qmax; q < stop; q++ {
			v := oldsum[q-1] + addrow[q]
			if delrow != nil {
				v -= delrow[q-w]
			}
			newsum[q] = v
			if v <= 0 || !validS {
				continue
			}

			dotposq := int(float64(q-win2) / zoom)
			dotposs := int(float64(sIdx-inc*win2) / zoom)

			// Only fill half the sub-cell, so each diagonal owns one pixel.
			ql := int(float64(q-win2) - float64(dotposq)*zoom)
			sl := int(float64(sIdx-inc*win2) - float64(dotposs)*zoom)
			if pp.reverse {
				// Move the sub-cell origin to its bottom-left corner.
				sl = int(zoom - 1 - float64(sl))
			}
			if sl < ql {
				continue
			}

			val := v * pixelFac / w
			if val > 255 {
				val = 255
			}
			if err := pm.setMax(dotposq, dotposs, byte(val)); err != nil {
				Criticalf("%s\n", err)
			}
		}
	}
	return nil
}

// mirrorPixmap copies each pixel at (q,s) with q<s to (s,q) after a
// self-compare run, turning the computed lower triangle into a symmetric
// image.
func mirrorPixmap(pm *Pixmap) {
	n := pm.Width
	if pm.Height < n {
		n = pm.Height
	}
	for s := 0; s < n; s++ {
		for q := 0; q < s; q++ {
			lo, _ := pm.index(q, s)
			hi, _ := pm.index(s, q)
			pm.Data[hi] = pm.Data[lo]
		}
	}
}
