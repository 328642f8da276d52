package dotter

import "fmt"

// Range is an inclusive [Min,Max] sub-range of a sequence's coordinates.
type Range struct {
	Min, Max int
}

// Len returns the number of coordinates covered by r.
func (r Range) Len() int { return r.Max - r.Min + 1 }

// Projection is the bidirectional map between sequence coordinates, pixmap
// indices and on-screen pixels, parameterised by the visible ranges, zoom,
// residues-per-column factor, and the two reversed-scale flags.
type Projection struct {
	RefRange, MatchRange    Range
	Zoom                    float64
	Resfac                  int
	ReversedH, ReversedV    bool
	LeftBorder, TopBorder   int
	ImageWidth, ImageHeight int
}

// NewProjection validates resfac and zoom and builds a Projection. Image
// dimensions are the visible lengths compressed by zoom (and resfac
// horizontally), each rounded up to a multiple of 4.
func NewProjection(refRange, matchRange Range, zoom float64, resfac int, reversedH, reversedV bool) (*Projection, error) {
	if resfac != 1 && resfac != 3 {
		return nil, fmt.Errorf("invalid input: resfac must be 1 or 3, got %d", resfac)
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("invalid input: zoom must be positive, got %v", zoom)
	}
	p := &Projection{
		RefRange:   refRange,
		MatchRange: matchRange,
		Zoom:       zoom,
		Resfac:     resfac,
		ReversedH:  reversedH,
		ReversedV:  reversedV,
	}
	p.ImageWidth = roundUp4(ceilDiv(float64(refRange.Len())/float64(resfac), zoom))
	p.ImageHeight = roundUp4(ceilDiv(float64(matchRange.Len()), zoom))
	return p, nil
}

func ceilDiv(numerator, by float64) int {
	q := numerator / by
	i := int(q)
	if float64(i) < q {
		i++
	}
	return i
}

func roundUp4(n int) int {
	if rem := n % 4; rem != 0 {
		n += 4 - rem
	}
	return n
}

// sfH and sfV are the horizontal/vertical residues-per-pixel scale factors.
func (p *Projection) sfH() float64 { return p.Zoom * float64(p.Resfac) }
func (p *Projection) sfV() float64 { return p.Zoom }

// QToPX maps a reference coordinate q to its on-screen pixel column. A
// coordinate on a pixel boundary lands in the smaller pixel index.
func (p *Projection) QToPX(q int) int {
	var v float64
	if p.ReversedH {
		v = float64(p.RefRange.Max-q) / p.sfH()
	} else {
		v = float64(q-p.RefRange.Min) / p.sfH()
	}
	return floorInt(v) + p.LeftBorder
}

// SToPY maps a match coordinate s to its on-screen pixel row.
func (p *Projection) SToPY(s int) int {
	var v float64
	if p.ReversedV {
		v = float64(p.MatchRange.Max-s) / p.sfV()
	} else {
		v = float64(s-p.MatchRange.Min) / p.sfV()
	}
	return floorInt(v) + p.TopBorder
}

// PXToQ maps a screen column back to the nearest reference coordinate,
// rounded to the nearest multiple of resfac and clamped into RefRange.
func (p *Projection) PXToQ(px int) int {
	rel := float64(px-p.LeftBorder) * p.sfH()
	var q int
	if p.ReversedH {
		q = p.RefRange.Max - roundToMultiple(rel, p.Resfac)
	} else {
		q = p.RefRange.Min + roundToMultiple(rel, p.Resfac)
	}
	return clamp(q, p.RefRange.Min, p.RefRange.Max)
}

// PYToS maps a screen row back to the nearest match coordinate, clamped
// into MatchRange.
func (p *Projection) PYToS(py int) int {
	rel := float64(py-p.TopBorder) * p.sfV()
	var s int
	if p.ReversedV {
		s = p.MatchRange.Max - roundToMultiple(rel, 1)
	} else {
		s = p.MatchRange.Min + roundToMultiple(rel, 1)
	}
	return clamp(s, p.MatchRange.Min, p.MatchRange.Max)
}

// MapScreenToSeq maps a screen position to the sequence coordinate pair
// under it.
func (p *Projection) MapScreenToSeq(x, y int) (q, s int) {
	return p.PXToQ(x), p.PYToS(y)
}

// MapSeqToScreen maps a sequence coordinate pair to its screen position.
func (p *Projection) MapSeqToScreen(q, s int) (x, y int) {
	return p.QToPX(q), p.SToPY(s)
}

// PixmapIndex computes the row-major pixmap index for a pixmap-space
// (pixmapQ, pixmapS) pair. Out-of-bounds input is a programmer error and is
// reported rather than silently accepted.
func (p *Projection) PixmapIndex(pixmapQ, pixmapS int) (int, error) {
	if pixmapQ < 0 || pixmapQ >= p.ImageWidth || pixmapS < 0 || pixmapS >= p.ImageHeight {
		return 0, fmt.Errorf("pixmap index (%d,%d) outside [0,%d)x[0,%d)",
			pixmapQ, pixmapS, p.ImageWidth, p.ImageHeight)
	}
	return pixmapS*p.ImageWidth + pixmapQ, nil
}

func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

func roundToMultiple(v float64, m int) int {
	if m <= 1 {
		return int(v + 0.5)
	}
	return int(v/float64(m)+0.5) * m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
