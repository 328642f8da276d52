package dotter

import "math"

// HSPMode selects how pre-computed high-scoring pairs are rendered.
type HSPMode int

const (
	HSPOff HSPMode = iota
	HSPGreyscale
	HSPRedLine
	HSPScoreColour
)

// HSP is a previously-computed high-scoring pair between the reference and
// match sequences, in sequence coordinates.
type HSP struct {
	QStart, QEnd int
	SStart, SEnd int
	Score        int
	Strand       Strand
	MatchName    string // which match sequence the pair belongs to
}

// HSPLine is a vector overlay segment produced in RedLine/ScoreColour
// mode, in pixmap coordinates; drawing it (and offsetting it by the plot
// borders) is up to the display layer.
type HSPLine struct {
	X0, Y0, X1, Y1 int
	Colour         string
}

// RasteriseHSPs projects each HSP's endpoints into pixmap space, snapped
// onto the engine's legal sub-cells, and applies mode. In greyscale mode it
// returns a populated HSP pixmap, identically dimensioned to the dot
// pixmap, that replaces it on screen. In the two line modes it returns
// vector segments instead. HSPs for a different match sequence are
// ignored; an HSP whose coordinates fall outside the plot is skipped with
// a diagnostic, never snapped into range.
func RasteriseHSPs(hsps []HSP, matchName string, proj *Projection, mode HSPMode) (*Pixmap, []HSPLine, []error) {
	var errs []error
	if mode == HSPOff {
		return nil, nil, nil
	}

	var pm *Pixmap
	var lines []HSPLine
	if mode == HSPGreyscale {
		pm = NewPixmap(proj.ImageWidth, proj.ImageHeight)
	}

	for _, h := range hsps {
		if h.MatchName != "" && h.MatchName != matchName {
			continue
		}
		x0, y0, ok0 := snapHSPEndpoint(proj, h.QStart, h.SStart, h.Strand)
		x1, y1, ok1 := snapHSPEndpoint(proj, h.QEnd, h.SEnd, h.Strand)
		if !ok0 || !ok1 {
			errs = append(errs, hspOutOfRangeError(h))
			continue
		}

		switch mode {
		case HSPGreyscale:
			v := h.Score
			if v > 255 {
				v = 255
			}
			for _, pt := range bresenham(x0, y0, x1, y1) {
				if err := pm.setMax(pt[0], pt[1], byte(v)); err != nil {
					errs = append(errs, err)
				}
			}
		case HSPRedLine:
			lines = append(lines, HSPLine{X0: x0, Y0: y0, X1: x1, Y1: y1, Colour: "red"})
		case HSPScoreColour:
			lines = append(lines, HSPLine{X0: x0, Y0: y0, X1: x1, Y1: y1, Colour: scoreColour(h.Score)})
		}
	}
	return pm, lines, errs
}

func scoreColour(score int) string {
	switch {
	case score < 75:
		return "dark-red"
	case score < 100:
		return "magenta"
	default:
		return "red"
	}
}

// snapHSPEndpoint projects a (q,s) sequence coordinate into pixmap space
// and applies the engine's sub-cell triangle rule so rendered lines land on
// the pixels the dot engine lit. The endpoint's offsets inside its
// zoom x zoom sub-cell are computed exactly as the engine computes ql/sl,
// with sl inverted to the bottom-left origin on the reverse strand; an
// endpoint on the illegal half (sl < ql) belongs to the cell its diagonal
// is drawn in, one pixel further along the horizontal axis.
func snapHSPEndpoint(proj *Projection, q, s int, strand Strand) (x, y int, ok bool) {
	if q < proj.RefRange.Min || q > proj.RefRange.Max ||
		s < proj.MatchRange.Min || s > proj.MatchRange.Max {
		return 0, 0, false
	}
	zoom := proj.Zoom
	qIdx := (q - proj.RefRange.Min) / proj.Resfac
	sIdx := s - proj.MatchRange.Min

	dotposq := int(float64(qIdx) / zoom)
	dotposs := int(float64(sIdx) / zoom)
	ql := int(float64(qIdx) - float64(dotposq)*zoom)
	sl := int(float64(sIdx) - float64(dotposs)*zoom)
	if strand == Reverse {
		sl = int(zoom - 1 - float64(sl))
	}
	if sl < ql {
		dotposq++
	}

	x, y = dotposq, dotposs
	if x < 0 || x >= proj.ImageWidth || y < 0 || y >= proj.ImageHeight {
		return 0, 0, false
	}
	return x, y, true
}

func hspOutOfRangeError(h HSP) error {
	return &hspRangeError{h}
}

type hspRangeError struct{ h HSP }

func (e *hspRangeError) Error() string {
	return "hsp out of sequence range, skipped: " + e.h.MatchName
}

// bresenham returns every pixel on the line from (x0,y0) to (x1,y1).
func bresenham(x0, y0, x1, y1 int) [][2]int {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var pts [][2]int
	x, y := x0, y0
	for {
		pts = append(pts, [2]int{x, y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return pts
}
