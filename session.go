package dotter

import "fmt"

// Session owns the two sequences and the substitution matrix for the
// lifetime of a dotter run. Window contexts (Plot) borrow a Session for the
// duration of any engine run; nothing in a Session changes once built.
type Session struct {
	Ref, Match *Sequence
	Matrix     Matrix
	Config     CompareConfig
}

// NewSession builds a Session, requiring self-compare to be set whenever
// the two sequences are byte-identical.
func NewSession(ref, match *Sequence, matrix Matrix, cfg CompareConfig) (*Session, error) {
	if SameResidues(ref, match) && !cfg.SelfCompare {
		return nil, fmt.Errorf("invalid input: identical sequences require self-compare")
	}
	return &Session{Ref: ref, Match: match, Matrix: matrix, Config: cfg}, nil
}

// PlotParams are the per-window knobs for opening a plot. Zero values ask
// for a derived default: zoom from the memory budget, W and pixel_fac from
// the Karlin-Altschul estimate.
type PlotParams struct {
	Zoom          float64
	W             int
	PixelFac      int
	MemoryLimitMb float64
	ReversedH     bool
	ReversedV     bool
	HSPs          []HSP
	HSPMode       HSPMode

	// OnPixmapReady, when set, is called with the finished dot pixmap
	// before OpenPlot returns. The pixmap is owned exclusively by the
	// engine until this point; the callback is the hand-over.
	OnPixmapReady func(*Pixmap)
}

// Plot is one window context: projection, window length, pixmaps, selection
// and greyramp. It is created on open and discarded on close; opening a
// zoomed sub-plot creates a new Plot borrowing the same Session.
type Plot struct {
	Session *Session

	Proj      *Projection
	W         int
	PixelFac  int
	Pixmap    *Pixmap
	HSPPixmap *Pixmap
	HSPMode   HSPMode
	HSPLines  []HSPLine

	Greyramp  *Greyramp
	Selection *Selection
}

// OpenPlot runs the whole pipeline once for the given visible ranges:
// derives zoom, W and pixel_fac where not supplied, builds the projection,
// runs the engine, rasterises any HSPs, and wires up a default greyramp and
// selection.
func OpenPlot(sess *Session, refRange, matchRange Range, params PlotParams) (*Plot, error) {
	resfac := sess.Config.Resfac()

	zoom := params.Zoom
	if zoom <= 0 {
		budget := params.MemoryLimitMb
		if budget <= 0 {
			budget = 0.5
		}
		zoom = DeriveZoom(refRange.Len(), resfac, matchRange.Len(), budget)
	}

	proj, err := NewProjection(refRange, matchRange, zoom, resfac, params.ReversedH, params.ReversedV)
	if err != nil {
		return nil, err
	}

	w, pixelFac := params.W, params.PixelFac
	if w <= 0 || pixelFac <= 0 {
		est := EstimateWindow(sess.Matrix, compositionFor(sess), codeOfFor(sess.Config.Mode),
			refRange.Len()/resfac, matchRange.Len())
		if w <= 0 {
			w = est.W
		}
		if pixelFac <= 0 {
			pixelFac = DefaultPixelFac(est.E)
		}
	}
	if pixelFac <= 0 {
		pixelFac = format1DefaultPixelFac
	}

	pm, err := RunEngine(sess.Ref, sess.Match, sess.Matrix, w, proj, pixelFac, sess.Config)
	if err != nil {
		return nil, err
	}
	if params.OnPixmapReady != nil {
		params.OnPixmapReady(pm)
	}

	hspPixmap, hspLines, hspErrs := RasteriseHSPs(params.HSPs, sess.Match.Name, proj, params.HSPMode)
	for _, e := range hspErrs {
		Vprintf("%s\n", e)
	}

	return &Plot{
		Session:   sess,
		Proj:      proj,
		W:         w,
		PixelFac:  pixelFac,
		Pixmap:    pm,
		HSPPixmap: hspPixmap,
		HSPMode:   params.HSPMode,
		HSPLines:  hspLines,
		Greyramp:  NewGreyramp(0, 255),
		Selection: NewSelection(refRange, matchRange, zoom),
	}, nil
}

// SetHSPMode switches how HSPs are rendered, rebuilding the HSP pixmap or
// vector overlay as needed.
func (p *Plot) SetHSPMode(hsps []HSP, mode HSPMode) {
	p.HSPMode = mode
	pm, lines, errs := RasteriseHSPs(hsps, p.Session.Match.Name, p.Proj, mode)
	for _, e := range errs {
		Vprintf("%s\n", e)
	}
	p.HSPPixmap = pm
	p.HSPLines = lines
}

// ActivePixmap returns the pixmap driving the displayed image: the HSP
// pixmap when greyscale HSP overlay is active, the dot pixmap otherwise.
// The two share the single displayed image channel, so they are never shown
// together.
func (p *Plot) ActivePixmap() *Pixmap {
	if p.HSPMode == HSPGreyscale && p.HSPPixmap != nil {
		return p.HSPPixmap
	}
	return p.Pixmap
}

// DisplayImage maps ActivePixmap through the current greyramp.
func (p *Plot) DisplayImage() []byte {
	return p.Greyramp.Map(p.ActivePixmap())
}

// compositionFor returns the residue frequencies the window estimator
// should use: the fixed background amino-acid vector whenever scores come
// from a protein matrix, the observed base composition of both sequences
// for DNA against DNA.
func compositionFor(sess *Session) map[byte]float64 {
	if sess.Config.Mode == NxN {
		return observedComposition(sess.Ref, sess.Match)
	}
	return aminoAcidFrequency
}

func codeOfFor(mode CompareMode) func(byte) int {
	if mode == NxN {
		return codeOfDNA
	}
	return codeOfProtein
}

// observedComposition counts base frequencies over both sequences together.
func observedComposition(seqs ...*Sequence) map[byte]float64 {
	counts := make(map[byte]int)
	total := 0
	for _, s := range seqs {
		for _, b := range s.Residues {
			if !isACGTU(b) {
				continue
			}
			counts[b]++
			total++
		}
	}
	freq := make(map[byte]float64, len(counts))
	if total == 0 {
		return freq
	}
	for b, c := range counts {
		freq[b] = float64(c) / float64(total)
	}
	return freq
}
