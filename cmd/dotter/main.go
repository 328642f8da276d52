package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"strconv"

	"github.com/ndaniels/dotter"
)

// dotter compares two sequences and computes a dot-matrix plot. This
// command is the batch surface: it runs the whole pipeline once on two
// FASTA files and writes the plot to a save file that an interactive
// viewer (or a later -load run) can re-open pixel-identical.

var (
	flagMode          = "pxp"
	flagRefStrand     = "watson"
	flagMatchStrand   = "watson"
	flagRefOffset     = 0
	flagMatchOffset   = 0
	flagMatrix        = ""
	flagMem           = 0.5
	flagZoom          = 0.0
	flagWindow        = "K"
	flagPixelFac      = 0
	flagBatch         = ""
	flagLoad          = ""
	flagStartQ        = 0
	flagStartS        = 0
	flagSelfComp      = false
	flagMirror        = false
	flagWatsonOnly    = false
	flagCrickOnly     = false
	flagReversedH     = false
	flagReversedV     = false
	flagHSPMode       = "off"
	flagQuiet         = false
	flagCpuProfile    = ""
	flagMemProfile    = ""
	flagConfigPath    = ""
	flagConfigWrite   = ""
	flagGoMaxProcs    = runtime.NumCPU()
)

func init() {
	log.SetFlags(0)

	flag.StringVar(&flagMode, "mode", flagMode,
		"Comparison mode: pxp, nxn, or nxp.")
	flag.StringVar(&flagRefStrand, "ref-strand", flagRefStrand,
		"Strand of the reference sequence: watson or crick.")
	flag.StringVar(&flagMatchStrand, "match-strand", flagMatchStrand,
		"Strand of the match sequence: watson or crick.")
	flag.IntVar(&flagRefOffset, "ref-offset", flagRefOffset,
		"Display offset added to reference coordinates.")
	flag.IntVar(&flagMatchOffset, "match-offset", flagMatchOffset,
		"Display offset added to match coordinates.")
	flag.StringVar(&flagMatrix, "matrix", flagMatrix,
		"Path to a substitution matrix file. Empty means BLOSUM62\n"+
			"\t(protein modes) or a synthesized +5/-4 DNA matrix (nxn).")
	flag.Float64Var(&flagMem, "mem", flagMem,
		"Memory budget in megabytes used to derive a default zoom.")
	flag.Float64Var(&flagZoom, "zoom", flagZoom,
		"Zoom factor. 0 derives one from -mem.")
	flag.StringVar(&flagWindow, "window", flagWindow,
		"Sliding window length W, or 'K' to let Karlin-Altschul choose.")
	flag.IntVar(&flagPixelFac, "pixelfac", flagPixelFac,
		"Score-to-pixel scaling factor. 0 derives one from the window\n"+
			"\testimate.")
	flag.StringVar(&flagBatch, "batch", flagBatch,
		"Path to write the save file to. Required in batch mode.")
	flag.StringVar(&flagLoad, "load", flagLoad,
		"Path to a previously saved plot to load instead of running the\n"+
			"\tengine.")
	flag.IntVar(&flagStartQ, "startq", flagStartQ,
		"Starting reference coordinate of the selection.")
	flag.IntVar(&flagStartS, "starts", flagStartS,
		"Starting match coordinate of the selection.")
	flag.BoolVar(&flagSelfComp, "selfcomp", flagSelfComp,
		"Treat the two sequences as identical for diagonal clipping.")
	flag.BoolVar(&flagMirror, "mirror", flagMirror,
		"Mirror the triangle produced by -selfcomp across the diagonal.")
	flag.BoolVar(&flagWatsonOnly, "watson-only", flagWatsonOnly,
		"In nxn mode, compare only the Watson strand.")
	flag.BoolVar(&flagCrickOnly, "crick-only", flagCrickOnly,
		"In nxn mode, compare only the Crick strand.")
	flag.BoolVar(&flagReversedH, "reversed-h", flagReversedH,
		"Reverse the horizontal axis scale.")
	flag.BoolVar(&flagReversedV, "reversed-v", flagReversedV,
		"Reverse the vertical axis scale.")
	flag.StringVar(&flagHSPMode, "hsp-mode", flagHSPMode,
		"HSP rendering mode: off, greyscale, redline, or scorecolour.")
	flag.StringVar(&flagConfigPath, "config", flagConfigPath,
		"Path to a saved Config file; values there are overridden by any\n"+
			"\tflag explicitly given on the command line.")
	flag.StringVar(&flagConfigWrite, "config-write", flagConfigWrite,
		"Path to write the merged Config to, for reuse with -config.")
	flag.IntVar(&flagGoMaxProcs, "p", flagGoMaxProcs,
		"The maximum number of CPUs that can be executing simultaneously.")
	flag.BoolVar(&flagQuiet, "quiet", flagQuiet,
		"When set, the only outputs will be errors echoed to stderr.")
	flag.StringVar(&flagCpuProfile, "cpuprofile", flagCpuProfile,
		"When set, a CPU profile will be written to the file specified.")
	flag.StringVar(&flagMemProfile, "memprofile", flagMemProfile,
		"When set, a memory profile will be written to the file specified.")

	flag.Usage = usage
	flag.Parse()

	runtime.GOMAXPROCS(flagGoMaxProcs)
}

func main() {
	if !flagQuiet {
		dotter.Verbose = true
	}

	if len(flagCpuProfile) > 0 {
		f, err := os.Create(flagCpuProfile)
		if err != nil {
			fatalf("%s\n", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	conf := mergedConfig()

	if len(flagLoad) > 0 {
		loadAndReport(flagLoad)
		cleanup()
		return
	}

	if flag.NArg() < 2 {
		usage()
	}
	if len(flagBatch) == 0 {
		fatalf("-batch is required: this build has no interactive collaborator.\n")
	}

	refPath, matchPath := flag.Arg(0), flag.Arg(1)
	mode, err := modeOf(conf.Mode)
	if err != nil {
		fatalf("%s\n", err)
	}
	refStrand, err := strandOf(conf.RefStrand)
	if err != nil {
		fatalf("%s\n", err)
	}
	matchStrand, err := strandOf(conf.MatchStrand)
	if err != nil {
		fatalf("%s\n", err)
	}

	refKind := dotter.DNA
	if mode == dotter.PxP {
		refKind = dotter.PEPTIDE
	}

	refSeq, err := readFastaSeq(refPath, refKind, refStrand, flagRefOffset)
	if err != nil {
		fatalf("Could not read reference fasta %q: %s\n", refPath, err)
	}
	matchSeq, err := readFastaSeq(matchPath, matchResidueKind(mode), matchStrand, flagMatchOffset)
	if err != nil {
		fatalf("Could not read match fasta %q: %s\n", matchPath, err)
	}

	matrix, err := loadMatrix(mode, conf)
	if err != nil {
		fatalf("Could not load matrix: %s\n", err)
	}

	cfg := dotter.CompareConfig{
		Mode:          mode,
		SelfCompare:   conf.SelfCompare,
		DisplayMirror: conf.DisplayMirror,
		WatsonOnly:    conf.WatsonOnly,
		CrickOnly:     conf.CrickOnly,
	}

	sess, err := dotter.NewSession(refSeq, matchSeq, matrix, cfg)
	if err != nil {
		fatalf("%s\n", err)
	}

	refRange := dotter.Range{Min: refSeq.Min, Max: refSeq.Max}
	matchRange := dotter.Range{Min: matchSeq.Min, Max: matchSeq.Max}

	plot, err := dotter.OpenPlot(sess, refRange, matchRange, dotter.PlotParams{
		Zoom:          conf.Zoom,
		W:             conf.W,
		PixelFac:      conf.PixelFac,
		MemoryLimitMb: conf.MemoryLimitMb,
		ReversedH:     conf.ReversedH,
		ReversedV:     conf.ReversedV,
		HSPMode:       conf.HSPMode,
	})
	if err != nil {
		fatalf("%s\n", err)
	}

	dotter.Vprintf("window=%d pixel_fac=%d zoom=%g image=%dx%d\n",
		plot.W, plot.PixelFac, plot.Proj.Zoom, plot.Proj.ImageWidth, plot.Proj.ImageHeight)

	plot.Selection.SetSelection(conf.StartQ, conf.StartS)

	if err := writeSave(flagBatch, plot, matrix); err != nil {
		fatalf("Could not write save file %q: %s\n", flagBatch, err)
	}

	if len(flagConfigWrite) > 0 {
		if err := writeConfig(flagConfigWrite, conf); err != nil {
			fatalf("Could not write config file %q: %s\n", flagConfigWrite, err)
		}
	}

	cleanup()
}

func writeSave(path string, plot *dotter.Plot, m dotter.Matrix) error {
	return dotter.SaveFile(path, plot.ActivePixmap(), dotter.SaveParams{
		Zoom:       plot.Proj.Zoom,
		Width:      plot.Proj.ImageWidth,
		Height:     plot.Proj.ImageHeight,
		PixelFac:   plot.PixelFac,
		W:          plot.W,
		MatrixName: m.Name,
		Matrix:     m,
	})
}

func writeConfig(path string, conf *dotter.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return conf.Write(f)
}

func loadAndReport(path string) {
	pm, params, err := dotter.LoadFile(path)
	if err != nil {
		fatalf("Could not load save file %q: %s\n", path, err)
	}
	dotter.Vprintf("loaded format %d: %dx%d, W=%d pixel_fac=%d matrix=%q\n",
		params.Format, pm.Width, pm.Height, params.W, params.PixelFac, params.MatrixName)
}

func loadMatrix(mode dotter.CompareMode, conf *dotter.Config) (dotter.Matrix, error) {
	if len(conf.MatrixPath) > 0 {
		return dotter.LoadMatrix(conf.MatrixPath)
	}
	if mode == dotter.NxN {
		return dotter.SynthDNAMatrix(), nil
	}
	return dotter.BLOSUM62, nil
}

func parseWindow() (int, error) {
	if flagWindow == "K" || flagWindow == "k" {
		return 0, nil
	}
	n, err := strconv.Atoi(flagWindow)
	if err != nil {
		return 0, fmt.Errorf("invalid input: -window must be an integer or 'K': %s", err)
	}
	return n, nil
}

func parseHSPMode(s string) dotter.HSPMode {
	switch s {
	case "greyscale":
		return dotter.HSPGreyscale
	case "redline":
		return dotter.HSPRedLine
	case "scorecolour":
		return dotter.HSPScoreColour
	default:
		return dotter.HSPOff
	}
}

func modeOf(s string) (dotter.CompareMode, error) {
	switch s {
	case "pxp":
		return dotter.PxP, nil
	case "nxn":
		return dotter.NxN, nil
	case "nxp":
		return dotter.NxP, nil
	}
	return 0, fmt.Errorf("invalid input: unknown mode %q (want pxp, nxn or nxp)", s)
}

// matchResidueKind reports the alphabet of the match sequence for mode:
// the reference is always DNA outside pxp (nxn and nxp both take a DNA
// reference), while the match sequence is protein in pxp and nxp and DNA
// in nxn.
func matchResidueKind(mode dotter.CompareMode) dotter.ResidueKind {
	if mode == dotter.NxN {
		return dotter.DNA
	}
	return dotter.PEPTIDE
}

func strandOf(s string) (dotter.Strand, error) {
	switch s {
	case "watson":
		return dotter.Forward, nil
	case "crick":
		return dotter.Reverse, nil
	}
	return 0, fmt.Errorf("invalid input: unknown strand %q (want watson or crick)", s)
}

func mergedConfig() *dotter.Config {
	flagConf := &dotter.Config{
		Mode:          flagMode,
		RefStrand:     flagRefStrand,
		MatchStrand:   flagMatchStrand,
		MatrixPath:    flagMatrix,
		MemoryLimitMb: flagMem,
		Zoom:          flagZoom,
		PixelFac:      flagPixelFac,
		StartQ:        flagStartQ,
		StartS:        flagStartS,
		SelfCompare:   flagSelfComp,
		DisplayMirror: flagMirror,
		WatsonOnly:    flagWatsonOnly,
		CrickOnly:     flagCrickOnly,
		ReversedH:     flagReversedH,
		ReversedV:     flagReversedV,
		HSPMode:       parseHSPMode(flagHSPMode),
	}
	w, err := parseWindow()
	if err != nil {
		fatalf("%s\n", err)
	}
	flagConf.W = w

	if len(flagConfigPath) == 0 {
		return flagConf
	}
	f, err := os.Open(flagConfigPath)
	if err != nil {
		fatalf("Could not open config file %q: %s\n", flagConfigPath, err)
	}
	defer f.Close()

	fileConf, err := dotter.LoadConfig(f)
	if err != nil {
		fatalf("Could not parse config file %q: %s\n", flagConfigPath, err)
	}
	return flagConf.FlagMerge(fileConf)
}

func cleanup() {
	if len(flagMemProfile) > 0 {
		f, err := os.Create(flagMemProfile)
		if err != nil {
			fatalf("%s\n", err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"\nUsage: %s [flags] reference-fasta match-fasta\n",
		path.Base(os.Args[0]))
	dotter.PrintFlagDefaults()
	os.Exit(1)
}
