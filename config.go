package dotter

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Config bundles every knob of a run (comparison mode, strand selectors,
// matrix path, memory limit, zoom, window, pixel_fac, starting selection,
// and the comparison/display flags) so a batch run can be replayed exactly
// by saving and re-loading one value.
type Config struct {
	Mode           string // pxp, nxn, or nxp
	RefStrand      string // watson or crick
	MatchStrand    string // watson or crick
	MatrixPath     string
	MemoryLimitMb  float64
	Zoom           float64
	W              int // 0 means "let Karlin-Altschul choose"
	PixelFac       int
	StartQ, StartS int

	SelfCompare   bool
	DisplayMirror bool
	WatsonOnly    bool
	CrickOnly     bool
	ReversedH     bool
	ReversedV     bool
	HSPMode       HSPMode
}

// DefaultConfig holds the values a fresh run uses absent any flags or
// loaded file.
var DefaultConfig = &Config{
	Mode:          "pxp",
	RefStrand:     "watson",
	MatchStrand:   "watson",
	MemoryLimitMb: 0.5,
	W:             0,
	PixelFac:      0,
	HSPMode:       HSPOff,
}

// LoadConfig parses a colon-separated key:value config file as written by
// Config.Write. Unset keys keep their defaults.
func LoadConfig(r io.Reader) (conf *Config, err error) {
	defer func() {
		if perr := recover(); perr != nil {
			err = perr.(error)
		}
	}()

	c := *DefaultConfig
	conf = &c

	csvReader := csv.NewReader(r)
	csvReader.Comma = ':'
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = 2
	csvReader.TrimLeadingSpace = true

	lines, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	atoi := func(s string) int {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			panic(err)
		}
		return i
	}
	atof := func(s string) float64 {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			panic(err)
		}
		return f
	}
	atob := func(s string) bool { return strings.TrimSpace(s) == "1" }

	for _, line := range lines {
		switch line[0] {
		case "Mode":
			conf.Mode = strings.TrimSpace(line[1])
		case "RefStrand":
			conf.RefStrand = strings.TrimSpace(line[1])
		case "MatchStrand":
			conf.MatchStrand = strings.TrimSpace(line[1])
		case "MatrixPath":
			conf.MatrixPath = strings.TrimSpace(line[1])
		case "MemoryLimitMb":
			conf.MemoryLimitMb = atof(line[1])
		case "Zoom":
			conf.Zoom = atof(line[1])
		case "W":
			conf.W = atoi(line[1])
		case "PixelFac":
			conf.PixelFac = atoi(line[1])
		case "StartQ":
			conf.StartQ = atoi(line[1])
		case "StartS":
			conf.StartS = atoi(line[1])
		case "SelfCompare":
			conf.SelfCompare = atob(line[1])
		case "DisplayMirror":
			conf.DisplayMirror = atob(line[1])
		case "WatsonOnly":
			conf.WatsonOnly = atob(line[1])
		case "CrickOnly":
			conf.CrickOnly = atob(line[1])
		case "ReversedH":
			conf.ReversedH = atob(line[1])
		case "ReversedV":
			conf.ReversedV = atob(line[1])
		case "HSPMode":
			conf.HSPMode = HSPMode(atoi(line[1]))
		default:
			return nil, fmt.Errorf("invalid config key: %s", line[0])
		}
	}
	return conf, nil
}

// Write serialises conf in the same colon-CSV shape LoadConfig reads.
func (conf Config) Write(w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = ':'
	csvWriter.UseCRLF = false

	s := func(i int) string { return fmt.Sprintf("%d", i) }
	f := func(v float64) string { return fmt.Sprintf("%g", v) }
	b := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	records := [][]string{
		{"Mode", conf.Mode},
		{"RefStrand", conf.RefStrand},
		{"MatchStrand", conf.MatchStrand},
		{"MatrixPath", conf.MatrixPath},
		{"MemoryLimitMb", f(conf.MemoryLimitMb)},
		{"Zoom", f(conf.Zoom)},
		{"W", s(conf.W)},
		{"PixelFac", s(conf.PixelFac)},
		{"StartQ", s(conf.StartQ)},
		{"StartS", s(conf.StartS)},
		{"SelfCompare", b(conf.SelfCompare)},
		{"DisplayMirror", b(conf.DisplayMirror)},
		{"WatsonOnly", b(conf.WatsonOnly)},
		{"CrickOnly", b(conf.CrickOnly)},
		{"ReversedH", b(conf.ReversedH)},
		{"ReversedV", b(conf.ReversedV)},
		{"HSPMode", s(int(conf.HSPMode))},
	}
	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}
	return nil
}

// FlagMerge reconciles a flag-populated Config against one loaded from a
// config file: only flags the user actually passed on the command line win;
// everything else falls back to the loaded file's value.
func (flagConf *Config) FlagMerge(fileConf *Config) *Config {
	only := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { only[f.Name] = true })

	if !only["mode"] {
		flagConf.Mode = fileConf.Mode
	}
	if !only["ref-strand"] {
		flagConf.RefStrand = fileConf.RefStrand
	}
	if !only["match-strand"] {
		flagConf.MatchStrand = fileConf.MatchStrand
	}
	if !only["matrix"] {
		flagConf.MatrixPath = fileConf.MatrixPath
	}
	if !only["mem"] {
		flagConf.MemoryLimitMb = fileConf.MemoryLimitMb
	}
	if !only["zoom"] {
		flagConf.Zoom = fileConf.Zoom
	}
	if !only["window"] {
		flagConf.W = fileConf.W
	}
	if !only["pixelfac"] {
		flagConf.PixelFac = fileConf.PixelFac
	}
	if !only["startq"] {
		flagConf.StartQ = fileConf.StartQ
	}
	if !only["starts"] {
		flagConf.StartS = fileConf.StartS
	}
	if !only["selfcomp"] {
		flagConf.SelfCompare = fileConf.SelfCompare
	}
	if !only["mirror"] {
		flagConf.DisplayMirror = fileConf.DisplayMirror
	}
	if !only["watson-only"] {
		flagConf.WatsonOnly = fileConf.WatsonOnly
	}
	if !only["crick-only"] {
		flagConf.CrickOnly = fileConf.CrickOnly
	}
	if !only["reversed-h"] {
		flagConf.ReversedH = fileConf.ReversedH
	}
	if !only["reversed-v"] {
		flagConf.ReversedV = fileConf.ReversedV
	}
	if !only["hsp-mode"] {
		flagConf.HSPMode = fileConf.HSPMode
	}
	return flagConf
}
