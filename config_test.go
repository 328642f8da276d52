package dotter

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfigIO(t *testing.T) {
	conf := Config{
		Mode:          "nxn",
		RefStrand:     "crick",
		MatchStrand:   "watson",
		MatrixPath:    "BLOSUM62",
		MemoryLimitMb: 1.5,
		Zoom:          2,
		W:             17,
		PixelFac:      33,
		StartQ:        5,
		StartS:        9,
		SelfCompare:   true,
		DisplayMirror: true,
		CrickOnly:     true,
		ReversedV:     true,
		HSPMode:       HSPGreyscale,
	}
	buf := new(bytes.Buffer)

	if err := conf.Write(buf); err != nil {
		t.Fatal(err)
	}
	confTest, err := LoadConfig(buf)
	if err != nil {
		t.Fatal(err)
	}
	if conf != *confTest {
		t.Fatalf("%v != %v", conf, *confTest)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig(strings.NewReader("# comment\nZoom: 4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Zoom != 4 {
		t.Fatalf("zoom = %v, want 4", conf.Zoom)
	}
	if conf.MemoryLimitMb != DefaultConfig.MemoryLimitMb {
		t.Fatalf("unset key lost its default: %v", conf.MemoryLimitMb)
	}
	if conf.Mode != "pxp" || conf.RefStrand != "watson" || conf.MatchStrand != "watson" {
		t.Fatalf("unset mode/strand keys lost their defaults: %q %q %q",
			conf.Mode, conf.RefStrand, conf.MatchStrand)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	if _, err := LoadConfig(strings.NewReader("Bogus: 1\n")); err == nil {
		t.Fatalf("unknown key did not fail")
	}
}
