package dotter

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
)

func testPixmap(width, height int) *Pixmap {
	pm := NewPixmap(width, height)
	for i := range pm.Data {
		pm.Data[i] = byte((i*7 + 13) % 256)
	}
	return pm
}

func TestSaveLoadRoundTrip(t *testing.T) {
	pm := testPixmap(40, 40)
	params := SaveParams{
		Zoom:       1.5,
		PixelFac:   40,
		W:          25,
		MatrixName: "BLOSUM62",
		Matrix:     BLOSUM62,
	}

	buf := new(bytes.Buffer)
	if err := Save(buf, pm, params); err != nil {
		t.Fatalf("Save caused: %s", err)
	}

	loaded, got, err := Load(buf)
	if err != nil {
		t.Fatalf("Load caused: %s", err)
	}
	if got.Format != 3 {
		t.Fatalf("loaded format = %d, want 3", got.Format)
	}
	if got.Zoom != 1.5 || got.W != 25 || got.PixelFac != 40 {
		t.Fatalf("params = (zoom=%v, W=%d, pixel_fac=%d), want (1.5, 25, 40)",
			got.Zoom, got.W, got.PixelFac)
	}
	if got.MatrixName != "BLOSUM62" {
		t.Fatalf("matrix name = %q, want BLOSUM62", got.MatrixName)
	}
	if got.Matrix.Vals != BLOSUM62.Vals {
		t.Fatalf("matrix values did not round-trip")
	}
	if loaded.Width != 40 || loaded.Height != 40 {
		t.Fatalf("dimensions = %dx%d, want 40x40", loaded.Width, loaded.Height)
	}
	if !bytes.Equal(loaded.Data, pm.Data) {
		t.Fatalf("pixels did not round-trip byte-for-byte")
	}
}

func TestLoadFormat1(t *testing.T) {
	pm := testPixmap(8, 4)
	buf := new(bytes.Buffer)
	buf.WriteByte(1)
	binary.Write(buf, binary.LittleEndian, int32(2))
	binary.Write(buf, binary.LittleEndian, int32(pm.Width))
	binary.Write(buf, binary.LittleEndian, int32(pm.Height))
	buf.Write(pm.Data)

	loaded, params, err := Load(buf)
	if err != nil {
		t.Fatalf("Load caused: %s", err)
	}
	if params.Zoom != 2 {
		t.Fatalf("zoom = %v, want 2", params.Zoom)
	}
	// Format 1 never recorded these; the conventional defaults apply.
	if params.PixelFac != 50 || params.W != 25 {
		t.Fatalf("defaults = (pixel_fac=%d, W=%d), want (50, 25)",
			params.PixelFac, params.W)
	}
	if !bytes.Equal(loaded.Data, pm.Data) {
		t.Fatalf("pixels did not round-trip")
	}
}

func TestLoadFormat2(t *testing.T) {
	pm := testPixmap(4, 4)
	m := SynthDNAMatrix()

	buf := new(bytes.Buffer)
	buf.WriteByte(2)
	for _, v := range []int32{3, int32(pm.Width), int32(pm.Height), 30, 12, int32(len(m.Name))} {
		binary.Write(buf, binary.LittleEndian, v)
	}
	buf.WriteString(m.Name)
	for i := 0; i < MatrixSize; i++ {
		for j := 0; j < MatrixSize; j++ {
			binary.Write(buf, binary.LittleEndian, int32(m.Vals[i][j]))
		}
	}
	buf.Write(pm.Data)

	loaded, params, err := Load(buf)
	if err != nil {
		t.Fatalf("Load caused: %s", err)
	}
	if params.Format != 2 || params.Zoom != 3 || params.PixelFac != 30 || params.W != 12 {
		t.Fatalf("params = %+v", params)
	}
	if params.MatrixName != m.Name || params.Matrix.Vals != m.Vals {
		t.Fatalf("matrix did not round-trip")
	}
	if !bytes.Equal(loaded.Data, pm.Data) {
		t.Fatalf("pixels did not round-trip")
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	pm := testPixmap(8, 8)
	params := SaveParams{Zoom: 1, PixelFac: 10, W: 5, MatrixName: "m", Matrix: SynthDNAMatrix()}

	// Trailing garbage after the declared pixels.
	buf := new(bytes.Buffer)
	if err := Save(buf, pm, params); err != nil {
		t.Fatal(err)
	}
	buf.WriteByte(0)
	if _, _, err := Load(buf); err == nil {
		t.Fatalf("trailing bytes did not fail")
	}

	// Truncated pixel data.
	buf.Reset()
	if err := Save(buf, pm, params); err != nil {
		t.Fatal(err)
	}
	short := buf.Bytes()[:buf.Len()-5]
	if _, _, err := Load(bytes.NewReader(short)); err == nil {
		t.Fatalf("truncated pixels did not fail")
	}

	// Unknown format byte.
	if _, _, err := Load(bytes.NewReader([]byte{9, 0, 0})); err == nil {
		t.Fatalf("unknown format did not fail")
	}

	// Oversized matrix name length.
	buf.Reset()
	buf.WriteByte(3)
	binary.Write(buf, binary.LittleEndian, float64(1))
	for _, v := range []int32{4, 4, 10, 5, 81} {
		binary.Write(buf, binary.LittleEndian, v)
	}
	if _, _, err := Load(buf); err == nil {
		t.Fatalf("matrix name length 81 did not fail")
	}

	if err := Save(new(bytes.Buffer), pm, SaveParams{
		MatrixName: string(make([]byte, 81)),
	}); err == nil {
		t.Fatalf("saving an 81-byte matrix name did not fail")
	}
}

func TestSaveLoadFileGzip(t *testing.T) {
	pm := testPixmap(16, 8)
	params := SaveParams{Zoom: 2, PixelFac: 20, W: 9, MatrixName: "m", Matrix: SynthDNAMatrix()}

	for _, name := range []string{"plot.dot", "plot.dot.gz"} {
		path := filepath.Join(t.TempDir(), name)
		if err := SaveFile(path, pm, params); err != nil {
			t.Fatalf("SaveFile(%s) caused: %s", name, err)
		}
		loaded, got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s) caused: %s", name, err)
		}
		if !bytes.Equal(loaded.Data, pm.Data) || got.W != 9 {
			t.Fatalf("%s did not round-trip", name)
		}
	}
}
