package dotter

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// SaveParams bundles everything beyond the pixmap that the save file
// records. Format 1 never stored most of these; loading one fills in the
// conventional fallback defaults.
type SaveParams struct {
	Format     int
	Zoom       float64
	Width      int
	Height     int
	PixelFac   int
	W          int
	MatrixName string
	Matrix     Matrix
}

// Fallback values used when loading a format-1 file, which recorded
// neither. The most common historical settings are assumed rather than
// re-derived from the pixmap.
const (
	format1DefaultPixelFac = 50
	format1DefaultW        = 25
)

// Save writes a plot in format 3. The wire format is little-endian
// regardless of host, with width-precise integers and a 64-bit zoom.
func Save(w io.Writer, pm *Pixmap, p SaveParams) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint8(3)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, p.Zoom); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(pm.Width)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(pm.Height)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(p.PixelFac)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(p.W)); err != nil {
		return err
	}
	if len(p.MatrixName) > 80 {
		return fmt.Errorf("matrix name longer than 80 bytes")
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(len(p.MatrixName))); err != nil {
		return err
	}
	if _, err := bw.WriteString(p.MatrixName); err != nil {
		return err
	}
	for i := 0; i < MatrixSize; i++ {
		for j := 0; j < MatrixSize; j++ {
			if err := binary.Write(bw, binary.LittleEndian, int32(p.Matrix.Vals[i][j])); err != nil {
				return err
			}
		}
	}
	if _, err := bw.Write(pm.Data); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a save file, inferring its format from the first byte, and
// returns the pixmap and the recorded parameters. Width and height are
// authoritative from the file and are never re-derived from the sequences,
// so a saved plot re-opens pixel-identical.
func Load(r io.Reader) (*Pixmap, SaveParams, error) {
	br := bufio.NewReader(r)

	var format uint8
	if err := binary.Read(br, binary.LittleEndian, &format); err != nil {
		return nil, SaveParams{}, err
	}

	switch format {
	case 1:
		return loadFormat1(br)
	case 2:
		return loadFormat2(br)
	case 3:
		return loadFormat3(br)
	default:
		return nil, SaveParams{}, fmt.Errorf("invalid input: unrecognised save format %d", format)
	}
}

func loadFormat1(br *bufio.Reader) (*Pixmap, SaveParams, error) {
	var zoom, width, height int32
	if err := binary.Read(br, binary.LittleEndian, &zoom); err != nil {
		return nil, SaveParams{}, err
	}
	if err := binary.Read(br, binary.LittleEndian, &width); err != nil {
		return nil, SaveParams{}, err
	}
	if err := binary.Read(br, binary.LittleEndian, &height); err != nil {
		return nil, SaveParams{}, err
	}

	pixels, err := readPixels(br, int(width), int(height))
	if err != nil {
		return nil, SaveParams{}, err
	}

	Vprintf("format 1 file: assuming pixel_fac=%d, window=%d\n",
		format1DefaultPixelFac, format1DefaultW)

	return &Pixmap{Width: int(width), Height: int(height), Data: pixels}, SaveParams{
		Format:   1,
		Zoom:     float64(zoom),
		Width:    int(width),
		Height:   int(height),
		PixelFac: format1DefaultPixelFac,
		W:        format1DefaultW,
	}, nil
}

func loadFormat2(br *bufio.Reader) (*Pixmap, SaveParams, error) {
	var zoom, width, height, pixelFac, wParam, nameLen int32
	for _, dst := range []*int32{&zoom, &width, &height, &pixelFac, &wParam, &nameLen} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, SaveParams{}, err
		}
	}
	if nameLen < 0 || nameLen > 80 {
		return nil, SaveParams{}, fmt.Errorf("matrix name length %d exceeds 80", nameLen)
	}
	nameBytes, err := readExactly(br, int(nameLen))
	if err != nil {
		return nil, SaveParams{}, err
	}

	var m Matrix
	m.Name = string(nameBytes)
	for i := 0; i < MatrixSize; i++ {
		for j := 0; j < MatrixSize; j++ {
			var v int32
			if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
				return nil, SaveParams{}, err
			}
			m.Vals[i][j] = int(v)
		}
	}

	pixels, err := readPixels(br, int(width), int(height))
	if err != nil {
		return nil, SaveParams{}, err
	}

	return &Pixmap{Width: int(width), Height: int(height), Data: pixels}, SaveParams{
		Format:     2,
		Zoom:       float64(zoom),
		Width:      int(width),
		Height:     int(height),
		PixelFac:   int(pixelFac),
		W:          int(wParam),
		MatrixName: m.Name,
		Matrix:     m,
	}, nil
}

func loadFormat3(br *bufio.Reader) (*Pixmap, SaveParams, error) {
	var zoom float64
	var width, height, pixelFac, wParam, nameLen int32
	if err := binary.Read(br, binary.LittleEndian, &zoom); err != nil {
		return nil, SaveParams{}, err
	}
	for _, dst := range []*int32{&width, &height, &pixelFac, &wParam, &nameLen} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, SaveParams{}, err
		}
	}
	if nameLen < 0 || nameLen > 80 {
		return nil, SaveParams{}, fmt.Errorf("matrix name length %d exceeds 80", nameLen)
	}
	nameBytes, err := readExactly(br, int(nameLen))
	if err != nil {
		return nil, SaveParams{}, err
	}

	var m Matrix
	m.Name = string(nameBytes)
	for i := 0; i < MatrixSize; i++ {
		for j := 0; j < MatrixSize; j++ {
			var v int32
			if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
				return nil, SaveParams{}, err
			}
			m.Vals[i][j] = int(v)
		}
	}

	pixels, err := readPixels(br, int(width), int(height))
	if err != nil {
		return nil, SaveParams{}, err
	}

	return &Pixmap{Width: int(width), Height: int(height), Data: pixels}, SaveParams{
		Format:     3,
		Zoom:       zoom,
		Width:      int(width),
		Height:     int(height),
		PixelFac:   int(pixelFac),
		W:          int(wParam),
		MatrixName: m.Name,
		Matrix:     m,
	}, nil
}

// readExactly reads exactly n bytes, failing if the stream is short.
func readExactly(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative pixel count %d", n)
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if read != n {
		return nil, fmt.Errorf("wrong number of pixels: got %d, want %d", read, n)
	}
	return buf, nil
}

// readPixels reads the declared width*height pixel bytes and then verifies
// the stream holds nothing more, so that a truncated or padded file is
// rejected instead of silently reshaped.
func readPixels(br *bufio.Reader, width, height int) ([]byte, error) {
	pixels, err := readExactly(br, width*height)
	if err != nil {
		return nil, err
	}
	if _, err := br.Peek(1); err != io.EOF {
		return nil, fmt.Errorf("wrong number of pixels: trailing bytes after declared %d", width*height)
	}
	return pixels, nil
}
