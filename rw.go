package dotter

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// SaveFile writes a plot save file at path, gzipping the stream when the
// path ends in ".gz".
func SaveFile(path string, pm *Pixmap, p SaveParams) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gzipWriter, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
		if err != nil {
			return err
		}
		if err := Save(gzipWriter, pm, p); err != nil {
			gzipWriter.Close()
			return err
		}
		return gzipWriter.Close()
	}
	return Save(f, pm, p)
}

// LoadFile reads a plot save file from path, gunzipping when the path ends
// in ".gz".
func LoadFile(path string) (*Pixmap, SaveParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SaveParams{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, SaveParams{}, err
		}
		defer gzipReader.Close()
		r = gzipReader
	}
	return Load(r)
}
