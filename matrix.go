package dotter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MatrixSize is the fixed dimension of every substitution matrix: protein
// codes 0..22 plus the "unknown" row/column.
const MatrixSize = 24

// Matrix is a square, signed-integer substitution matrix indexed by
// alphabet code, plus a human-readable name.
type Matrix struct {
	Name string
	Vals [MatrixSize][MatrixSize]int
}

// CopyMatrix returns a value copy of m.
func CopyMatrix(m Matrix) Matrix {
	var cp Matrix
	cp.Name = m.Name
	cp.Vals = m.Vals
	return cp
}

// SynthDNAMatrix builds the nucleotide scoring table: a 6x6 sub-block with
// +5 on the diagonal and -4 elsewhere, remaining cells zero.
func SynthDNAMatrix() Matrix {
	var m Matrix
	m.Name = "DNA identity (+5/-4)"
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if i == j {
				m.Vals[i][j] = 5
			} else {
				m.Vals[i][j] = -4
			}
		}
	}
	return m
}

// LoadMatrix parses a whitespace/tab-separated substitution matrix file.
// Lines beginning with '#' are comments. The file may carry an alphabet
// header row, and rows may have alphabet letters interspersed among the
// numeric cells; both are tolerated by skipping any non-numeric token. Each
// of the 24 rows must carry exactly 24 numeric cells.
//
// If path does not exist, LoadMatrix retries under $BLASTMAT before
// failing.
func LoadMatrix(path string) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		if blastmat := os.Getenv("BLASTMAT"); blastmat != "" {
			f, err = os.Open(filepath.Join(blastmat, filepath.Base(path)))
		}
		if err != nil {
			return Matrix{}, fmt.Errorf("matrix not found: %s", path)
		}
	}
	defer f.Close()

	var m Matrix
	m.Name = filepath.Base(path)
	if len(m.Name) > 80 {
		m.Name = m.Name[:80]
	}

	row := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && row < MatrixSize {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		cells := make([]int, 0, MatrixSize)
		for _, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil {
				// An interspersed alphabet letter; skip it.
				continue
			}
			cells = append(cells, v)
		}
		if len(cells) == 0 {
			// Pure-alphabet header row; doesn't consume a matrix row.
			continue
		}
		if len(cells) != MatrixSize {
			return Matrix{}, fmt.Errorf("invalid matrix: row %d has %d cells, want %d",
				row, len(cells), MatrixSize)
		}
		for j, v := range cells {
			m.Vals[row][j] = v
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return Matrix{}, err
	}
	if row != MatrixSize {
		return Matrix{}, fmt.Errorf("invalid matrix: got %d rows, want %d", row, MatrixSize)
	}
	return m, nil
}
