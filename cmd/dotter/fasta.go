package main

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"

	"github.com/ndaniels/dotter"
)

// readFastaSeq reads the first record of a FASTA file at path (gzipped if
// the name ends in ".gz") and ingests it at the given strand/offset. Only
// the first record is used.
func readFastaSeq(path string, kind dotter.ResidueKind, strand dotter.Strand, offset int) (*dotter.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	reader := fasta.NewReader(r)
	record, err := reader.Read()
	if err == io.EOF {
		return nil, errNoSeqInFasta(path)
	}
	if err != nil {
		return nil, err
	}

	return ingestRecord(record, kind, strand, offset)
}

// ingestRecord converts a fasta record into the engine's sequence type.
func ingestRecord(record seq.Sequence, kind dotter.ResidueKind, strand dotter.Strand, offset int) (*dotter.Sequence, error) {
	return dotter.Ingest(record.Name, record.Bytes(), kind, strand, offset)
}

type errNoSeqInFastaT struct{ path string }

func errNoSeqInFasta(path string) error { return &errNoSeqInFastaT{path} }

func (e *errNoSeqInFastaT) Error() string {
	return "no sequence record in fasta file " + e.path
}
