package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec applied to a file on disk.
type Compression uint8

const (
	// CompressionNone is plain text.
	CompressionNone Compression = iota
	// CompressionGzip is selected by a .gz suffix.
	CompressionGzip
	// CompressionZstd is selected by a .zst suffix.
	CompressionZstd
	// CompressionLZ4 is selected by a .lz4 suffix.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor picks the codec from the file extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// ReadFile reads a one-column file, decompressing it according to its
// extension.
func ReadFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompressor(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	defer closeFn()

	values, err := ReadColumn(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// ReadAssignments reads a file of cluster indices, one per line.
func ReadAssignments(path string) ([]int, error) {
	values, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	a := make([]int, len(values))
	for i, v := range values {
		a[i] = int(v)
		if float64(a[i]) != v {
			return nil, fmt.Errorf("%s: value %g is not a cluster index", path, v)
		}
	}
	return a, nil
}

// WriteFile creates path and passes fn a writer that compresses according
// to the extension. The file is removed if fn fails.
func WriteFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w, closeFn, err := compressor(f, CompressionFor(path))
	if err != nil {
		return fmt.Errorf("dataset: %s: %w", path, err)
	}
	if err := fn(w); err != nil {
		_ = closeFn()
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("dataset: finish %s: %w", path, err)
	}
	return nil
}

func decompressor(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

func compressor(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, err
		}
		return enc, enc.Close, nil
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
