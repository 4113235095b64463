// Package dataset reads and writes the one-column text files consumed and
// produced by the clustering engine, and generates synthetic inputs.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmpty is returned when an input holds no values.
var ErrEmpty = errors.New("dataset: no values")

// ParseError reports a line whose first field is not a number.
type ParseError struct {
	Line  int    // 1-based physical line number
	Token string // Offending field
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: line %d: invalid value %q", e.Line, e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

const maxLine = 1 << 20

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// ReadColumn parses one value per line. Blank lines are skipped and only the
// first field of each line is used; fields may be separated by commas,
// semicolons, spaces or tabs.
func ReadColumn(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var values []float64
	line := 0
	for sc.Scan() {
		line++
		fields := strings.FieldsFunc(sc.Text(), isSeparator)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &ParseError{Line: line, Token: fields[0], Err: err}
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	return values, nil
}

// WriteAssignments writes one cluster index per line.
func WriteAssignments(w io.Writer, a []int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for _, v := range a {
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCentroids writes one value per line with six decimals.
func WriteCentroids(w io.Writer, c []float64) error {
	return writeFloats(w, c)
}

// WritePoints writes one value per line with six decimals.
func WritePoints(w io.Writer, x []float64) error {
	return writeFloats(w, x)
}

func writeFloats(w io.Writer, vs []float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, v := range vs {
		buf = strconv.AppendFloat(buf[:0], v, 'f', 6, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
