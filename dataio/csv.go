// Package dataio reads and writes dense matrices and vectors as CSV.
//
// Files store one record per line. Models in this module are feature-major,
// so LoadMatrix and SaveMatrix accept a transpose flag: with transpose set,
// each line of the file is one observation and becomes one column of the
// in-memory matrix.
package dataio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ridgepca/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

func parseField(field string, line, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "dataio: line %d, column %d", line, col+1)
	}
	return v, nil
}

// LoadMatrix parses CSV records into a matrix. Every record must have the
// same number of fields.
func LoadMatrix(r io.Reader, transpose bool) (*mat.Dense, error) {
	cr := newReader(r)

	var (
		data   []float64
		rows   int
		fields int
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "dataio: read matrix")
		}
		if rows == 0 {
			fields = len(record)
		}
		line, _ := cr.FieldPos(0)
		for j, field := range record {
			v, err := parseField(field, line, j)
			if err != nil {
				return nil, err
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 || fields == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataio: read matrix")
	}

	m := mat.NewDense(rows, fields, data)
	if !transpose {
		return m, nil
	}
	return mat.DenseCopyOf(m.T()), nil
}

// SaveMatrix writes m as CSV, one matrix row per line, or one matrix column
// per line when transpose is set.
func SaveMatrix(w io.Writer, m mat.Matrix, transpose bool) error {
	if transpose {
		m = m.T()
	}
	rows, cols := m.Dims()

	cw := csv.NewWriter(w)
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = formatFloat(m.At(i, j))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "dataio: write matrix")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "dataio: write matrix")
}

// LoadVector reads every value in r, in order, regardless of how the values
// are split across lines.
func LoadVector(r io.Reader) (*mat.VecDense, error) {
	cr := newReader(r)
	cr.FieldsPerRecord = -1

	var data []float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "dataio: read vector")
		}
		line, _ := cr.FieldPos(0)
		for j, field := range record {
			if strings.TrimSpace(field) == "" {
				continue
			}
			v, err := parseField(field, line, j)
			if err != nil {
				return nil, err
			}
			data = append(data, v)
		}
	}

	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataio: read vector")
	}
	return mat.NewVecDense(len(data), data), nil
}

// SaveVector writes one value per line.
func SaveVector(w io.Writer, v mat.Vector) error {
	cw := csv.NewWriter(w)
	record := make([]string, 1)
	for i := 0; i < v.Len(); i++ {
		record[0] = formatFloat(v.AtVec(i))
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "dataio: write vector")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "dataio: write vector")
}

// LoadMatrixFile opens path and calls LoadMatrix.
func LoadMatrixFile(path string, transpose bool) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataio: open %s", path)
	}
	defer f.Close()

	m, err := LoadMatrix(f, transpose)
	if err != nil {
		return nil, errors.Wrapf(err, "dataio: %s", path)
	}
	return m, nil
}

// SaveMatrixFile creates path and calls SaveMatrix.
func SaveMatrixFile(path string, m mat.Matrix, transpose bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "dataio: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "dataio: close %s", path)
		}
	}()

	return SaveMatrix(f, m, transpose)
}

// formatFloat uses the shortest representation that round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
