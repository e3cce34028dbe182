// Copyright (C) The Spotter Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package spotter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// Table is a dense row-major matrix of float64 with named rows and
// columns. Rows are events or genes, columns are samples. Missing
// cells are NaN.
type Table struct {
	RowNames []string
	ColNames []string
	Values   []float64 // len == len(RowNames)*len(ColNames)

	rowIndex map[string]int
	colIndex map[string]int
}

func NewTable(rows, cols []string) *Table {
	t := &Table{
		RowNames: rows,
		ColNames: cols,
		Values:   make([]float64, len(rows)*len(cols)),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.rowIndex = make(map[string]int, len(t.RowNames))
	for i, name := range t.RowNames {
		t.rowIndex[name] = i
	}
	t.colIndex = make(map[string]int, len(t.ColNames))
	for i, name := range t.ColNames {
		t.colIndex[name] = i
	}
}

func (t *Table) Rows() int { return len(t.RowNames) }
func (t *Table) Cols() int { return len(t.ColNames) }

func (t *Table) HasRow(name string) bool {
	_, ok := t.rowIndex[name]
	return ok
}

func (t *Table) HasCol(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Row returns the backing slice for the named row. The caller must
// not grow it; writes are visible in the table.
func (t *Table) Row(name string) []float64 {
	i, ok := t.rowIndex[name]
	if !ok {
		return nil
	}
	return t.RowAt(i)
}

func (t *Table) RowAt(i int) []float64 {
	ncol := len(t.ColNames)
	return t.Values[i*ncol : (i+1)*ncol]
}

func (t *Table) At(row, col string) float64 {
	i, ok := t.rowIndex[row]
	if !ok {
		return math.NaN()
	}
	j, ok := t.colIndex[col]
	if !ok {
		return math.NaN()
	}
	return t.Values[i*len(t.ColNames)+j]
}

// Subset returns a new table restricted to the given row and column
// names, in the given order. Requesting a name the table does not
// have fills that row/column with NaN.
func (t *Table) Subset(rows, cols []string) *Table {
	out := NewTable(append([]string(nil), rows...), append([]string(nil), cols...))
	colsrc := make([]int, len(cols))
	for j, name := range cols {
		if idx, ok := t.colIndex[name]; ok {
			colsrc[j] = idx
		} else {
			colsrc[j] = -1
		}
	}
	for i, name := range rows {
		dst := out.RowAt(i)
		idx, ok := t.rowIndex[name]
		if !ok {
			for j := range dst {
				dst[j] = math.NaN()
			}
			continue
		}
		src := t.RowAt(idx)
		for j, sj := range colsrc {
			if sj < 0 {
				dst[j] = math.NaN()
			} else {
				dst[j] = src[sj]
			}
		}
	}
	return out
}

// LoadTable reads a tab-separated table whose first header field
// names the index and whose first column holds row keys. A path
// ending in ".gz" is decompressed on the fly.
func LoadTable(path string) (*Table, error) {
	rdr, closer, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer closer()
	t, err := ReadTable(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// openReader opens path for reading, decompressing ".gz" on the fly.
func openReader(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	var rdr io.Reader = bufio.NewReaderSize(f, 1<<22)
	if !strings.HasSuffix(path, ".gz") {
		return rdr, f.Close, nil
	}
	gz, err := pgzip.NewReader(rdr)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return gz, func() error {
		gz.Close()
		return f.Close()
	}, nil
}

func ReadTable(rdr io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(rdr)
	scanner.Buffer(make([]byte, 1<<20), 1<<28)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty input")
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	if len(header) < 1 {
		return nil, fmt.Errorf("invalid header")
	}
	cols := header[1:]
	var rows []string
	var values []float64
	ln := 1
	for scanner.Scan() {
		ln++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(cols)+1 {
			return nil, fmt.Errorf("line %d: got %d fields, expected %d", ln, len(fields), len(cols)+1)
		}
		rows = append(rows, fields[0])
		for _, field := range fields[1:] {
			v, err := parseCell(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	t := &Table{RowNames: rows, ColNames: cols, Values: values}
	t.reindex()
	return t, nil
}

func parseCell(s string) (float64, error) {
	switch s {
	case "", "NA", "NaN", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// WriteFile writes the table as TSV, gzip-compressed if path ends in
// ".gz".
func (t *Table) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriterSize(f, 1<<20)
	var w io.Writer = bufw
	var gzw *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gzw = pgzip.NewWriter(bufw)
		w = gzw
	}
	if err := t.Write(w); err != nil {
		return err
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			return err
		}
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("index")
	for _, col := range t.ColNames {
		bw.WriteByte('\t')
		bw.WriteString(col)
	}
	bw.WriteByte('\n')
	for i, row := range t.RowNames {
		bw.WriteString(row)
		for _, v := range t.RowAt(i) {
			bw.WriteByte('\t')
			if math.IsNaN(v) {
				bw.WriteString("NA")
			} else {
				bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
