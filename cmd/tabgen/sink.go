package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benchgen/tabgen/internal/emit"
	"github.com/benchgen/tabgen/internal/schedule"
	"github.com/benchgen/tabgen/internal/value"
)

// dirSinkFactory opens one output file per (table, segment) under a fixed
// directory, named "<table>.<segment>.<ext>" per SPEC_FULL's directory
// naming rule. With DryRun set, rows are formatted but discarded (io.Discard)
// so expression-evaluation throughput can be measured independent of I/O.
type dirSinkFactory struct {
	dir         string
	ext         string
	qualified   bool
	columnNames map[string][]string
	opts        emit.Options
	dryRun      bool
}

func (s *dirSinkFactory) Open(tableName string, segmentIndex int) (schedule.RowWriter, error) {
	cols := s.columnNames[tableName]
	display := baseName(tableName)
	if s.qualified {
		display = tableName
	}

	var w io.Writer = io.Discard
	var closer io.Closer
	if !s.dryRun {
		path := filepath.Join(s.dir, fmt.Sprintf("%s.%05d.%s", baseName(tableName), segmentIndex, s.ext))
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	return &fileRowWriter{ew: emit.NewWriter(w, display, cols, s.opts), closer: closer}, nil
}

type fileRowWriter struct {
	ew     *emit.Writer
	closer io.Closer
}

func (f *fileRowWriter) WriteRow(vals []value.Value) error {
	return f.ew.WriteRow(vals)
}

func (f *fileRowWriter) Close() error {
	err := f.ew.Close()
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func baseName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
