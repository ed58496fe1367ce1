// Package emit formats evaluated rows into the output dialect (component G):
// batched SQL INSERT statements or CSV lines. Grounded on the teacher's
// sql_vdbe/record.go row-encoding style (a small per-dialect encoder walking
// a fixed Value union) adapted from SQLite's on-disk record format to text
// output, and on internal/docgen's writer-reuses-a-buffer convention for the
// "never allocates per-value beyond what formatting requires" rule (spec
// §4.7).
package emit

import (
	"bufio"
	"io"
	"strings"

	"github.com/benchgen/tabgen/internal/value"
)

// Format selects the output dialect.
type Format int

const (
	FormatSQL Format = iota
	FormatCSV
)

// Options configures a Writer. Zero value is SQL, unqualified, no
// backslash-escape, no headers, 1 row per INSERT, empty-string NULL.
type Options struct {
	Format          Format
	EscapeBackslash bool // SQL only: double backslashes in string content
	Headers         bool
	NullString      string // CSV only; SQL NULL is always the literal NULL keyword
	RowsPerInsert   int    // SQL only; <=0 treated as 1
}

// Writer formats rows for one table into one underlying io.Writer — one
// instance per (table, segment) output file. It is not safe for concurrent
// use; the scheduler gives each worker its own Writer per segment.
type Writer struct {
	w           *bufio.Writer
	opts        Options
	table       string
	columns     []string
	buf         strings.Builder
	rowsInBatch int
	wroteAny    bool
	err         error
}

// NewWriter wraps dst for table — exactly the name that should appear after
// INSERT INTO (the caller resolves --qualified before calling this) — whose
// columns are named cols in declared order.
func NewWriter(dst io.Writer, table string, cols []string, opts Options) *Writer {
	if opts.RowsPerInsert <= 0 {
		opts.RowsPerInsert = 1
	}
	w := &Writer{w: bufio.NewWriter(dst), opts: opts, table: table, columns: cols}
	if opts.Headers && opts.Format == FormatCSV {
		w.writeCSVHeader()
	}
	return w
}

func (w *Writer) writeCSVHeader() {
	if w.err != nil {
		return
	}
	for i, c := range w.columns {
		if i > 0 {
			w.w.WriteByte(',')
		}
		w.w.WriteString(csvField(c))
	}
	w.w.WriteByte('\n')
}

// WriteRow formats one row (one Value per column, in declared order).
func (w *Writer) WriteRow(vals []value.Value) error {
	if w.err != nil {
		return w.err
	}
	switch w.opts.Format {
	case FormatCSV:
		w.writeCSVRow(vals)
	default:
		w.writeSQLRow(vals)
	}
	return w.err
}

// Close flushes any open INSERT statement (SQL) and the underlying buffer.
func (w *Writer) Close() error {
	if w.err == nil && w.opts.Format == FormatSQL && w.rowsInBatch > 0 {
		w.w.WriteString(";\n")
		w.rowsInBatch = 0
	}
	if err := w.w.Flush(); err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) writeSQLRow(vals []value.Value) {
	if w.rowsInBatch == 0 {
		w.w.WriteString("INSERT INTO ")
		w.w.WriteString(w.table)
		if w.opts.Headers {
			w.w.WriteString(" (")
			for i, c := range w.columns {
				if i > 0 {
					w.w.WriteString(", ")
				}
				w.w.WriteString(c)
			}
			w.w.WriteByte(')')
		}
		w.w.WriteString(" VALUES\n")
	} else {
		w.w.WriteString(",\n")
	}
	w.w.WriteByte('(')
	for i, v := range vals {
		if i > 0 {
			w.w.WriteString(", ")
		}
		w.buf.Reset()
		formatSQLValue(&w.buf, v, w.opts.EscapeBackslash)
		w.w.WriteString(w.buf.String())
	}
	w.w.WriteByte(')')
	w.rowsInBatch++
	if w.rowsInBatch >= w.opts.RowsPerInsert {
		w.w.WriteString(";\n")
		w.rowsInBatch = 0
	}
}

func (w *Writer) writeCSVRow(vals []value.Value) {
	for i, v := range vals {
		if i > 0 {
			w.w.WriteByte(',')
		}
		w.buf.Reset()
		formatCSVValue(&w.buf, v, w.opts.NullString)
		w.w.WriteString(w.buf.String())
	}
	w.w.WriteByte('\n')
}

// formatSQLValue renders v as a SQL literal: numbers/timestamps/intervals in
// canonical text form, strings single-quoted with '' escape (and optional
// backslash doubling), bytes as an X'...' blob literal, NULL as the bare
// keyword.
func formatSQLValue(b *strings.Builder, v value.Value, escapeBackslash bool) {
	switch v.Tag() {
	case value.TagNull:
		b.WriteString("NULL")
	case value.TagString:
		writeSQLString(b, v.AsString(), escapeBackslash)
	case value.TagBytes:
		b.WriteString("X'")
		const hexDigits = "0123456789abcdef"
		for _, c := range v.AsBytes() {
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
		b.WriteByte('\'')
	case value.TagTimestamp, value.TagInterval:
		writeSQLString(b, value.Display(v), false)
	case value.TagArray:
		writeSQLString(b, value.Display(v), false)
	default:
		b.WriteString(value.Display(v))
	}
}

func writeSQLString(b *strings.Builder, s string, escapeBackslash bool) {
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			if escapeBackslash {
				b.WriteString(`\\`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
}

// formatCSVValue renders v per RFC4180-ish CSV: strings double-quoted with
// "" escape, NULL as nullStr (empty string by default) unquoted, everything
// else in canonical text form, quoted only when it contains a separator,
// quote, or newline.
func formatCSVValue(b *strings.Builder, v value.Value, nullStr string) {
	switch v.Tag() {
	case value.TagNull:
		b.WriteString(nullStr)
	case value.TagString:
		b.WriteString(`"` + strings.ReplaceAll(v.AsString(), `"`, `""`) + `"`)
	default:
		b.WriteString(csvField(value.Display(v)))
	}
}

func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`""`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// WriteSchema copies schemaText verbatim, used by `tabgen generate` to emit
// one `<table>.schema.sql` file per table alongside its data segments.
func WriteSchema(dst io.Writer, schemaText string) error {
	_, err := io.WriteString(dst, strings.TrimRight(schemaText, "\n")+"\n")
	return err
}
