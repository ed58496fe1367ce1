package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benchgen/tabgen/internal/value"
)

func TestSQLBatchingRespectsRowsPerInsert(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "widgets", []string{"id", "name"}, Options{RowsPerInsert: 2})
	for i := 0; i < 3; i++ {
		if err := w.WriteRow([]value.Value{value.Int(int64(i)), value.Str("x")}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "INSERT INTO") != 2 {
		t.Fatalf("expected 2 INSERT statements (batches of 2 then 1), got:\n%s", out)
	}
	if strings.Count(out, ";\n") != 2 {
		t.Fatalf("expected 2 terminated statements, got:\n%s", out)
	}
}

func TestSQLStringEscaping(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"s"}, Options{RowsPerInsert: 1})
	if err := w.WriteRow([]value.Value{value.Str(`it's a \test`)}); err != nil {
		t.Fatal(err)
	}
	w.Close()
	out := buf.String()
	if !strings.Contains(out, `'it''s a \test'`) {
		t.Fatalf("expected '' escape and untouched backslash (EscapeBackslash=false), got:\n%s", out)
	}
}

func TestSQLBackslashDoublingWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"s"}, Options{RowsPerInsert: 1, EscapeBackslash: true})
	if err := w.WriteRow([]value.Value{value.Str(`a\b`)}); err != nil {
		t.Fatal(err)
	}
	w.Close()
	out := buf.String()
	if !strings.Contains(out, `'a\\b'`) {
		t.Fatalf("expected doubled backslash, got:\n%s", out)
	}
}

func TestSQLNullKeywordAndBlobLiteral(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"a", "b"}, Options{RowsPerInsert: 1})
	if err := w.WriteRow([]value.Value{value.Null, value.Bytes([]byte{0xde, 0xad, 0xbe, 0xef})}); err != nil {
		t.Fatal(err)
	}
	w.Close()
	out := buf.String()
	if !strings.Contains(out, "(NULL, X'deadbeef')") {
		t.Fatalf("expected NULL keyword and X'deadbeef' blob literal, got:\n%s", out)
	}
}

func TestSQLHeadersIncludesColumnList(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"id", "name"}, Options{RowsPerInsert: 1, Headers: true})
	w.WriteRow([]value.Value{value.Int(1), value.Str("a")})
	w.Close()
	if !strings.Contains(buf.String(), "INSERT INTO t (id, name) VALUES") {
		t.Fatalf("expected column list in INSERT, got:\n%s", buf.String())
	}
}

func TestCSVStringsAlwaysQuoted(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"a", "b"}, Options{Format: FormatCSV})
	w.WriteRow([]value.Value{value.Str("plain"), value.Str(`has,comma and "quote"`)})
	w.Close()
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 CSV line, got %d: %v", len(lines), lines)
	}
	want := `"plain","has,comma and ""quote"""`
	if lines[0] != want {
		t.Fatalf("expected %q, got %q", want, lines[0])
	}
}

func TestCSVHeaderRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"id", "name"}, Options{Format: FormatCSV, Headers: true})
	w.WriteRow([]value.Value{value.Int(1), value.Str("a")})
	w.Close()
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "id,name" {
		t.Fatalf("expected header row id,name, got %q", lines[0])
	}
}

func TestCSVNullStringConfigurable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "t", []string{"a"}, Options{Format: FormatCSV, NullString: `\N`})
	w.WriteRow([]value.Value{value.Null})
	w.Close()
	got := strings.TrimRight(buf.String(), "\n")
	if got != `\N` {
		t.Fatalf("expected configured NULL text, got %q", got)
	}
}

func TestWriteSchemaPassesThroughVerbatim(t *testing.T) {
	var buf bytes.Buffer
	schema := "CREATE TABLE t (\n  id INT\n)"
	if err := WriteSchema(&buf, schema); err != nil {
		t.Fatal(err)
	}
	if buf.String() != schema+"\n" {
		t.Fatalf("expected verbatim schema text with trailing newline, got %q", buf.String())
	}
}
