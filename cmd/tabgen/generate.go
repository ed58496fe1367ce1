package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/benchgen/tabgen/internal/compile"
	"github.com/benchgen/tabgen/internal/emit"
	"github.com/benchgen/tabgen/internal/funcs"
	"github.com/benchgen/tabgen/internal/logging"
	"github.com/benchgen/tabgen/internal/parser"
	"github.com/benchgen/tabgen/internal/prng"
	"github.com/benchgen/tabgen/internal/schedule"
	"github.com/benchgen/tabgen/internal/template"
)

// GenerateCmd runs the full pipeline: parse, compile, schedule, emit.
type GenerateCmd struct {
	Template        string `arg:"" help:"Path to the template file" type:"existingfile"`
	OutDir          string `help:"Output directory" default:"." type:"path"`
	Rows            int64  `help:"Total number of top-level rows to generate" default:"1000"`
	RowsPerFile     int64  `help:"Rows per output file (segment size)" default:"100000"`
	RowsPerInsert   int    `help:"Rows per SQL INSERT statement" default:"100"`
	Workers         int    `help:"Worker count (0 = number of logical CPUs)" default:"0"`
	Seed            string `help:"64 hex digit PRNG seed (a random one is generated and printed if omitted)"`
	Algorithm       string `help:"PRNG algorithm" enum:"hc128,chacha12,chacha20,isaac,isaac64,xorshift,pcg32,step" default:"hc128"`
	Format          string `help:"Output format" enum:"sql,csv" default:"sql"`
	Qualified       bool   `help:"Use the template's fully qualified table name in SQL/CSV output"`
	EscapeBackslash bool   `help:"Double backslashes in SQL string literals"`
	Headers         bool   `help:"Emit a column-name header (CSV) or column list (SQL)"`
	NullString      string `help:"CSV field text for NULL"`
	DryRun          bool   `help:"Run the full pipeline but discard generated output"`
}

func (c *GenerateCmd) Run() error {
	src, err := os.ReadFile(c.Template)
	if err != nil {
		return err
	}
	tmpl, err := parser.ParseTemplate(string(src))
	if err != nil {
		return err
	}
	model, err := compile.Compile(tmpl, funcs.Default())
	if err != nil {
		return err
	}

	seedHex := c.Seed
	if seedHex == "" {
		var raw [32]byte
		if _, err := cryptorand.Read(raw[:]); err != nil {
			return err
		}
		seedHex = hex.EncodeToString(raw[:])
		fmt.Fprintf(os.Stderr, "tabgen: using random seed %s\n", seedHex)
	}
	baseSeed, err := prng.SeedFromHex(prng.Algorithm(c.Algorithm), seedHex)
	if err != nil {
		return err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if !c.DryRun {
		if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
			return err
		}
	}

	format, ext := emit.FormatSQL, "sql"
	if c.Format == "csv" {
		format, ext = emit.FormatCSV, "csv"
	}

	tables := template.Flatten(model.Roots)
	columnNames := make(map[string][]string, len(tables))
	for _, t := range tables {
		columnNames[t.Name] = t.ColumnNames
	}

	if !c.DryRun && format == emit.FormatSQL {
		if err := writeSchemas(c.OutDir, tables); err != nil {
			return err
		}
	}

	sinks := &dirSinkFactory{
		dir:         c.OutDir,
		ext:         ext,
		qualified:   c.Qualified,
		columnNames: columnNames,
		dryRun:      c.DryRun,
		opts: emit.Options{
			Format:          format,
			EscapeBackslash: c.EscapeBackslash,
			Headers:         c.Headers,
			NullString:      c.NullString,
			RowsPerInsert:   c.RowsPerInsert,
		},
	}

	progress := &schedule.Progress{}
	stopProgress := reportProgress(progress, c.Rows)
	defer stopProgress()

	opts := schedule.Options{
		Model:       model,
		NTotal:      c.Rows,
		RowsPerFile: c.RowsPerFile,
		Workers:     workers,
		BaseSeed:    baseSeed,
		Now:         time.Now(),
		Sinks:       sinks,
	}
	return schedule.Run(context.Background(), opts, progress)
}

// writeSchemas emits one "<table>.schema.sql" file per table carrying
// non-empty CREATE TABLE text, written once up front rather than per
// segment.
func writeSchemas(dir string, tables []*template.TableNode) error {
	for _, t := range tables {
		if strings.TrimSpace(t.SchemaText) == "" {
			continue
		}
		path := filepath.Join(dir, baseName(t.Name)+".schema.sql")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = emit.WriteSchema(f, t.SchemaText)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// reportProgress polls progress once a second and logs a human-readable
// rows/sec summary to stderr, mirroring the teacher's runner transcript
// bookkeeping. The returned func stops the poller and prints a final line.
func reportProgress(p *schedule.Progress, total int64) func() {
	start := time.Now()
	done := make(chan struct{})
	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				logProgress(p, total, start)
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
		logProgress(p, total, start)
	}
}

func logProgress(p *schedule.Progress, total int64, start time.Time) {
	rows := atomic.LoadInt64(&p.RowsEmitted)
	elapsed := time.Since(start)
	var rate float64
	if elapsed > 0 {
		rate = float64(rows) / elapsed.Seconds()
	}
	logging.Info("progress",
		"rows", humanize.Comma(rows),
		"of", humanize.Comma(total),
		"rows_per_sec", humanize.Comma(int64(rate)),
		"files", atomic.LoadInt64(&p.FilesWritten),
	)
}
