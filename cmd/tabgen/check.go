package main

import (
	"fmt"
	"os"

	"github.com/benchgen/tabgen/internal/compile"
	"github.com/benchgen/tabgen/internal/funcs"
	"github.com/benchgen/tabgen/internal/parser"
	"github.com/benchgen/tabgen/internal/template"
)

// CheckCmd parses and compiles a template, reporting every error with its
// source span, without generating any rows — grounded on the teacher's
// capsule verify/selfcheck validate-only subcommand pattern.
type CheckCmd struct {
	Template string `arg:"" help:"Path to the template file" type:"existingfile"`
}

func (c *CheckCmd) Run() error {
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
	tables := template.Flatten(model.Roots)
	fmt.Printf("OK: %d table(s), %d variable slot(s)\n", len(tables), model.SlotCount)
	for _, t := range tables {
		kind := "top-level"
		if t.CountExpr != nil {
			kind = "derived"
		}
		fmt.Printf("  %-24s %-10s %d column(s), %d child table(s)\n", t.Name, kind, len(t.Columns), len(t.Children))
	}
	return nil
}
