// Command tabgen generates large, reproducible, randomized SQL or CSV
// dumps from a SQL-flavored template with embedded {{ ... }} expressions.
// Grounded on the teacher's cmd/capsule command-tree layout (noun-ish
// top-level subcommands parsed by kong, each with its own Run method).
package main

import (
	"github.com/alecthomas/kong"

	"github.com/benchgen/tabgen/internal/logging"
)

const version = "0.1.0"

// CLI is the root command tree.
var CLI struct {
	LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log format" enum:"json,text" default:"json"`

	Generate GenerateCmd `cmd:"" help:"Generate SQL or CSV data from a template"`
	Check    CheckCmd    `cmd:"" help:"Parse and compile a template without generating rows"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tabgen"),
		kong.Description("Deterministic, parallel SQL/CSV data generator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	logging.InitLogger(parseLogLevel(CLI.LogLevel), parseLogFormat(CLI.LogFormat))

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseLogFormat(s string) logging.Format {
	if s == "text" {
		return logging.FormatText
	}
	return logging.FormatJSON
}
