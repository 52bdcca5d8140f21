// Command qparse parses a local questionnaire file and prints the section tree as JSON.
//
//	qparse [--rules rules.yaml] [--name original.ext] [--pretty] <path>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"questionnaire/internal/config"
	"questionnaire/internal/logger"
	"questionnaire/internal/parser"
)

const (
	exitOK          = 0
	exitParseFailed = 1
	exitUsage       = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	env := config.Load()

	fs := pflag.NewFlagSet("qparse", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	rulesFile := fs.String("rules", env.Parser.RulesFile, "YAML file overriding heading phrases, option labels and column aliases")
	name := fs.String("name", "", "original filename used for format detection (defaults to the path)")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	timeout := fs.Duration("timeout", env.Parser.Timeout(), "give up after this long (0 disables)")
	logLevel := fs.String("log-level", "warn", "log level written to stderr (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: qparse [flags] <path>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	path := fs.Arg(0)
	if *name == "" {
		*name = path
	}

	log := logger.New(stderr, *logLevel, env.Log.Location())
	defer log.Sync()

	rules := parser.DefaultRules()
	if *rulesFile != "" {
		var err error
		if rules, err = parser.LoadRules(*rulesFile); err != nil {
			log.Error("failed to load rules", zap.String("path", *rulesFile), zap.Error(err))
			return exitUsage
		}
	}
	p, err := parser.New(rules, parser.WithLogger(log))
	if err != nil {
		log.Error("failed to build parser", zap.Error(err))
		return exitUsage
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	doc, err := p.Parse(ctx, path, *name)
	if err != nil {
		log.Error("parse failed", zap.String("path", path), zap.Error(err))
		return exitParseFailed
	}
	log.Debug("parsed", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		log.Error("failed to write output", zap.Error(err))
		return exitParseFailed
	}
	return exitOK
}
