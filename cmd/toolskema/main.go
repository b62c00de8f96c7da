// Command toolskema validates tool input against tool definitions and prints
// JSON Schemas for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	toolskema "github.com/reoring/toolskema"
	"github.com/reoring/toolskema/i18n"
	"github.com/reoring/toolskema/tooldef"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `toolskema CLI

Usage:
  toolskema validate -defs tools.yaml -tool NAME [-input FILE|-] [-config FILE]
  toolskema schema   -defs tools.yaml -tool NAME [-config FILE]
  toolskema defschema

Environment:
  TOOLSKEMA_LANG, TOOLSKEMA_FAIL_FAST, TOOLSKEMA_MAX_DEPTH, TOOLSKEMA_MAX_BYTES,
  TOOLSKEMA_DUPLICATE_KEYS (ignore|warn|error), TOOLSKEMA_LOG_LEVEL`)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "validate":
		return validateCmd(ctx, args[1:], stdin, stdout, stderr)
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	case "defschema":
		return defSchemaCmd(stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

type commonFlags struct {
	defs   string
	tool   string
	config string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.defs, "defs", "", "tool definition file (YAML or JSON)")
	fs.StringVar(&c.tool, "tool", "", "tool name")
	fs.StringVar(&c.config, "config", "", "config file")
}

// setup loads config and definitions and returns the logger and the registry.
func (c *commonFlags) setup(stderr io.Writer) (Config, *slog.Logger, *tooldef.Registry, error) {
	cfg, err := loadConfig(c.config)
	if err != nil {
		return Config{}, nil, nil, err
	}
	lvl, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	i18n.SetLanguage(cfg.Lang)

	defs, err := tooldef.LoadFile(c.defs)
	if err != nil {
		return cfg, logger, nil, err
	}
	reg := tooldef.NewRegistry()
	if err := reg.RegisterAll(defs); err != nil {
		return cfg, logger, nil, err
	}
	logger.Debug("definitions loaded", "path", c.defs, "tools", reg.Names())
	return cfg, logger, reg, nil
}

func validateCmd(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cf commonFlags
	cf.register(fs)
	input := fs.String("input", "-", "input JSON file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if cf.defs == "" || cf.tool == "" {
		fs.Usage()
		return exitUsage
	}
	cfg, logger, reg, err := cf.setup(stderr)
	if err != nil {
		return fail(logger, stderr, err)
	}

	in := stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			return fail(logger, stderr, err)
		}
		defer f.Close()
		in = f
	}

	opt := cfg.parseOpt(func(it toolskema.Issue) {
		logger.Warn("input warning", "code", it.Code, "path", it.Path, "offset", it.Offset)
	})
	v, err := reg.ValidateReader(ctx, cf.tool, in, opt)
	if err != nil {
		if iss, ok := toolskema.AsIssues(err); ok {
			logger.Info("input rejected", "tool", cf.tool, "issues", len(iss))
			if werr := writeJSON(stdout, issueViews(iss)); werr != nil {
				return fail(logger, stderr, werr)
			}
			return exitInvalid
		}
		return fail(logger, stderr, err)
	}
	logger.Info("input accepted", "tool", cf.tool)
	if err := writeJSON(stdout, v); err != nil {
		return fail(logger, stderr, err)
	}
	return exitOK
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cf commonFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if cf.defs == "" || cf.tool == "" {
		fs.Usage()
		return exitUsage
	}
	_, logger, reg, err := cf.setup(stderr)
	if err != nil {
		return fail(logger, stderr, err)
	}
	s, err := reg.InputSchema(cf.tool)
	if err != nil {
		return fail(logger, stderr, err)
	}
	if err := writeJSON(stdout, s); err != nil {
		return fail(logger, stderr, err)
	}
	return exitOK
}

func defSchemaCmd(stdout, stderr io.Writer) int {
	b, err := tooldef.DocumentSchema()
	if err != nil {
		return fail(nil, stderr, err)
	}
	if _, err := stdout.Write(append(b, '\n')); err != nil {
		return fail(nil, stderr, err)
	}
	return exitOK
}

type issueView struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Offset  int64          `json:"offset,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

func issueViews(iss toolskema.Issues) []issueView {
	out := make([]issueView, 0, len(iss))
	for _, it := range iss {
		off := it.Offset
		if off < 0 {
			off = 0
		}
		out = append(out, issueView{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Offset: off, Params: it.Params})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(logger *slog.Logger, stderr io.Writer, err error) int {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	logger.Error("toolskema failed", "err", err)
	return exitUsage
}
