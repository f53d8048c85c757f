// iltag inspects and produces ILTags data.
//
//	iltag dump [--format text|json|yaml|cbor] [--catalog FILE] FILE|-
//	iltag scan FILE|-
//	iltag encode [--hex] FILE.yaml|-
//	iltag ilint [--signed] [--decode] VALUE...
//
// Decoding limits default to the ILTAGS_* environment variables and can be
// overridden with --strict, --max-value-size and --max-depth.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/anirudhraja/iltags"
	"github.com/anirudhraja/iltags/catalog"
	"github.com/anirudhraja/iltags/tags"
)

// usageError marks errors caused by bad arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// env carries the streams and shared flags of one invocation.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	verbose      bool
	strict       bool
	maxValueSize uint64
	maxDepth     int
	catalogPath  string
}

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

var commands = []command{
	{name: "dump", summary: "decode tags and print them as a tree", run: runDump},
	{name: "scan", summary: "list top-level tags with offsets and BLAKE3 digests", run: runScan},
	{name: "encode", summary: "build tags from a YAML description", run: runEncode},
	{name: "ilint", summary: "show the ILInt encoding of numbers", run: runILInt},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
			err := c.run(e, args[1:])
			if errors.Is(err, pflag.ErrHelp) {
				return nil
			}
			return err
		}
	}
	printUsage(stderr)
	return usagef("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: iltag <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}

// flagSet returns a flag set with the flags every command shares.
func (e *env) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("iltag "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.BoolVarP(&e.verbose, "verbose", "v", false, "log debug records to stderr")
	return fs
}

// addDecodeFlags adds the flags of commands that decode tags.
func (e *env) addDecodeFlags(fs *pflag.FlagSet) {
	cfg := tags.DefaultConfig()
	fs.BoolVar(&e.strict, "strict", cfg.Strict, "fail on unknown tag identifiers")
	fs.Uint64Var(&e.maxValueSize, "max-value-size", cfg.MaxValueSize, "largest accepted value size in bytes (0 for no limit)")
	fs.IntVar(&e.maxDepth, "max-depth", cfg.MaxDepth, "deepest accepted nesting (0 for no limit)")
	fs.StringVar(&e.catalogPath, "catalog", "", "name tags after a .proto, directory or YAML catalog")
}

// parse parses args and sets up logging. It returns the positional
// arguments.
func (e *env) parse(fs *pflag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, err
		}
		return nil, &usageError{msg: err.Error()}
	}
	level := slog.LevelInfo
	if e.verbose {
		level = slog.LevelDebug
	}
	e.logger = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	return fs.Args(), nil
}

// iltags builds the facade from the decode flags.
func (e *env) iltags() (*iltags.ILTags, error) {
	cfg := tags.Config{
		Strict:       e.strict,
		MaxValueSize: e.maxValueSize,
		MaxDepth:     e.maxDepth,
	}
	opts := []iltags.Option{
		iltags.WithTagOptions(tags.WithConfig(cfg), tags.WithLogger(e.logger)),
	}
	if e.catalogPath != "" {
		cat, err := catalog.Load(e.catalogPath)
		if err != nil {
			return nil, errors.Wrapf(err, "load catalog %s", e.catalogPath)
		}
		e.logger.Debug("catalog loaded", "path", e.catalogPath, "names", cat.Len())
		opts = append(opts, iltags.WithCatalog(cat))
	}
	return iltags.New(opts...)
}

// open returns the named input, or stdin for "-". The caller closes it.
func (e *env) open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(e.stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	return f, nil
}

// oneInput checks that exactly one input was named.
func oneInput(args []string) (string, error) {
	if len(args) != 1 {
		return "", usagef("want one input file or -, got %d arguments", len(args))
	}
	return args[0], nil
}
