package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"wsharp/interpreter-go/pkg/codegen"
	"wsharp/interpreter-go/pkg/diagnostic"
	"wsharp/interpreter-go/pkg/driver"
)

const cliToolVersion = "wsharp 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:])
	case "check":
		return runCheck(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		return runProgram(args)
	}
}

// runSettings is the effective configuration of one run: manifest values,
// overridden by the environment, overridden by flags.
type runSettings struct {
	seed     uint64
	hasSeed  bool
	maxSteps uint64
	trace    bool
}

func runProgram(args []string) int {
	cfg, err := driver.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	seedFlag := fs.String("seed", "", "seed the random source for a reproducible run")
	maxStepsFlag := fs.Uint64("max-steps", 0, "stop after this many executed lines (0 = no limit)")
	traceFlag := fs.Bool("trace", false, "log every executed line to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return 1
	}

	var settings runSettings
	var ref string
	if fs.NArg() == 1 {
		ref = fs.Arg(0)
	} else {
		manifest, err := loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "wsharp run requires a source file or git reference (%s not found)\n", driver.ManifestFileName)
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return 1
		}
		ref = manifest.EntryReference()
		if manifest.Seed != nil {
			settings.seed, settings.hasSeed = *manifest.Seed, true
		}
		settings.maxSteps = manifest.MaxSteps
		settings.trace = manifest.Trace
	}

	if cfg.HasSeed {
		settings.seed, settings.hasSeed = cfg.Seed, true
	}
	if cfg.MaxSteps > 0 {
		settings.maxSteps = cfg.MaxSteps
	}
	settings.trace = settings.trace || cfg.Trace

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			seed, err := driver.ParseSeed(*seedFlag)
			if err != nil {
				flagErr = fmt.Errorf("-seed: %w", err)
				return
			}
			settings.seed, settings.hasSeed = seed, true
		case "max-steps":
			settings.maxSteps = *maxStepsFlag
		case "trace":
			settings.trace = *traceFlag
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", flagErr)
		return 1
	}

	src, err := driver.LoadSource(ref, cfg.Home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	return executeSource(src, cfg, settings)
}

func executeSource(src *driver.Source, cfg driver.Config, settings runSettings) int {
	compilation := driver.Compile(src.Text)
	if diags := compilation.Diagnostics(); len(diags) > 0 {
		reportDiagnostics(os.Stderr, src, diags, cfg)
		return 1
	}

	random := cfg.RandomSource()
	if settings.hasSeed {
		random = driver.Config{Seed: settings.seed, HasSeed: true}.RandomSource()
	}
	lines, err := compilation.Lines(codegen.Options{
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		Random: random,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	opts := driver.RunOptions{MaxSteps: settings.maxSteps}
	if settings.trace {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := driver.Run(ctx, lines, random, opts); err != nil {
		if errors.Is(err, driver.ErrStepLimit) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", src.Name, err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "wsharp check requires exactly one source file or git reference")
		return 1
	}
	cfg, err := driver.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	src, err := driver.LoadSource(args[0], cfg.Home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	compilation := driver.Compile(src.Text)
	if diags := compilation.Diagnostics(); len(diags) > 0 {
		reportDiagnostics(os.Stderr, src, diags, cfg)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s: %d line(s), no diagnostics\n", src.Name, len(compilation.Program.Lines()))
	return 0
}

func reportDiagnostics(w io.Writer, src *driver.Source, diags []diagnostic.Diagnostic, cfg driver.Config) {
	fmt.Fprintf(w, "%s: %d diagnostic(s)\n", src.Name, len(diags))
	opts := diagnostic.RenderOptions{Color: !cfg.NoColor && isTerminal(os.Stderr.Fd())}
	if err := diagnostic.Render(w, src.Text, diags, opts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to render diagnostics: %v\n", err)
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wsharp run [-seed n] [-max-steps n] [-trace] [file.ws | git+<url>@<rev>:<path>]")
	fmt.Fprintln(w, "  wsharp <file.ws>")
	fmt.Fprintln(w, "  wsharp check <file.ws>")
	fmt.Fprintln(w, "  wsharp repl")
	fmt.Fprintln(w, "  wsharp version")
}
