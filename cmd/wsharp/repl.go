package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/binder"
	"wsharp/interpreter-go/pkg/codegen"
	"wsharp/interpreter-go/pkg/diagnostic"
	"wsharp/interpreter-go/pkg/driver"
)

const (
	replPrompt      = "» "
	replInputPrompt = "< "
	replHistoryFile = "repl_history"
	clearScreen     = "\x1b[H\x1b[2J"
)

// prompter is the part of liner.State the shell needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// promptReader feeds a running program's read() calls from the line editor,
// one prompted line at a time.
type promptReader struct {
	in      prompter
	pending []byte
}

func (r *promptReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		line, err := r.in.Prompt(replInputPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return 0, io.EOF
			}
			return 0, err
		}
		r.pending = []byte(line + "\n")
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// shell buffers program lines until #run compiles and executes them.
type shell struct {
	in     prompter
	out    io.Writer
	stdin  io.Reader
	cfg    driver.Config
	color  bool
	record func(string)

	lines       []string
	showTree    bool
	showProgram bool
}

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args, " "))
		return 1
	}
	cfg, err := driver.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := filepath.Join(cfg.Home, replHistoryFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sh := &shell{
		in:     ln,
		out:    os.Stdout,
		stdin:  &promptReader{in: ln},
		cfg:    cfg,
		color:  !cfg.NoColor && isTerminal(os.Stdout.Fd()),
		record: ln.AppendHistory,
	}
	if err := sh.loop(); err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
		return 1
	}
	return 0
}

// loop reads input until #quit, end of input or Ctrl-C.
func (s *shell) loop() error {
	for {
		input, err := s.in.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if s.record != nil {
			s.record(input)
		}
		if strings.HasPrefix(input, "#") {
			if quit := s.command(strings.TrimSpace(input)); quit {
				return nil
			}
			continue
		}
		s.lines = append(s.lines, input)
	}
}

func (s *shell) command(input string) (quit bool) {
	switch {
	case input == "#quit":
		return true
	case input == "#run":
		s.evaluate()
	case input == "#showTree":
		s.showTree = !s.showTree
		if s.showTree {
			fmt.Fprintln(s.out, "Showing parse trees.")
		} else {
			fmt.Fprintln(s.out, "Not showing parse trees.")
		}
	case input == "#showProgram":
		s.showProgram = !s.showProgram
		if s.showProgram {
			fmt.Fprintln(s.out, "Showing program.")
		} else {
			fmt.Fprintln(s.out, "Not showing program.")
		}
	case input == "#reset":
		s.lines = nil
		fmt.Fprintln(s.out, "Buffer cleared.")
	case input == "#cls":
		s.lines = nil
		if s.color {
			fmt.Fprint(s.out, clearScreen)
		}
	case input == "#loadFile" || strings.HasPrefix(input, "#loadFile "):
		s.load(strings.TrimSpace(strings.TrimPrefix(input, "#loadFile")))
	default:
		fmt.Fprintf(s.out, "invalid command: %s\n", input)
	}
	return false
}

// load replaces the buffer with the lines of a file or git reference.
func (s *shell) load(ref string) {
	if ref == "" {
		fmt.Fprintln(s.out, "usage: #loadFile <path>")
		return
	}
	src, err := driver.LoadSource(ref, s.cfg.Home)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(s.out, "file %s does not exist\n", ref)
		} else {
			fmt.Fprintf(s.out, "%v\n", err)
		}
		return
	}
	text := strings.ReplaceAll(src.Text, "\r\n", "\n")
	s.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	fmt.Fprintf(s.out, "Loaded %d line(s) from %s.\n", len(s.lines), ref)
}

func (s *shell) evaluate() {
	source := strings.Join(s.lines, "\n")
	compilation := driver.Compile(source)

	if s.showTree {
		fmt.Fprintln(s.out, "Tree:")
		if err := ast.Fprint(s.out, compilation.Unit); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		}
	}
	if s.showProgram {
		fmt.Fprintln(s.out, "Program:")
		if err := binder.Print(s.out, compilation.Program.Root); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		}
	}

	if diags := compilation.Diagnostics(); len(diags) > 0 {
		if err := diagnostic.Render(s.out, source, diags, diagnostic.RenderOptions{Color: s.color}); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		}
		return
	}

	random := s.cfg.RandomSource()
	lines, err := compilation.Lines(codegen.Options{Stdout: s.out, Stdin: s.stdin, Random: random})
	if err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := driver.Run(ctx, lines, random, driver.RunOptions{MaxSteps: s.cfg.MaxSteps}); err != nil {
		fmt.Fprintf(s.out, "runtime error: %v\n", err)
	}
}
