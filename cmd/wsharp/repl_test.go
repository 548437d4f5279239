package main

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"wsharp/interpreter-go/pkg/driver"
)

type scriptedPrompter struct {
	inputs []string
	end    error
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.inputs) == 0 {
		if p.end != nil {
			return "", p.end
		}
		return "", io.EOF
	}
	next := p.inputs[0]
	p.inputs = p.inputs[1:]
	return next, nil
}

func newTestShell(inputs ...string) (*shell, *strings.Builder) {
	var out strings.Builder
	sh := &shell{
		in:    &scriptedPrompter{inputs: inputs},
		out:   &out,
		stdin: strings.NewReader(""),
		cfg:   driver.Config{Seed: 1, HasSeed: true},
	}
	return sh, &out
}

func TestShellRunsBufferedLines(t *testing.T) {
	sh, out := newTestShell(`1#2 print("hi");`, "#run", "#quit", "never read")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if out.String() != "hi\nhi\n" {
		t.Fatalf("output = %q", out.String())
	}
	if len(sh.lines) != 1 {
		t.Fatalf("buffer = %#v", sh.lines)
	}
}

func TestShellRecordsHistory(t *testing.T) {
	sh, _ := newTestShell("1 x = 1;", "", "#reset")
	var history []string
	sh.record = func(line string) { history = append(history, line) }
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if strings.Join(history, "|") != "1 x = 1;|#reset" {
		t.Fatalf("history = %#v", history)
	}
	if len(sh.lines) != 0 {
		t.Fatalf("#reset should clear the buffer, got %#v", sh.lines)
	}
}

func TestShellToggles(t *testing.T) {
	sh, out := newTestShell("#showTree", "#showProgram", "#showTree", "1 x = 1;", "#run")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	got := out.String()
	for _, fragment := range []string{
		"Showing parse trees.\n",
		"Showing program.\n",
		"Not showing parse trees.\n",
		"Program:\n",
		"LineStatement 1#1",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "Tree:") {
		t.Fatalf("tree should be hidden after toggling twice:\n%s", got)
	}
}

func TestShellReportsDiagnostics(t *testing.T) {
	sh, out := newTestShell("1 print(nope);", "#run")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !strings.Contains(out.String(), "(1, 9): undefined name `nope`") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestShellReportsRuntimeErrors(t *testing.T) {
	sh, out := newTestShell("1 print(String(random(0)));", "#run")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !strings.Contains(out.String(), "runtime error: ") || !strings.Contains(out.String(), "maximum must be positive") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestShellLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "prog.ws", "1 print(\"one\");\r\n2#0 print(\"two\");\n")
	sh, out := newTestShell("9 x = 1;", "#loadFile "+path, "#run", "#loadFile "+filepath.Join(dir, "missing.ws"), "#loadFile")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if len(sh.lines) != 2 || sh.lines[0] != `1 print("one");` {
		t.Fatalf("buffer = %#v", sh.lines)
	}
	got := out.String()
	for _, fragment := range []string{
		"Loaded 2 line(s) from " + path + ".\n",
		"one\n",
		"missing.ws does not exist\n",
		"usage: #loadFile <path>\n",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "two") {
		t.Fatalf("zero-weight line should not run:\n%s", got)
	}
}

func TestShellInvalidCommand(t *testing.T) {
	sh, out := newTestShell("#bogus")
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if out.String() != "invalid command: #bogus\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestShellStopsOnAbort(t *testing.T) {
	sh, _ := newTestShell("1 x = 1;")
	sh.in.(*scriptedPrompter).end = liner.ErrPromptAborted
	if err := sh.loop(); err != nil {
		t.Fatalf("abort should end the session cleanly, got %v", err)
	}

	failing := errors.New("terminal gone")
	sh, _ = newTestShell()
	sh.in.(*scriptedPrompter).end = failing
	if err := sh.loop(); !errors.Is(err, failing) {
		t.Fatalf("expected prompt error, got %v", err)
	}
}

func TestShellProgramReadsThroughPrompter(t *testing.T) {
	sh, out := newTestShell(`1#2 print("hi " + read());`, "#run", "alice", "bob", "#quit", "never read")
	sh.stdin = &promptReader{in: sh.in}
	if err := sh.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if out.String() != "hi alice\nhi bob\n" {
		t.Fatalf("output = %q", out.String())
	}
	if len(sh.lines) != 1 {
		t.Fatalf("program input leaked into the buffer: %#v", sh.lines)
	}
	if left := len(sh.in.(*scriptedPrompter).inputs); left != 1 {
		t.Fatalf("expected one unread input, got %d", left)
	}
}

func TestPromptReaderEndsOnAbort(t *testing.T) {
	r := &promptReader{in: &scriptedPrompter{inputs: []string{"x"}, end: liner.ErrPromptAborted}}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "x\n" {
		t.Fatalf("data = %q", data)
	}
}
