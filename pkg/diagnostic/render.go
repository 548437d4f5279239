package diagnostic

import (
	"fmt"
	"io"
	"strings"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// RenderOptions controls how diagnostics are printed.
type RenderOptions struct {
	// Color wraps the offending span in ANSI red. Without it the span is
	// underlined with carets on the following line.
	Color bool
}

// Render writes each diagnostic as `(line, column): message` followed by the
// source line that contains it, with the offending span set apart.
func Render(w io.Writer, source string, diags []Diagnostic, opts RenderOptions) error {
	lines := splitLines(source)
	for _, diag := range diags {
		if _, err := fmt.Fprintln(w, diag.String()); err != nil {
			return err
		}
		idx := diag.Span.Start.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		text := lines[idx]
		start := clamp(diag.Span.Start.Column-1, 0, len(text))
		end := start + diag.Span.Len()
		if diag.Span.End.Line != diag.Span.Start.Line {
			end = len(text)
		}
		end = clamp(end, start, len(text))

		prefix, bad, suffix := text[:start], text[start:end], text[end:]
		if opts.Color {
			if _, err := fmt.Fprintf(w, "    %s%s%s%s%s\n", prefix, ansiRed, bad, ansiReset, suffix); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "    %s\n", text); err != nil {
			return err
		}
		width := end - start
		if width == 0 {
			width = 1
		}
		if _, err := fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", start), strings.Repeat("^", width)); err != nil {
			return err
		}
	}
	return nil
}

func splitLines(source string) []string {
	raw := strings.Split(source, "\n")
	for i, line := range raw {
		raw[i] = strings.TrimSuffix(line, "\r")
	}
	return raw
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
