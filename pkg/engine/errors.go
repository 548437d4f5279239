package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoLines rejects an empty program.
	ErrNoLines = errors.New("engine: must supply at least one line")
	// ErrNoRandomSource rejects construction without a random source.
	ErrNoRandomSource = errors.New("engine: random source must not be nil")
	// ErrInconsistentTable signals that no line owns a valid draw. It is an
	// engine defect, never a program error.
	ErrInconsistentTable = errors.New("engine: no line owns the draw")
	// ErrUnknownLine is returned by weight updates naming a missing line.
	ErrUnknownLine = errors.New("engine: unknown line")
)

// LineIssue describes one invalid entry passed to New.
type LineIssue struct {
	Index  int
	Reason string
}

// LinesError aggregates every invalid entry passed to New.
type LinesError struct {
	Issues []LineIssue
}

// Indices returns the offending positions in ascending order.
func (e *LinesError) Indices() []int {
	out := make([]int, len(e.Issues))
	for i, issue := range e.Issues {
		out[i] = issue.Index
	}
	return out
}

func (e *LinesError) Error() string {
	var b strings.Builder
	b.WriteString("engine: invalid lines:")
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n- lines[%d]: %s", issue.Index, issue.Reason)
	}
	return b.String()
}
