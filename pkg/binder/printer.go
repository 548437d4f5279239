package binder

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
)

// Print writes the bound tree rooted at n, one node per line, children
// indented by two spaces. Expressions are annotated with their type.
func Print(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	printNode(bw, n, 0)
	return bw.Flush()
}

func printNode(w *bufio.Writer, n Node, depth int) {
	for range depth {
		w.WriteString("  ")
	}
	w.WriteString(n.Kind().String())
	if detail := nodeDetail(n); detail != "" {
		w.WriteString(" ")
		w.WriteString(detail)
	}
	if expr, ok := n.(Expression); ok {
		fmt.Fprintf(w, " : %s", expr.Type())
	}
	w.WriteString("\n")
	for _, child := range Children(n) {
		printNode(w, child, depth+1)
	}
}

func nodeDetail(n Node) string {
	switch n := n.(type) {
	case *LiteralExpression:
		switch v := n.Value.(type) {
		case *big.Int:
			return v.String()
		case string:
			return fmt.Sprintf("%q", v)
		default:
			return fmt.Sprint(v)
		}
	case *VariableExpression:
		return n.Variable.Name
	case *AssignmentExpression:
		return n.Variable.Name + " ="
	case *UnaryExpression:
		return string(n.Operator.Syntax)
	case *BinaryExpression:
		return string(n.Operator.Syntax)
	case *CallExpression:
		return n.Function.Name
	case *ConversionExpression:
		return "to " + n.To.Name()
	case *LineStatement:
		detail := fmt.Sprintf("%d#%s", n.ID, n.Weight)
		if n.Defer != nil {
			detail += " defer"
		}
		if n.Again != nil {
			detail += " again"
		}
		return detail
	}
	return ""
}
