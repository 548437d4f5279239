package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of the syntax tree rooted at node.
func Fprint(w io.Writer, node Node) error {
	p := &treePrinter{w: w}
	p.node(node, "", true)
	return p.err
}

type treePrinter struct {
	w   io.Writer
	err error
}

func (p *treePrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *treePrinter) node(node Node, indent string, last bool) {
	marker := "├──"
	if last {
		marker = "└──"
	}
	p.printf("%s%s%s\n", indent, marker, describe(node))
	if last {
		indent += "    "
	} else {
		indent += "│   "
	}
	children := Children(node)
	for i, child := range children {
		p.node(child, indent, i == len(children)-1)
	}
}

func describe(node Node) string {
	switch n := node.(type) {
	case *IntegerLiteral:
		return fmt.Sprintf("%s %s", n.NodeType(), n.Text)
	case *BooleanLiteral:
		return fmt.Sprintf("%s %t", n.NodeType(), n.Value)
	case *StringLiteral:
		return fmt.Sprintf("%s %q", n.NodeType(), n.Value)
	case *Identifier:
		return fmt.Sprintf("%s %s", n.NodeType(), n.Name)
	case *UnaryExpression:
		return fmt.Sprintf("%s %s", n.NodeType(), n.Operator)
	case *BinaryExpression:
		return fmt.Sprintf("%s %s", n.NodeType(), n.Operator)
	case *Line:
		var clauses []string
		if n.Weight != nil {
			clauses = append(clauses, "#"+n.Weight.Text)
		}
		if n.Defer != nil {
			clauses = append(clauses, "defer")
		}
		if n.Again != nil {
			clauses = append(clauses, "again")
		}
		number := "?"
		if n.Number != nil {
			number = n.Number.Text
		}
		if len(clauses) == 0 {
			return fmt.Sprintf("%s %s", n.NodeType(), number)
		}
		return fmt.Sprintf("%s %s [%s]", n.NodeType(), number, strings.Join(clauses, " "))
	default:
		return string(node.NodeType())
	}
}

// Children lists the direct child nodes in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}
	switch n := node.(type) {
	case *CompilationUnit:
		for _, line := range n.Lines {
			if line != nil {
				out = append(out, line)
			}
		}
	case *Line:
		if n.Defer != nil {
			add(n.Defer)
		}
		for _, stmt := range n.Statements {
			if stmt != nil {
				add(stmt)
			}
		}
		if n.Again != nil {
			add(n.Again)
		}
	case *ExpressionStatement:
		if n.Expression != nil {
			add(n.Expression)
		}
	case *AssignmentStatement:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Value != nil {
			add(n.Value)
		}
	case *UpdateLineCountStatement:
		if n.Line != nil {
			add(n.Line)
		}
		if n.Delta != nil {
			add(n.Delta)
		}
	case *UnaryExpression:
		if n.Operand != nil {
			add(n.Operand)
		}
	case *BinaryExpression:
		if n.Left != nil {
			add(n.Left)
		}
		if n.Right != nil {
			add(n.Right)
		}
	case *ParenthesizedExpression:
		if n.Expression != nil {
			add(n.Expression)
		}
	case *CallExpression:
		if n.Callee != nil {
			add(n.Callee)
		}
		for _, arg := range n.Arguments {
			if arg != nil {
				add(arg)
			}
		}
	}
	return out
}
