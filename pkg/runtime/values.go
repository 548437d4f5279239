package runtime

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"wsharp/interpreter-go/pkg/symbols"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBool
	KindString
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

type IntegerValue struct {
	Val *big.Int
}

func (v IntegerValue) Kind() Kind     { return KindInteger }
func (v IntegerValue) String() string { return v.Val.String() }

// NewInteger wraps x without copying it. Integer values are never mutated
// after construction.
func NewInteger(x *big.Int) IntegerValue { return IntegerValue{Val: x} }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }
func (v BoolValue) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind     { return KindString }
func (v StringValue) String() string { return v.Val }

type VoidValue struct{}

func (VoidValue) Kind() Kind     { return KindVoid }
func (VoidValue) String() string { return "" }

// ZeroValue returns the initial value of a global of the given type.
func ZeroValue(typ *symbols.TypeSymbol) (Value, error) {
	switch typ {
	case symbols.Integer:
		return NewInteger(new(big.Int)), nil
	case symbols.Boolean:
		return BoolValue{}, nil
	case symbols.String:
		return StringValue{}, nil
	default:
		return nil, fmt.Errorf("runtime: type %s has no zero value", typ)
	}
}

// Convert performs an explicit conversion. Parsing conversions fail on
// malformed text.
func Convert(v Value, to *symbols.TypeSymbol) (Value, error) {
	switch to {
	case symbols.String:
		switch v.(type) {
		case IntegerValue, BoolValue, StringValue:
			return StringValue{Val: v.String()}, nil
		}
	case symbols.Integer:
		switch v := v.(type) {
		case IntegerValue:
			return v, nil
		case StringValue:
			n, ok := new(big.Int).SetString(strings.TrimSpace(v.Val), 10)
			if !ok {
				return nil, fmt.Errorf("runtime: cannot convert %q to Integer", v.Val)
			}
			return NewInteger(n), nil
		}
	case symbols.Boolean:
		switch v := v.(type) {
		case BoolValue:
			return v, nil
		case StringValue:
			switch strings.TrimSpace(v.Val) {
			case "true":
				return BoolValue{Val: true}, nil
			case "false":
				return BoolValue{Val: false}, nil
			}
			return nil, fmt.Errorf("runtime: cannot convert %q to Boolean", v.Val)
		}
	}
	return nil, fmt.Errorf("runtime: no conversion from %s to %s", v.Kind(), to)
}

// CodePoint renders a Unicode code point as a one-character string.
func CodePoint(codePoint *big.Int) (string, error) {
	if codePoint == nil || !codePoint.IsInt64() {
		return "", fmt.Errorf("runtime: code point %s is out of range", codePoint)
	}
	r, err := safecast.Conv[rune](codePoint.Int64())
	if err != nil {
		return "", fmt.Errorf("runtime: code point %s is out of range: %w", codePoint, err)
	}
	if !utf8.ValidRune(r) {
		return "", fmt.Errorf("runtime: code point %s is not a valid character", codePoint)
	}
	return string(r), nil
}
