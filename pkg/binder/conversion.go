package binder

import (
	"strings"

	"wsharp/interpreter-go/pkg/symbols"
)

// ConversionFlags classifies how a value of one type may be used as another.
type ConversionFlags uint8

const (
	ConversionExists ConversionFlags = 1 << iota
	ConversionIsIdentity
	ConversionIsImplicit

	ConversionNone ConversionFlags = 0
)

func (f ConversionFlags) Exists() bool     { return f&ConversionExists != 0 }
func (f ConversionFlags) IsIdentity() bool { return f&ConversionIsIdentity != 0 }
func (f ConversionFlags) IsImplicit() bool { return f&ConversionIsImplicit != 0 }

// AllowedImplicitly reports whether the conversion may happen without
// explicit syntax. A type is always usable where the same type is expected.
func (f ConversionFlags) AllowedImplicitly() bool {
	return f.IsIdentity() || f.IsImplicit()
}

func (f ConversionFlags) String() string {
	if f == ConversionNone {
		return "None"
	}
	var parts []string
	if f.Exists() {
		parts = append(parts, "Exists")
	}
	if f.IsIdentity() {
		parts = append(parts, "IsIdentity")
	}
	if f.IsImplicit() {
		parts = append(parts, "IsImplicit")
	}
	return strings.Join(parts, "|")
}

// explicitConversions lists the conversions that require `Type(expr)` syntax.
var explicitConversions = map[[2]*symbols.TypeSymbol]bool{
	{symbols.Integer, symbols.String}: true,
	{symbols.Boolean, symbols.String}: true,
	{symbols.String, symbols.Integer}: true,
	{symbols.String, symbols.Boolean}: true,
}

// Classify determines the conversion from one type to another. It is total:
// every pair of types maps to exactly one flag set.
func Classify(from, to *symbols.TypeSymbol) ConversionFlags {
	switch {
	case from == to:
		return ConversionExists | ConversionIsIdentity
	case from == symbols.Error || to == symbols.Error:
		return ConversionExists | ConversionIsImplicit
	case explicitConversions[[2]*symbols.TypeSymbol{from, to}]:
		return ConversionExists
	default:
		return ConversionNone
	}
}
