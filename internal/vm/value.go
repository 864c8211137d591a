package vm

import "strconv"

// ValueKind discriminates the two runtime value types.
type ValueKind byte

const (
	KindNum ValueKind = iota
	KindStr
)

// Value is a runtime value: an f64 number or a string. There is no nil
// value; every slot on the operand stack holds one of the two kinds.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

func NumVal(n float64) Value { return Value{Kind: KindNum, Num: n} }
func StrVal(s string) Value  { return Value{Kind: KindStr, Str: s} }

func (v Value) IsNum() bool { return v.Kind == KindNum }
func (v Value) IsStr() bool { return v.Kind == KindStr }

// TypeName returns the name used in type-mismatch diagnostics.
func (v Value) TypeName() string {
	if v.Kind == KindStr {
		return "string"
	}
	return "number"
}

// Inspect renders the value the way the write instruction prints it:
// numbers in plain decimal with no exponent and no trailing zeros,
// strings as their raw text.
func (v Value) Inspect() string {
	if v.Kind == KindStr {
		return v.Str
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}
