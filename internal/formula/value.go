package formula

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a formula-valued magnitude: either a literal number or an
// arithmetic expression string over the variable vocabulary. On the wire it
// serializes as a bare JSON number or a JSON string. Values are immutable.
type Value struct {
	num   float64
	expr  string
	isNum bool
}

// Number wraps a literal number.
func Number(n float64) Value {
	return Value{num: n, isNum: true}
}

// Expression wraps an expression string. The string is not validated here;
// use Validate for authoring-side checks.
func Expression(expr string) Value {
	return Value{expr: expr}
}

// IsNumber reports whether the value is a literal number.
func (v Value) IsNumber() bool { return v.isNum }

// Number returns the literal, or 0 for expression values.
func (v Value) Number() float64 {
	if !v.isNum {
		return 0
	}
	return v.num
}

// Expr returns the expression string, or "" for literal values.
func (v Value) Expr() string {
	if v.isNum {
		return ""
	}
	return v.expr
}

// String renders the value the way an author wrote it.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.expr
}

// MarshalJSON writes literals as JSON numbers and expressions as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.expr)
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Value{num: n, isNum: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{expr: s}
		return nil
	}
	return fmt.Errorf("formula value must be a number or an expression string, got %s", data)
}
