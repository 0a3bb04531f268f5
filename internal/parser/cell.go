package parser

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which variant a Cell holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Cell is a single parsed value: null, number, string or bool.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

// Null is the absent value used for missing trailing fields and empty tokens.
var Null = Cell{}

func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }
func String(s string) Cell  { return Cell{Kind: KindString, Str: s} }
func Bool(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }

// floatToken matches tokens that are unambiguously numeric. Leading '+', hex,
// "Inf" and "NaN" are left as strings.
var floatToken = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// Coerce converts a raw text token into a typed cell. It never fails: anything
// that is not a recognizable number or boolean stays a string.
func Coerce(raw string) Cell {
	switch raw {
	case "":
		return Null
	case "true", "TRUE":
		return Bool(true)
	case "false", "FALSE":
		return Bool(false)
	}
	if floatToken.MatchString(raw) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return Number(f)
		}
	}
	return String(raw)
}

// IsNull reports whether the cell is absent.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// Float64 projects the cell onto a finite number. Strings are given a second
// chance through strconv so values like "+5" still count; null, bool and
// non-finite values do not.
func (c Cell) Float64() (float64, bool) {
	var f float64
	switch c.Kind {
	case KindNumber:
		f = c.Num
	case KindString:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String renders the cell as CSV field text. Null renders as "".
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindString:
		return c.Str
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as its natural JSON value.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.Num)
	case KindString:
		return json.Marshal(c.Str)
	case KindBool:
		return json.Marshal(c.Bool)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON scalar.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*c = Null
	case float64:
		*c = Number(x)
	case bool:
		*c = Bool(x)
	case string:
		*c = String(x)
	default:
		*c = String(string(b))
	}
	return nil
}
