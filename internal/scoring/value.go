package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindStrings
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindStrings:
		return "string list"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var errUnsupportedValue = errors.New("answer must be a string, number, boolean, or array of strings")

// Value is a raw answer (or correct answer) as supplied over the wire:
// a string, a list of strings, a number or a boolean. The zero Value is null.
type Value struct {
	kind    Kind
	str     string
	strs    []string
	num     float64
	boolean bool
}

func Null() Value                { return Value{} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Number(n float64) Value     { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value          { return Value{kind: KindBool, boolean: b} }
func Strings(ss ...string) Value { return Value{kind: KindStrings, strs: append([]string{}, ss...)} }

func (v Value) Kind() Kind { return v.kind }

// IsBlank reports whether the value counts as "not answered": null or an empty string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "")
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsStrings() ([]string, bool) {
	return v.strs, v.kind == KindStrings
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}

	switch data[0] {
	case 'n':
		if string(data) != "null" {
			return errUnsupportedValue
		}
		*v = Null()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return errUnsupportedValue
		}
		if ss == nil {
			ss = []string{}
		}
		*v = Value{kind: KindStrings, strs: ss}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return errUnsupportedValue
		}
		*v = Number(n)
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindStrings:
		return fmt.Sprintf("%q", v.strs)
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.boolean)
	default:
		return "null"
	}
}
