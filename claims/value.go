package claims

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/amirrezaask/claimcache/errors"
)

// Value is one cell of a claim row: an exact decimal amount, a yes/no flag, or nothing.
// Amounts keep their decimal text so they survive encoding without float rounding.
type Value struct {
	Amount json.Number
	Flag   *bool
}

func IntAmount(n int64) Value {
	return Value{Amount: json.Number(strconv.FormatInt(n, 10))}
}

func FloatAmount(f float64) Value {
	return Value{Amount: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// DecimalAmount parses s as a plain decimal, e.g. "1250.75".
func DecimalAmount(s string) (Value, error) {
	if !isDecimal([]byte(s)) {
		return Value{}, errors.InvalidArgument("'%s' is not a decimal amount", s)
	}
	return Value{Amount: json.Number(s)}, nil
}

func Flag(b bool) Value {
	return Value{Flag: &b}
}

func (v Value) IsEmpty() bool { return v.Amount == "" && v.Flag == nil }

func (v Value) String() string {
	switch {
	case v.Flag != nil:
		return strconv.FormatBool(*v.Flag)
	case v.Amount != "":
		return string(v.Amount)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Flag != nil:
		return []byte(strconv.FormatBool(*v.Flag)), nil
	case v.Amount != "":
		if !isDecimal([]byte(v.Amount)) {
			return nil, errors.Newf("'%s' is not a decimal amount", v.Amount)
		}
		return []byte(v.Amount), nil
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*v = Value{}
	case "true", "false":
		*v = Flag(string(data) == "true")
	default:
		if !isDecimal(data) {
			return errors.Newf("claim value must be a number, boolean or null, have %s", data)
		}
		*v = Value{Amount: json.Number(data)}
	}
	return nil
}

// isDecimal accepts -?digits(.digits)? with no exponent.
func isDecimal(s []byte) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	intPart, frac, hasFrac := bytes.Cut(s, []byte("."))
	if !allDigits(intPart) {
		return false
	}
	return !hasFrac || allDigits(frac)
}

func allDigits(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
