// Package core holds the transaction model shared by the store, the
// statistics engine and the HTTP layer.
//
// This file contains the amount type. Amounts are kept exactly as they were
// supplied and coerced to a float each time they are aggregated, so a bad
// value never turns into an error further down the line.
package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a raw currency amount. The zero value reads as 0.
type Amount string

// MaxAmount is the largest magnitude read as a number. Larger values coerce
// to 0 like any other non-numeric text, which keeps every sum finite.
const MaxAmount = 1e15

// AmountOf builds an Amount from a float.
func AmountOf(v float64) Amount {
	return Amount(strconv.FormatFloat(v, 'f', -1, 64))
}

// Parse reports the numeric value and whether the raw text was numeric.
// Blank text parses as 0, the way a form field left empty does. Only
// decimal notation counts; hex floats are not numbers here.
func (a Amount) Parse() (float64, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, true
	}
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > MaxAmount {
		return 0, false
	}
	return v, true
}

// Float coerces the amount, mapping anything non-numeric to 0.
func (a Amount) Float() float64 {
	v, _ := a.Parse()
	return v
}

// MarshalJSON writes numeric amounts as JSON numbers and keeps anything
// else as the original string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if v, ok := a.Parse(); ok && strings.TrimSpace(string(a)) != "" {
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON accepts numbers, strings, booleans and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case bytes.Equal(data, []byte("true")):
		*a = "1"
	case bytes.Equal(data, []byte("false")):
		*a = "0"
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		// Objects and arrays are kept verbatim and coerce to 0.
		*a = Amount(data)
	}
	return nil
}
