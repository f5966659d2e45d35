package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a whole-shilling monetary value. The fee service is not consistent
// about number encoding so decoding accepts integers, floats, numeric strings and null.
// Negative, non-finite and out-of-range values are rejected.
type Amount int64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = 0
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0
			return nil
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return fmt.Errorf("negative amount %q", raw)
		}
		*a = Amount(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid amount %q", raw)
	}
	rounded := math.Round(f)
	if rounded < 0 {
		return fmt.Errorf("negative amount %q", raw)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is itself out of range.
	if rounded >= float64(math.MaxInt64) {
		return fmt.Errorf("amount out of range %q", raw)
	}
	*a = Amount(rounded)
	return nil
}

// Int64 returns the raw value.
func (a Amount) Int64() int64 {
	return int64(a)
}

// String renders the amount without currency.
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}
