package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is returned when an upstream numeric field cannot be normalized
var ErrParse = errors.New("malformed number")

var plainDecimal = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ParseDecimal converts an upstream numeric string to float64.
// Both "1000.50" and "1000,50" are accepted; when a value carries both
// separators ("1.234,56") the dot is read as a thousands separator.
func ParseDecimal(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, fmt.Errorf("%w: empty value", ErrParse)
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	if !plainDecimal.MatchString(v) {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return f, nil
}

// Amount is a required numeric field that may arrive as a JSON number or
// as a decimal-comma string
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return fmt.Errorf("%w: null value", ErrParse)
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
		f, err := ParseDecimal(s)
		if err != nil {
			return err
		}
		*a = Amount(f)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrParse, raw)
	}
	*a = Amount(f)
	return nil
}

// Text is a pass-through upstream field. Whatever JSON scalar the API sends
// is kept as its textual form; null becomes the empty string.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*t = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(raw)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}
