package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. The API sends decimals either as JSON numbers
// or as strings ("12.50").
type Money int64

func ParseMoney(value string) (Money, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return Money(math.Round(f * 100)), nil
}

func (m Money) Times(n int) Money {
	return m * Money(n)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = 0
		return nil
	}
	parsed, err := ParseMoney(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
