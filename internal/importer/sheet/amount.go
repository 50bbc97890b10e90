package sheet

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmpty = errors.New("empty cell")

// ParseMoney parses an amount of euros into cents. Both the European
// ("1.234,56") and the plain ("1234.56") notation are accepted, with an
// optional euro sign.
func ParseMoney(s string) (int64, error) {
	clean := strings.TrimSpace(strings.NewReplacer("€", "", "EUR", "", " ", "", " ", "").Replace(s))
	if clean == "" {
		return 0, errEmpty
	}

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// ParseCount parses a whole number of items.
func ParseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}

	return strconv.ParseInt(s, 10, 64)
}

// ParseFlag reads the yes/no cells office users type. Empty cells are false.
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "no", "nein", "false", "n":
		return false, nil
	case "1", "yes", "ja", "true", "y", "j", "x":
		return true, nil
	}

	return false, strconv.ErrSyntax
}
