package genesis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when an amount string can't be converted
// into atomic units.
var ErrInvalidAmount = errors.New("invalid amount")

// FormatUnits renders an atomic unit amount as main units with every
// decimal place shown, e.g. 150000000 with 8 decimals is "1.50000000".
func (g Genesis) FormatUnits(atomic uint64) string {
	if g.Decimals == 0 {
		return strconv.FormatUint(atomic, 10)
	}

	units := g.UnitsPerMainUnit()
	return fmt.Sprintf("%d.%0*d", atomic/units, int(g.Decimals), atomic%units)
}

// ParseUnits converts a main unit amount into atomic units. Either ',' or
// '.' is accepted as the decimal separator. Negative amounts and amounts
// with more fraction digits than the ledger's decimals are rejected.
func (g Genesis) ParseUnits(amount string) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("%w: amount cannot be empty", ErrInvalidAmount)
	}

	amount = strings.ReplaceAll(amount, ",", ".")

	switch amount[0] {
	case '-':
		return 0, fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	case '+':
		amount = amount[1:]
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if (whole == "" && frac == "") || !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: invalid number format %q", ErrInvalidAmount, amount)
	}

	if len(frac) > int(g.Decimals) {
		return 0, fmt.Errorf("%w: too many decimal places, max allowed %d", ErrInvalidAmount, g.Decimals)
	}

	var w uint64
	if whole != "" {
		var err error
		if w, err = strconv.ParseUint(whole, 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, amount)
		}
	}

	units := g.UnitsPerMainUnit()
	if w > math.MaxUint64/units {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, amount)
	}
	atomic := w * units

	if frac != "" {
		f, err := strconv.ParseUint(frac+strings.Repeat("0", int(g.Decimals)-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid number format %q", ErrInvalidAmount, amount)
		}
		if atomic > math.MaxUint64-f {
			return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, amount)
		}
		atomic += f
	}

	return atomic, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
