package paymentplan

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCadence = errors.New("paymentplan: unknown billing cadence")

// Cadence is the billing periodicity a stay is split by.
type Cadence string

const (
	Weekly      Cadence = "weekly"
	Fortnightly Cadence = "fortnightly"
	Monthly     Cadence = "monthly"
	Full        Cadence = "full"
)

// ParseCadence normalizes user and stored values. The stored enum spells
// "fortnighly" and "Monthly"; both are accepted. Blank means monthly.
func ParseCadence(value string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "monthly", "monthly_calendar":
		return Monthly, nil
	case "weekly":
		return Weekly, nil
	case "fortnightly", "fortnighly":
		return Fortnightly, nil
	case "full":
		return Full, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCadence, value)
	}
}

func (c Cadence) Valid() bool {
	switch c {
	case Weekly, Fortnightly, Monthly, Full:
		return true
	}
	return false
}

// StorageValue is the value of the payment_plan column.
func (c Cadence) StorageValue() string {
	switch c {
	case Fortnightly:
		return "fortnighly"
	case Monthly:
		return "Monthly"
	default:
		return string(c)
	}
}

func (c Cadence) String() string { return string(c) }
