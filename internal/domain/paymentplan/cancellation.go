package paymentplan

import (
	"github.com/shopspring/decimal"

	"bookingsystem/internal/domain/shared/civil"
)

// Property is the calculator's view of a booked property.
type Property struct {
	Title       string
	NightPrice  decimal.Decimal
	Deposit     decimal.Decimal
	IsCancelled bool
	// NotifyDay is the contractual notice, in days, owed to the host.
	NotifyDay int
	// OwnCheckout is an early checkout of this property alone.
	OwnCheckout civil.NullDate
}

// Cancellation holds the booking-wide cancellation dates.
type Cancellation struct {
	NotificationDate civil.NullDate
	CancellationDate civil.NullDate
}

func (c Cancellation) Exists() bool { return c.CancellationDate.Valid }

// EffectiveCancelEnd returns the day a cancelled property stops accruing
// nights. The cancellation date, or the property's own earlier checkout, is
// pushed forward by the part of the notify window the guest failed to give.
func EffectiveCancelEnd(p Property, c Cancellation) civil.NullDate {
	if !p.IsCancelled || !c.CancellationDate.Valid {
		return civil.NullDate{}
	}

	base := c.CancellationDate.Date
	if p.OwnCheckout.Valid && p.OwnCheckout.Date.Before(base) {
		base = p.OwnCheckout.Date
	}

	notice := 0
	if c.NotificationDate.Valid {
		notice = max(0, civil.DaysBetween(c.NotificationDate.Date, base))
	}

	adjust := 0
	if p.NotifyDay > 0 {
		adjust = max(0, p.NotifyDay-notice)
	}
	return civil.Some(base.AddDays(adjust))
}
