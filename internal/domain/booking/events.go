package booking

import (
	"time"

	"bookingsystem/internal/domain/shared/civil"
)

type BookingCreated struct {
	BookingID  BookingID
	CheckIn    civil.Date
	CheckOut   civil.Date
	Properties int
	At         time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return e.BookingID.String() }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingUpdated struct {
	BookingID  BookingID
	CheckIn    civil.Date
	CheckOut   civil.Date
	Properties int
	Cancelled  bool
	At         time.Time
}

func (e BookingUpdated) EventName() string     { return "booking.updated" }
func (e BookingUpdated) AggregateID() string   { return e.BookingID.String() }
func (e BookingUpdated) OccurredAt() time.Time { return e.At }

type BookingDeleted struct {
	BookingID BookingID
	At        time.Time
}

func (e BookingDeleted) EventName() string     { return "booking.deleted" }
func (e BookingDeleted) AggregateID() string   { return e.BookingID.String() }
func (e BookingDeleted) OccurredAt() time.Time { return e.At }
