package holidays

import (
	"context"
	"log/slog"
	"time"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/dto"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/uow"
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/events"
)

const SyncHolidaysKey = "holidays.sync"

// SyncHolidaysCommand replaces the holiday calendar with the submitted dates.
type SyncHolidaysCommand struct {
	Dates []string `validate:"max=5000,dive,max=32"`
}

func (c SyncHolidaysCommand) Key() string { return SyncHolidaysKey }

type SyncHolidaysHandler struct {
	Calendar Calendar
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *SyncHolidaysHandler) Handle(ctx context.Context, cmd SyncHolidaysCommand) (dto.HolidaySyncResult, error) {
	unit, err := uow.Require(ctx)
	if err != nil {
		return dto.HolidaySyncResult{}, err
	}
	repo := unit.Holidays()

	stored, err := repo.AllDates(ctx)
	if err != nil {
		return dto.HolidaySyncResult{}, err
	}
	plan := domainholiday.PlanSync(stored, cmd.Dates)
	if plan.Empty() {
		return dto.HolidaySyncFromDomain(domainholiday.NewSyncResult(0, 0, plan.Invalid)), nil
	}

	deleted, inserted := 0, 0
	if len(plan.ToDelete) > 0 {
		if deleted, err = repo.DeleteBatch(ctx, plan.ToDelete); err != nil {
			return dto.HolidaySyncResult{}, err
		}
	}
	now := h.now()
	if len(plan.ToInsert) > 0 {
		if inserted, err = repo.InsertBatch(ctx, plan.Records(now)); err != nil {
			return dto.HolidaySyncResult{}, err
		}
	}

	result := domainholiday.NewSyncResult(inserted, deleted, plan.Invalid)
	if inserted > 0 || deleted > 0 {
		ev := domainholiday.Synced{Inserted: inserted, Deleted: deleted, At: now}
		if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, []events.DomainEvent{ev}); err != nil {
			return dto.HolidaySyncResult{}, err
		}
		cal := h.Calendar
		_ = uow.AfterCommit(ctx, func(ctx context.Context) error {
			cal.Invalidate(ctx)
			return nil
		})
	}
	h.logger().InfoContext(ctx, "holidays synced", "inserted", inserted, "deleted", deleted, "invalid", len(plan.Invalid))
	return dto.HolidaySyncFromDomain(result), nil
}

func (h *SyncHolidaysHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *SyncHolidaysHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[SyncHolidaysCommand, dto.HolidaySyncResult] = (*SyncHolidaysHandler)(nil)
