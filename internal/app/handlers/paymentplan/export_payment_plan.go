package paymentplan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookingsystem/internal/app/commands"
	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/policies"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
)

const exportPaymentPlanKey = "paymentplan.export"

var ErrExportDisabled = errors.New("paymentplan: export storage not configured")

// ExportPaymentPlanCommand writes a JSON snapshot of the rendered plan to
// object storage.
type ExportPaymentPlanCommand struct {
	BookingID       int64 `validate:"gt=0"`
	IdempotencyKeyV string
}

func (c ExportPaymentPlanCommand) Key() string { return exportPaymentPlanKey }

func (c ExportPaymentPlanCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ExportPaymentPlanCommand) ResultPrototype() any { return &ExportPaymentPlanResult{} }

type ExportPaymentPlanResult struct {
	BookingID int64  `json:"booking_id"`
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

type ExportPaymentPlanHandler struct {
	Planner  Planner
	Uploader policies.ExportUploader
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *ExportPaymentPlanHandler) Handle(ctx context.Context, cmd ExportPaymentPlanCommand) (*ExportPaymentPlanResult, error) {
	if h.Uploader == nil {
		return nil, ErrExportDisabled
	}
	unit, err := uow.Require(ctx)
	if err != nil {
		return nil, err
	}
	id := domainbooking.BookingID(cmd.BookingID)
	plan, err := h.Planner.Build(ctx, unit, id)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, err
	}

	key := ExportObjectKey(id, h.now())
	url, err := h.Uploader.Upload(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("paymentplan: upload export: %w", err)
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "payment plan exported", "booking_id", id.String(), "key", key, "bytes", len(body))
	}
	return &ExportPaymentPlanResult{BookingID: cmd.BookingID, ObjectKey: key, URL: url}, nil
}

func (h *ExportPaymentPlanHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// ExportObjectKey is payment-plans/<booking id>/<utc timestamp>.json.
func ExportObjectKey(id domainbooking.BookingID, at time.Time) string {
	return fmt.Sprintf("payment-plans/%s/%s.json", id.String(), at.UTC().Format("20060102T150405Z"))
}

var _ commands.Handler[ExportPaymentPlanCommand, *ExportPaymentPlanResult] = (*ExportPaymentPlanHandler)(nil)
var _ middleware.IdempotentCommand = (*ExportPaymentPlanCommand)(nil)
