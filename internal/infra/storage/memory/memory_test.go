package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsystem/internal/app/middleware"
	"bookingsystem/internal/app/outbox"
	"bookingsystem/internal/app/uow"
	domainbooking "bookingsystem/internal/domain/booking"
	domainholiday "bookingsystem/internal/domain/holiday"
	"bookingsystem/internal/domain/shared/civil"
	"bookingsystem/internal/domain/shared/daterange"
	infraoutbox "bookingsystem/internal/infra/outbox"
	"bookingsystem/internal/infra/storage/memory"
)

func stay(in, out string) domainbooking.Stay {
	return domainbooking.Stay{Range: daterange.DateRange{CheckIn: civil.MustParseDate(in), CheckOut: civil.MustParseDate(out)}}
}

func TestBookingRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBookingRepository()

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	b := domainbooking.New(id, domainbooking.Details{
		Stay:       stay("2024-02-01", "2024-02-10"),
		Properties: []domainbooking.Property{{Title: "Loft"}, {Title: "Barn"}},
	}, time.Now())
	require.NoError(t, repo.Save(ctx, b))
	assert.NotZero(t, b.Properties[0].ID)
	assert.NotEqual(t, b.Properties[0].ID, b.Properties[1].ID)

	got, err := repo.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Loft", got.Properties[0].Title)

	got.Properties[0].Title = "changed"
	again, err := repo.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Loft", again.Properties[0].Title)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.ByID(ctx, id)
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), domainbooking.ErrBookingNotFound)
}

func TestBookingRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBookingRepository()
	for _, in := range []string{"2024-01-01", "2024-03-01", "2024-03-01"} {
		id, _ := repo.NextID(ctx)
		require.NoError(t, repo.Save(ctx, domainbooking.New(id, domainbooking.Details{Stay: stay(in, "2024-04-01")}, time.Now())))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domainbooking.BookingID(3), list[0].ID)
	assert.Equal(t, domainbooking.BookingID(2), list[1].ID)
	assert.Equal(t, domainbooking.BookingID(1), list[2].ID)
}

func TestHolidayRepositoryBatches(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewHolidayRepository()
	now := time.Now()

	n, err := repo.InsertBatch(ctx, []domainholiday.Holiday{
		{Date: civil.MustParseDate("2024-12-25"), CreatedAt: now},
		{Date: civil.MustParseDate("2024-01-01"), CreatedAt: now},
		{Date: civil.MustParseDate("2024-01-01"), CreatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.AllDates(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-01-01", all[0].String())

	between, err := repo.Between(ctx, civil.MustParseDate("2024-01-01"), civil.MustParseDate("2024-12-25"))
	require.NoError(t, err)
	require.Len(t, between, 1)

	n, err = repo.DeleteBatch(ctx, []civil.Date{civil.MustParseDate("2024-12-25"), civil.MustParseDate("2030-01-01")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnitStagesOutboxUntilCommit(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()

	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Outbox().Add(ctx, outbox.EventRecord{ID: "1", Name: "booking.created", Payload: []byte(`{}`)}))
	require.NoError(t, unit.Rollback(ctx))
	assert.Empty(t, factory.OutboxStore.Pending())

	unit, err = factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Outbox().Add(ctx, outbox.EventRecord{ID: "2", Name: "booking.updated", Payload: []byte(`{}`)}))
	require.NoError(t, unit.Commit(ctx))
	assert.Equal(t, []string{"booking.updated"}, factory.OutboxStore.Pending())
}

type recordingProducer struct {
	topics []string
	fail   bool
}

func (p *recordingProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func TestWorkerRelaysCommittedRecords(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Outbox().Add(ctx, outbox.EventRecord{ID: "a", Name: "booking.created", Aggregate: "1", Payload: []byte(`{"booking_id":1}`)}))
	require.NoError(t, unit.Outbox().Add(ctx, outbox.EventRecord{ID: "b", Name: "holiday.synced", Aggregate: "holidays", Payload: []byte(`{}`)}))
	require.NoError(t, unit.Commit(ctx))

	failing := &recordingProducer{fail: true}
	worker := infraoutbox.NewWorker(factory.OutboxStore, failing)
	worker.Backoff = []time.Duration{0}
	sent, err := worker.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, factory.OutboxStore.Pending(), 2)

	producer := &recordingProducer{}
	worker = infraoutbox.NewWorker(factory.OutboxStore, producer)
	worker.TopicPrefix = "dev."
	sent, err = worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"dev.booking.events.v1", "dev.holiday.events.v1"}, producer.topics)
	assert.Empty(t, factory.OutboxStore.Pending())
}

func TestPaidPeriodStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPaidPeriodStore()
	require.NoError(t, store.Replace(ctx, 7, []int{0, 2}))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	require.NoError(t, store.Replace(ctx, 7, nil))
	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInboxStoreSeen(t *testing.T) {
	ctx := context.Background()
	inbox := memory.NewInboxStore()
	seen, err := inbox.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = inbox.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestWorkerWithLogProducerDrainsOutbox(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Outbox().Add(ctx, outbox.EventRecord{ID: "e1", Name: "holiday.synced", Payload: []byte(`{}`)}))
	require.NoError(t, unit.Commit(ctx))

	worker := infraoutbox.NewWorker(factory.OutboxStore, infraoutbox.LogProducer{})
	sent, err := worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, factory.OutboxStore.Pending())
}

func TestIdempotencyStoreExpiresRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIdempotencyStore(time.Hour)

	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "old", Command: "booking.create", OccurredAt: time.Now().Add(-2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "fresh", Command: "booking.create", Payload: []byte(`{"booking_id":1}`)}))

	_, found, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, found)

	rec, found, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, rec.OccurredAt.IsZero())
	assert.JSONEq(t, `{"booking_id":1}`, string(rec.Payload))
}
