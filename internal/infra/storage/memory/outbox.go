package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "bookingsystem/internal/app/outbox"
	infraoutbox "bookingsystem/internal/infra/outbox"
)

// OutboxStore keeps committed event records until the relay marks them sent.
type OutboxStore struct {
	mu      sync.Mutex
	entries []*outboxEntry
	now     func() time.Time
}

type outboxEntry struct {
	msg       infraoutbox.Message
	state     string
	nextTry   time.Time
	lastError string
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{now: time.Now}
}

func (s *OutboxStore) append(records []appoutbox.EventRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.entries = append(s.entries, &outboxEntry{msg: infraoutbox.MessageFromRecord(rec), state: infraoutbox.StateNew})
	}
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, e := range s.entries {
		if (e.state == infraoutbox.StateNew || e.state == infraoutbox.StateFailed) && !e.nextTry.After(now) {
			e.state = infraoutbox.StateClaimed
			msg := e.msg
			return &msg, nil
		}
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.find(id); e != nil {
		e.state = infraoutbox.StateSent
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.find(id); e != nil {
		e.state = infraoutbox.StateFailed
		e.nextTry = next
		e.lastError = errMsg
		e.msg.Attempts++
	}
	return nil
}

// Pending lists the names of records not yet sent.
func (s *OutboxStore) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, e := range s.entries {
		if e.state != infraoutbox.StateSent {
			names = append(names, e.msg.Name)
		}
	}
	return names
}

func (s *OutboxStore) find(id string) *outboxEntry {
	for _, e := range s.entries {
		if e.msg.ID == id {
			return e
		}
	}
	return nil
}

// stagedOutbox buffers records for a unit until it commits.
type stagedOutbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func (o *stagedOutbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *stagedOutbox) take() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.records
	o.records = nil
	return out
}

var (
	_ infraoutbox.Store = (*OutboxStore)(nil)
	_ appoutbox.Outbox  = (*stagedOutbox)(nil)
)
