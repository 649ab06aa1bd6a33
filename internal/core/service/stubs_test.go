package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory order repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Order
	seq       int
	createErr error
	// createGate, when set, holds Create until it is closed.
	createGate chan struct{}
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createGate != nil {
		<-r.createGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	o.ID = fmt.Sprintf("order-%d", r.seq)
	clone := *o
	r.byID[o.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) sorted(keep func(*domain.Order) bool) []*domain.Order {
	out := []*domain.Order{}
	for _, o := range r.byID {
		if keep(o) {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	return r.sorted(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	return r.sorted(func(*domain.Order) bool { return true }), nil
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, id string, paidAt time.Time) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.IsPaid {
		return nil, domain.ErrOrderAlreadyPaid
	}
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.Status = domain.StatusConfirmed
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.byID, id)
	return nil
}

// inWindow mirrors the Mongo filter: created_at >= From and, when set, <= To.
func inWindow(o *domain.Order, w ports.CreatedWindow) bool {
	if o.CreatedAt.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && o.CreatedAt.After(w.To) {
		return false
	}
	return true
}

func (r *stubOrderRepo) SumRevenue(_ context.Context, w ports.CreatedWindow) (int64, error) {
	var sum int64
	for _, o := range r.byID {
		if inWindow(o, w) {
			sum += o.Price
		}
	}
	return sum, nil
}

func (r *stubOrderRepo) Count(_ context.Context, w ports.CreatedWindow) (int64, error) {
	var n int64
	for _, o := range r.byID {
		if inWindow(o, w) {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) ListCreatedIn(_ context.Context, w ports.CreatedWindow) ([]*domain.Order, error) {
	return r.sorted(func(o *domain.Order) bool { return inWindow(o, w) }), nil
}

func (r *stubOrderRepo) GroupByStatus(_ context.Context, w ports.CreatedWindow) ([]ports.StatusBreakdown, error) {
	rows := map[string]*ports.StatusBreakdown{}
	for _, o := range r.byID {
		if !inWindow(o, w) {
			continue
		}
		row, ok := rows[string(o.Status)]
		if !ok {
			row = &ports.StatusBreakdown{Status: string(o.Status)}
			rows[string(o.Status)] = row
		}
		row.Count++
		row.TotalRevenue += o.Price
	}
	out := make([]ports.StatusBreakdown, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *stubOrderRepo) seed(o domain.Order) *domain.Order {
	r.seq++
	if o.ID == "" {
		o.ID = fmt.Sprintf("order-%d", r.seq)
	}
	r.byID[o.ID] = &o
	return &o
}

// ---------------------------------------------------------------------------
// Users, idempotency and notification stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	findErr error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = status
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubIdempotency stores "" for a pending claim.
type stubIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
	err  error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = ""
	return true, nil
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = orderID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []ports.NotificationJob
}

func (e *recordingEnqueuer) Enqueue(job ports.NotificationJob) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
}

type stubDocs struct {
	err error
}

func (d *stubDocs) TrackingQR(orderID string) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	return []byte("qr:" + orderID), nil
}

func (d *stubDocs) InvoicePDF(o *domain.Order) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	return []byte("%PDF-" + o.ID), nil
}

// fixedClock returns a clock pinned to the given UTC+7 wall time.
func fixedClock(y int, m time.Month, d, hh, mm int) func() time.Time {
	at := time.Date(y, m, d, hh, mm, 0, 0, time.UTC).Add(-7 * time.Hour)
	return func() time.Time { return at }
}
