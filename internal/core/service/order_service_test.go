package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
	redisdb "github.com/vanchuyen/logistics-api/internal/infrastructure/db/redis"
)

type orderFixture struct {
	svc   *OrderService
	repo  *stubOrderRepo
	users *stubUserRepo
	idem  *stubIdempotency
	queue *recordingEnqueuer
	docs  *stubDocs
}

func newOrderFixture(clock func() time.Time) *orderFixture {
	f := &orderFixture{
		repo:  newStubOrderRepo(),
		users: newStubUserRepo(&domain.User{ID: "u1", Email: "an@example.com"}, &domain.User{ID: "u2"}),
		idem:  newStubIdempotency(),
		queue: &recordingEnqueuer{},
		docs:  &stubDocs{},
	}
	f.svc = NewOrderService(f.repo, f.users, f.idem, f.queue, f.docs, discardLogger)
	if clock != nil {
		f.svc.now = clock
	}
	return f
}

func validCreateInput() ports.CreateOrderInput {
	return ports.CreateOrderInput{
		UserID:          "u1",
		SenderName:      "Nguyen Van A",
		ReceiverName:    "Tran Thi B",
		PickupAddress:   "1 Le Loi, Q1",
		DeliveryAddress: "2 Hai Ba Trung, Q3",
		PackageType:     "furniture",
		Price:           300000,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderService_Create_DaytimeKeepsDeclaredPrice(t *testing.T) {
	f := newOrderFixture(fixedClock(2024, time.March, 10, 14, 0))

	res, err := f.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("expected a fresh order")
	}
	if res.Order.Price != 300000 {
		t.Errorf("expected price 300000, got %d", res.Order.Price)
	}
	if res.Order.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", res.Order.Status)
	}
	if res.Order.PaymentMethod != domain.DefaultPaymentMethod {
		t.Errorf("expected payment method %q, got %q", domain.DefaultPaymentMethod, res.Order.PaymentMethod)
	}
	if res.Order.IsPaid {
		t.Error("new order must not be paid")
	}
}

func TestOrderService_Create_NocturnalSurchargeOnDeclaredPrice(t *testing.T) {
	f := newOrderFixture(fixedClock(2024, time.March, 10, 23, 30))

	res, err := f.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Price != 360000 {
		t.Errorf("expected 300000*1.2 = 360000, got %d", res.Order.Price)
	}
}

func TestOrderService_Create_DeclaredPriceIsNotRecomputed(t *testing.T) {
	f := newOrderFixture(fixedClock(2024, time.March, 10, 9, 0))
	in := validCreateInput()
	in.Price = 1000
	in.Floors = 5
	workers := 3
	in.Workers = &workers

	res, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quote := pricing.Estimate(pricing.QuoteInput{Floors: 5, Workers: 3}, f.svc.now())
	if res.Order.Price != 1000 {
		t.Errorf("expected declared 1000 to be kept, got %d", res.Order.Price)
	}
	if quote.TotalPrice == res.Order.Price {
		t.Error("estimate and stored price are expected to diverge for this input")
	}
}

func TestOrderService_Create_DefaultsMissingWeightAndWorkers(t *testing.T) {
	f := newOrderFixture(nil)

	res, err := f.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.WeightKg != 1 {
		t.Errorf("expected weight 1, got %v", res.Order.WeightKg)
	}
	if res.Order.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", res.Order.Workers)
	}
}

func TestOrderService_Create_KeepsExplicitZeros(t *testing.T) {
	f := newOrderFixture(nil)
	in := validCreateInput()
	weight, workers := 0.0, 0
	in.WeightKg, in.Workers = &weight, &workers

	res, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.WeightKg != 0 || res.Order.Workers != 0 {
		t.Errorf("expected explicit zeros to be kept, got weight=%v workers=%d", res.Order.WeightKg, res.Order.Workers)
	}
}

func TestOrderService_Create_EnqueuesInvoice(t *testing.T) {
	f := newOrderFixture(nil)

	res, err := f.svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.queue.jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(f.queue.jobs))
	}
	job := f.queue.jobs[0]
	if job.Kind != ports.NotifyInvoice || job.OrderID != res.Order.ID {
		t.Errorf("unexpected job %+v", job)
	}
}

func TestOrderService_Create_RepoError(t *testing.T) {
	f := newOrderFixture(nil)
	f.repo.createErr = errors.New("mongo down")

	_, err := f.svc.Create(context.Background(), validCreateInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.queue.jobs) != 0 {
		t.Error("no notification expected on failure")
	}
}

func TestOrderService_Create_IdempotencyReplay(t *testing.T) {
	f := newOrderFixture(nil)
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	first, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExisted {
		t.Error("expected replay")
	}
	if second.Order.ID != first.Order.ID {
		t.Errorf("expected %s, got %s", first.Order.ID, second.Order.ID)
	}
	if len(f.repo.byID) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(f.repo.byID))
	}
	if len(f.queue.jobs) != 1 {
		t.Errorf("replay must not notify again, got %d jobs", len(f.queue.jobs))
	}
}

func TestOrderService_Create_IdempotencyStoreDown_CreatesAnyway(t *testing.T) {
	f := newOrderFixture(nil)
	f.idem.err = errors.New("redis down")
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	res, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("expected a fresh order")
	}
}

// ---------------------------------------------------------------------------
// Estimate
// ---------------------------------------------------------------------------

func TestOrderService_Estimate_UsesServerClock(t *testing.T) {
	f := newOrderFixture(fixedClock(2024, time.March, 10, 4, 59))

	q := f.svc.Estimate(context.Background(), pricing.QuoteInput{DistanceMeters: 5000, WeightKg: 1})
	if q.TotalPrice != 186000 {
		t.Errorf("expected 155000*1.2 = 186000, got %d", q.TotalPrice)
	}

	f.svc.now = fixedClock(2024, time.March, 10, 5, 0)
	q = f.svc.Estimate(context.Background(), pricing.QuoteInput{DistanceMeters: 5000, WeightKg: 1})
	if q.TotalPrice != 155000 {
		t.Errorf("expected 155000, got %d", q.TotalPrice)
	}
}

// ---------------------------------------------------------------------------
// Pay
// ---------------------------------------------------------------------------

func TestOrderService_Pay_Success(t *testing.T) {
	f := newOrderFixture(nil)
	o := f.repo.seed(domain.Order{UserID: "u1", Status: domain.StatusPending, Price: 100000})

	paid, err := f.svc.Pay(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Error("expected paid order with paidAt")
	}
	if paid.Status != domain.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", paid.Status)
	}
	if len(f.queue.jobs) != 1 || f.queue.jobs[0].Kind != ports.NotifyStatus {
		t.Errorf("expected one status job, got %+v", f.queue.jobs)
	}
}

func TestOrderService_Pay_AlreadyPaid(t *testing.T) {
	f := newOrderFixture(nil)
	o := f.repo.seed(domain.Order{UserID: "u1", IsPaid: true, Status: domain.StatusConfirmed})

	_, err := f.svc.Pay(context.Background(), o.ID)
	if !errors.Is(err, domain.ErrOrderAlreadyPaid) {
		t.Errorf("expected ErrOrderAlreadyPaid, got %v", err)
	}
	if len(f.queue.jobs) != 0 {
		t.Error("no notification expected")
	}
}

func TestOrderService_Pay_NotFound(t *testing.T) {
	f := newOrderFixture(nil)

	_, err := f.svc.Pay(context.Background(), "missing")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Status changes
// ---------------------------------------------------------------------------

func TestOrderService_UpdateStatus_AllowsAnyKnownStatus(t *testing.T) {
	f := newOrderFixture(nil)
	o := f.repo.seed(domain.Order{UserID: "u1", Status: domain.StatusCompleted})

	updated, err := f.svc.UpdateStatus(context.Background(), o.ID, "pending")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", updated.Status)
	}
	if len(f.queue.jobs) != 1 {
		t.Errorf("expected status notification, got %d jobs", len(f.queue.jobs))
	}
}

func TestOrderService_UpdateStatus_Invalid(t *testing.T) {
	f := newOrderFixture(nil)
	o := f.repo.seed(domain.Order{UserID: "u1", Status: domain.StatusPending})

	_, err := f.svc.UpdateStatus(context.Background(), o.ID, "lost")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestOrderService_Cancel_DoesNotNotify(t *testing.T) {
	f := newOrderFixture(nil)
	o := f.repo.seed(domain.Order{UserID: "u1", Status: domain.StatusPending})

	cancelled, err := f.svc.Cancel(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if len(f.queue.jobs) != 0 {
		t.Error("cancel must not notify")
	}
}

// ---------------------------------------------------------------------------
// ResendInvoice
// ---------------------------------------------------------------------------

func TestOrderService_ResendInvoice(t *testing.T) {
	f := newOrderFixture(nil)
	withMail := f.repo.seed(domain.Order{UserID: "u1"})
	noMail := f.repo.seed(domain.Order{UserID: "u2"})
	orphan := f.repo.seed(domain.Order{UserID: "ghost"})

	if err := f.svc.ResendInvoice(context.Background(), withMail.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := f.svc.ResendInvoice(context.Background(), noMail.ID); !errors.Is(err, domain.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
	if err := f.svc.ResendInvoice(context.Background(), orphan.ID); !errors.Is(err, domain.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient for missing owner, got %v", err)
	}
	if err := f.svc.ResendInvoice(context.Background(), "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if len(f.queue.jobs) != 1 || f.queue.jobs[0].OrderID != withMail.ID {
		t.Errorf("expected one invoice job, got %+v", f.queue.jobs)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestOrderService_ListMine_NewestFirst(t *testing.T) {
	f := newOrderFixture(nil)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.repo.seed(domain.Order{ID: "old", UserID: "u1", CreatedAt: base})
	f.repo.seed(domain.Order{ID: "new", UserID: "u1", CreatedAt: base.Add(time.Hour)})
	f.repo.seed(domain.Order{ID: "other", UserID: "u2", CreatedAt: base.Add(2 * time.Hour)})

	mine, err := f.svc.ListMine(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}
	if mine[0].ID != "new" || mine[1].ID != "old" {
		t.Errorf("unexpected order: %s, %s", mine[0].ID, mine[1].ID)
	}
}

func TestOrderService_Create_IdempotencyKeyScopedPerUser(t *testing.T) {
	f := newOrderFixture(nil)
	in := validCreateInput()
	in.IdempotencyKey = "same"

	first, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	in.UserID = "u2"
	second, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.AlreadyExisted || second.Order.ID == first.Order.ID {
		t.Error("another user's key must not replay")
	}
}

func TestOrderService_Create_ConcurrentDuplicatesShareOneOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newOrderFixture(nil)
	f.svc.idempotency = redisdb.NewIdempotencyStore(client, time.Hour)
	f.svc.idemPoll = 5 * time.Millisecond
	gate := make(chan struct{})
	f.repo.createGate = gate

	in := validCreateInput()
	in.IdempotencyKey = "double-click"

	const callers = 4
	results := make([]*ports.CreateOrderResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = f.svc.Create(context.Background(), in)
		}()
	}
	// Hold the winner inside Create until every caller has tried the key.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	fresh := 0
	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].Order.ID != results[0].Order.ID {
			t.Errorf("caller %d got order %s, want %s", i, results[i].Order.ID, results[0].Order.ID)
		}
		if !results[i].AlreadyExisted {
			fresh++
		}
	}
	if fresh != 1 {
		t.Errorf("expected exactly one fresh order, got %d", fresh)
	}
	if len(f.repo.byID) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(f.repo.byID))
	}
	if len(f.queue.jobs) != 1 {
		t.Errorf("expected 1 invoice job, got %d", len(f.queue.jobs))
	}
}

func TestOrderService_Create_PendingKeyTimesOut(t *testing.T) {
	f := newOrderFixture(nil)
	f.idem.keys["u1:key-1"] = ""
	f.svc.idemPoll = time.Millisecond
	f.svc.idemWait = 20 * time.Millisecond
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	_, err := f.svc.Create(context.Background(), in)
	if !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("expected ErrRequestInProgress, got %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Errorf("no order expected, got %d", len(f.repo.byID))
	}
}

func TestOrderService_Create_PendingKeyHonoursContext(t *testing.T) {
	f := newOrderFixture(nil)
	f.idem.keys["u1:key-1"] = ""
	f.svc.idemPoll = time.Millisecond
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.svc.Create(ctx, in)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestOrderService_Create_FailureReleasesKey(t *testing.T) {
	f := newOrderFixture(nil)
	f.repo.createErr = errors.New("mongo down")
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	if _, err := f.svc.Create(context.Background(), in); err == nil {
		t.Fatal("expected error")
	}
	if _, held := f.idem.keys["u1:key-1"]; held {
		t.Fatal("failed create must release its key")
	}

	f.repo.createErr = nil
	res, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("retry should create a fresh order")
	}
	if f.idem.keys["u1:key-1"] != res.Order.ID {
		t.Errorf("key should point at %s, got %q", res.Order.ID, f.idem.keys["u1:key-1"])
	}
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func TestOrderService_TrackingQR(t *testing.T) {
	f := newOrderFixture(nil)
	png, err := f.svc.TrackingQR(context.Background(), &domain.Order{ID: "o-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(png) != "qr:o-1" {
		t.Errorf("unexpected qr payload %q", png)
	}
}

func TestOrderService_InvoicePDF_WrapsRenderError(t *testing.T) {
	f := newOrderFixture(nil)
	boom := errors.New("font broken")
	f.docs.err = boom

	_, err := f.svc.InvoicePDF(context.Background(), &domain.Order{ID: "o-1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped render error, got %v", err)
	}
}

func TestOrderService_Create_ReplayOfDeletedOrderCreatesAgain(t *testing.T) {
	f := newOrderFixture(nil)
	f.idem.keys["u1:key-1"] = "order-gone"
	in := validCreateInput()
	in.IdempotencyKey = "key-1"

	res, err := f.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("expected a fresh order")
	}
	if f.idem.keys["u1:key-1"] != res.Order.ID {
		t.Errorf("key should now point at %s, got %q", res.Order.ID, f.idem.keys["u1:key-1"])
	}
}
