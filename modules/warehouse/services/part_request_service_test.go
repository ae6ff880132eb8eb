package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/infrastructure/persistence/memory"
)

type requestFixture struct {
	requests  *PartRequestService
	parts     part.Repository
	repo      partrequest.Repository
	publisher *stubPublisher
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	store := memory.NewStore()
	partRepo := memory.NewPartRepository(store)
	requestRepo := memory.NewPartRequestRepository(store)
	publisher := &stubPublisher{}
	return &requestFixture{
		requests:  NewPartRequestService(requestRepo, partRepo, publisher),
		parts:     partRepo,
		repo:      requestRepo,
		publisher: publisher,
	}
}

func (f *requestFixture) seedPart(t *testing.T, stock int) part.Part {
	t.Helper()
	p, err := f.parts.Create(context.Background(), part.New("Brake Pad Set", "BRK-"+uuid.NewString()[:8], "", nil, stock))
	require.NoError(t, err)
	return p
}

func (f *requestFixture) createRequest(t *testing.T, technicianID uuid.UUID, partID uuid.UUID, quantity int, urgency string) partrequest.PartRequest {
	t.Helper()
	req, err := f.requests.Create(technicianCtx(technicianID), &partrequest.CreateDTO{
		ServiceOrderID: uuid.New(),
		PartID:         partID,
		Quantity:       quantity,
		Urgency:        urgency,
	})
	require.NoError(t, err)
	return req
}

func TestPartRequestService_Create(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	technicianID := uuid.New()

	req := f.createRequest(t, technicianID, p.ID(), 3, "high")
	require.Equal(t, partrequest.StatusPending, req.Status())
	require.Equal(t, technicianID, req.TechnicianID())
	require.Equal(t, partrequest.UrgencyHigh, req.Urgency())

	// Availability is not checked at creation time.
	over := f.createRequest(t, technicianID, p.ID(), 100, "")
	require.Equal(t, partrequest.StatusPending, over.Status())
}

func TestPartRequestService_CreateUnknownPart(t *testing.T) {
	f := newRequestFixture(t)

	_, err := f.requests.Create(technicianCtx(uuid.New()), &partrequest.CreateDTO{
		ServiceOrderID: uuid.New(),
		PartID:         uuid.New(),
		Quantity:       1,
	})
	require.ErrorIs(t, err, part.ErrNotFound)
}

func TestPartRequestService_CreateRequiresTechnician(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)

	_, err := f.requests.Create(advisorCtx(), &partrequest.CreateDTO{
		ServiceOrderID: uuid.New(),
		PartID:         p.ID(),
		Quantity:       1,
	})
	require.ErrorIs(t, err, partrequest.ErrForbidden)

	_, err = f.requests.Create(context.Background(), &partrequest.CreateDTO{
		ServiceOrderID: uuid.New(),
		PartID:         p.ID(),
		Quantity:       1,
	})
	require.ErrorIs(t, err, partrequest.ErrForbidden)
}

func TestPartRequestService_PublishesLifecycleEvents(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)

	req := f.createRequest(t, uuid.New(), p.ID(), 2, "high")
	require.Len(t, f.publisher.published, 1)
	created, ok := f.publisher.published[0].(partrequest.CreatedEvent)
	require.True(t, ok)
	require.Equal(t, req.ID(), created.RequestID)
	require.Equal(t, req.ServiceOrderID(), created.ServiceOrderID)
	require.Equal(t, partrequest.UrgencyHigh, created.Urgency)

	f.publisher.Clear()
	approved, err := f.requests.Approve(advisorCtx(), req.ID(), "")
	require.NoError(t, err)
	require.Len(t, f.publisher.published, 2)
	stock, ok := f.publisher.published[0].(part.StockAdjustedEvent)
	require.True(t, ok)
	require.Equal(t, p.ID(), stock.PartID)
	require.Equal(t, 8, stock.QuantityAfter)
	decided, ok := f.publisher.published[1].(partrequest.DecidedEvent)
	require.True(t, ok)
	require.Equal(t, req.ID(), decided.RequestID)
	require.Equal(t, partrequest.StatusApproved, decided.NewStatus)
	require.Equal(t, approved.ApproverID(), decided.ActorID)

	f.publisher.Clear()
	other := f.createRequest(t, uuid.New(), p.ID(), 1, "")
	f.publisher.Clear()
	_, err = f.requests.Reject(advisorCtx(), other.ID(), "duplicate")
	require.NoError(t, err)
	require.Len(t, f.publisher.published, 1)
	rejected, ok := f.publisher.published[0].(partrequest.DecidedEvent)
	require.True(t, ok)
	require.Equal(t, partrequest.StatusRejected, rejected.NewStatus)
}

func TestPartRequestService_ApproveDecrementsStock(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 4, "")

	approved, err := f.requests.Approve(advisorCtx(), req.ID(), "go ahead")
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusApproved, approved.Status())
	require.Equal(t, "go ahead", approved.ApproverNotes())
	require.NotEqual(t, uuid.Nil, approved.ApproverID())
	require.NotNil(t, approved.DecidedAt())

	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 6, after.QuantityInStock())
}

func TestPartRequestService_ApproveInsufficientStock(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 2)
	req := f.createRequest(t, uuid.New(), p.ID(), 5, "")

	_, err := f.requests.Approve(advisorCtx(), req.ID(), "")
	require.ErrorIs(t, err, part.ErrInsufficientStock)

	// Request stays pending and stock untouched; the advisor can restock
	// and retry.
	unchanged, err := f.requests.GetByID(context.Background(), req.ID())
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusPending, unchanged.Status())

	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 2, after.QuantityInStock())
}

func TestPartRequestService_ApproveAlreadyDecided(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 1, "")

	_, err := f.requests.Approve(advisorCtx(), req.ID(), "")
	require.NoError(t, err)

	_, err = f.requests.Approve(advisorCtx(), req.ID(), "")
	require.ErrorIs(t, err, partrequest.ErrInvalidState)

	// No double decrement.
	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 9, after.QuantityInStock())
}

func TestPartRequestService_ApproveRequiresAdvisor(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 1, "")

	_, err := f.requests.Approve(technicianCtx(req.TechnicianID()), req.ID(), "")
	require.ErrorIs(t, err, partrequest.ErrForbidden)

	_, err = f.requests.Approve(adminCtx(), req.ID(), "")
	require.NoError(t, err)
}

func TestPartRequestService_Reject(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 3, "")

	_, err := f.requests.Reject(advisorCtx(), req.ID(), "  ")
	require.ErrorIs(t, err, partrequest.ErrEmptyReason)

	rejected, err := f.requests.Reject(advisorCtx(), req.ID(), "wrong part for this vehicle")
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusRejected, rejected.Status())
	require.Equal(t, "wrong part for this vehicle", rejected.ApproverNotes())

	// Rejection never moves stock.
	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 10, after.QuantityInStock())
}

func TestPartRequestService_Cancel(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	technicianID := uuid.New()
	req := f.createRequest(t, technicianID, p.ID(), 1, "")

	_, err := f.requests.Cancel(technicianCtx(uuid.New()), req.ID())
	require.ErrorIs(t, err, partrequest.ErrForbidden)

	cancelled, err := f.requests.Cancel(technicianCtx(technicianID), req.ID())
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusCancelled, cancelled.Status())

	_, err = f.requests.Cancel(technicianCtx(technicianID), req.ID())
	require.ErrorIs(t, err, partrequest.ErrInvalidState)
}

func TestPartRequestService_CancelAdminOverride(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 1, "")

	cancelled, err := f.requests.Cancel(adminCtx(), req.ID())
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusCancelled, cancelled.Status())
}

func TestPartRequestService_Fulfill(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 2, "")

	_, err := f.requests.Fulfill(advisorCtx(), req.ID())
	require.ErrorIs(t, err, partrequest.ErrInvalidState)

	_, err = f.requests.Approve(advisorCtx(), req.ID(), "")
	require.NoError(t, err)

	fulfilled, err := f.requests.Fulfill(advisorCtx(), req.ID())
	require.NoError(t, err)
	require.Equal(t, partrequest.StatusFulfilled, fulfilled.Status())

	// Stock was drawn at approval, not again at handover.
	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 8, after.QuantityInStock())
}

func TestPartRequestService_ListForTechnician(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	mine := uuid.New()
	other := uuid.New()
	f.createRequest(t, mine, p.ID(), 1, "")
	f.createRequest(t, mine, p.ID(), 2, "")
	f.createRequest(t, other, p.ID(), 1, "")

	own, err := f.requests.ListForTechnician(technicianCtx(mine), mine)
	require.NoError(t, err)
	require.Len(t, own, 2)

	_, err = f.requests.ListForTechnician(technicianCtx(mine), other)
	require.ErrorIs(t, err, partrequest.ErrForbidden)

	all, err := f.requests.ListForTechnician(advisorCtx(), other)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestPartRequestService_ListPendingOrdersByUrgency(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 100)
	technicianID := uuid.New()

	f.createRequest(t, technicianID, p.ID(), 1, "low")
	f.createRequest(t, technicianID, p.ID(), 1, "urgent")
	f.createRequest(t, technicianID, p.ID(), 1, "normal")
	f.createRequest(t, technicianID, p.ID(), 1, "high")

	pending, err := f.requests.ListPending(advisorCtx())
	require.NoError(t, err)
	require.Len(t, pending, 4)
	require.Equal(t, partrequest.UrgencyUrgent, pending[0].Urgency())
	require.Equal(t, partrequest.UrgencyHigh, pending[1].Urgency())
	require.Equal(t, partrequest.UrgencyNormal, pending[2].Urgency())
	require.Equal(t, partrequest.UrgencyLow, pending[3].Urgency())

	_, err = f.requests.ListPending(technicianCtx(technicianID))
	require.ErrorIs(t, err, partrequest.ErrForbidden)
}

func TestPartRequestService_ConcurrentApprovalsRespectStock(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 5)
	technicianID := uuid.New()

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = f.createRequest(t, technicianID, p.ID(), 1, "").ID()
	}

	var wg sync.WaitGroup
	results := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(requestID uuid.UUID) {
			defer wg.Done()
			_, err := f.requests.Approve(advisorCtx(), requestID, "")
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var approved, insufficient int
	for err := range results {
		switch {
		case err == nil:
			approved++
		default:
			require.ErrorIs(t, err, part.ErrInsufficientStock)
			insufficient++
		}
	}
	require.Equal(t, 5, approved, "exactly the available stock should be granted")
	require.Equal(t, 5, insufficient)

	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 0, after.QuantityInStock())
	require.Equal(t, part.StatusOutOfStock, after.Status())
}

func TestPartRequestService_ConcurrentDecisionsOnOneRequest(t *testing.T) {
	f := newRequestFixture(t)
	p := f.seedPart(t, 10)
	req := f.createRequest(t, uuid.New(), p.ID(), 2, "")

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.requests.Approve(advisorCtx(), req.ID(), "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		// Losers fail the status swap, or the stock check while other
		// attempts hold provisional decrements.
		lost := errors.Is(err, partrequest.ErrInvalidState) || errors.Is(err, part.ErrInsufficientStock)
		require.True(t, lost, "unexpected error: %v", err)
	}
	require.Equal(t, 1, wins, "exactly one concurrent decision should win")

	// The losers' provisional decrements were compensated.
	after, err := f.parts.GetByID(context.Background(), p.ID())
	require.NoError(t, err)
	require.Equal(t, 8, after.QuantityInStock())
}
