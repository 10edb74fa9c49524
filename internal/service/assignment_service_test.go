package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func TestSelectLeastLoaded(t *testing.T) {
	tests := []struct {
		name  string
		loads []domain.WorkerLoad
		want  int64
		ok    bool
	}{
		{name: "empty", loads: nil, ok: false},
		{
			name:  "minimum count wins",
			loads: []domain.WorkerLoad{{WorkerID: 1, TicketCount: 0}, {WorkerID: 2, TicketCount: 3}, {WorkerID: 3, TicketCount: 1}},
			want:  1,
			ok:    true,
		},
		{
			name:  "tie goes to lowest id regardless of order",
			loads: []domain.WorkerLoad{{WorkerID: 9, TicketCount: 2}, {WorkerID: 4, TicketCount: 2}, {WorkerID: 7, TicketCount: 5}},
			want:  4,
			ok:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLeastLoaded(tt.loads)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.WorkerID)
			}
		})
	}
}

func TestAssignPicksLeastLoadedWorker(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	a := h.addWorker(t, "a", domain.RoleSupport)
	b := h.addWorker(t, "b", domain.RoleSupport)
	c := h.addWorker(t, "c", domain.RoleSupport)
	h.addAssignedTickets(t, customer, b, 3)
	h.addAssignedTickets(t, customer, c, 1)

	ticket := h.addOpenTicket(t, customer)
	worker, err := h.assignment.Assign(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, worker.ID)

	stored, err := h.store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, a.ID, *stored.AssignedTo)
}

func TestAssignTieBreaksOnLowestID(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	a := h.addWorker(t, "a", domain.RoleSupport)
	b := h.addWorker(t, "b", domain.RoleSupport)
	h.addAssignedTickets(t, customer, a, 2)
	h.addAssignedTickets(t, customer, b, 2)

	for i := 0; i < 3; i++ {
		ticket := h.addOpenTicket(t, customer)
		worker, err := h.assignment.Assign(ctx, ticket.ID)
		require.NoError(t, err)
		// a and b alternate as counts move: the lower id wins every tie
		if i%2 == 0 {
			assert.Equal(t, a.ID, worker.ID)
		} else {
			assert.Equal(t, b.ID, worker.ID)
		}
	}
}

func TestAssignTieIsStableAcrossRuns(t *testing.T) {
	ctx := context.Background()
	for run := 0; run < 5; run++ {
		h := newHarness(t, true)
		customer := h.addCustomer(t)
		a := h.addWorker(t, "a", domain.RoleSupport)
		b := h.addWorker(t, "b", domain.RoleSupport)
		h.addAssignedTickets(t, customer, a, 2)
		h.addAssignedTickets(t, customer, b, 2)

		ticket := h.addOpenTicket(t, customer)
		worker, err := h.assignment.Assign(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, worker.ID, "run %d", run)

		// back to {a:2, b:2} on the same store
		require.NoError(t, h.store.Tickets().Delete(ctx, ticket.ID))
		again := h.addOpenTicket(t, customer)
		worker, err = h.assignment.Assign(ctx, again.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, worker.ID, "run %d repeat", run)
	}
}

func TestAssignWithoutWorkersLeavesTicketOpen(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	ticket := h.addOpenTicket(t, customer)

	_, err := h.assignment.Assign(ctx, ticket.ID)
	require.ErrorIs(t, err, ErrNoAvailableWorker)

	page, err := h.tickets.ListTickets(ctx, TicketQuery{Status: ptr("Open")})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].AssignedTo)
	assert.Equal(t, domain.TicketStatusOpen, page.Items[0].Status)
}

func TestAssignRejectsAlreadyAssignedTicket(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	h.addWorker(t, "a", domain.RoleSupport)
	h.addWorker(t, "b", domain.RoleSupport)
	ticket := h.addOpenTicket(t, customer)

	first, err := h.assignment.Assign(ctx, ticket.ID)
	require.NoError(t, err)

	_, err = h.assignment.Assign(ctx, ticket.ID)
	require.ErrorIs(t, err, ErrTicketAlreadyAssigned)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	stored, err := h.store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *stored.AssignedTo)
}

func TestAssignUnknownTicket(t *testing.T) {
	h := newHarness(t, true)
	h.addWorker(t, "a", domain.RoleSupport)
	_, err := h.assignment.Assign(context.Background(), 404)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestAssignStoreFailureRollsBack(t *testing.T) {
	for _, op := range []string{memory.OpWorkerLoads, memory.OpSetAssignee, memory.OpCommit} {
		t.Run(op, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, true)
			customer := h.addCustomer(t)
			h.addWorker(t, "a", domain.RoleSupport)
			ticket := h.addOpenTicket(t, customer)

			h.store.FailOn(op, errors.New("connection reset"))
			_, err := h.assignment.Assign(ctx, ticket.ID)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodePersistence))

			h.store.FailOn(op, nil)
			stored, err := h.store.Tickets().GetByID(ctx, ticket.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.AssignedTo)
			_, payloads := h.publisher.published()
			assert.Empty(t, payloads)
		})
	}
}

func TestAssignNotifiesWorker(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	h.addWorker(t, "ada", domain.RoleSupport)
	ticket := h.addOpenTicket(t, customer)

	_, err := h.assignment.Assign(ctx, ticket.ID)
	require.NoError(t, err)

	channel, payloads := h.publisher.published()
	require.Len(t, payloads, 1)
	assert.Equal(t, "crm:notifications", channel)
	var note Notification
	require.NoError(t, json.Unmarshal(payloads[0], &note))
	assert.Equal(t, "Ticket 1 assigned to ada", note.Message)
	assert.Equal(t, 1, h.logs.FilterMessage("ticket assigned").Len())
}

func TestAssignSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	h.addWorker(t, "ada", domain.RoleSupport)
	h.publisher.failWith(errors.New("redis: connection refused"))
	ticket := h.addOpenTicket(t, customer)

	worker, err := h.assignment.Assign(ctx, ticket.ID)
	require.NoError(t, err)
	assert.NotNil(t, worker)
	assert.Equal(t, 1, h.logs.FilterMessage("notification publish failed").Len())
}

func TestConcurrentAssignmentSerialized(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	const n = 8
	workerIDs := map[int64]bool{}
	for i := 0; i < n; i++ {
		w := h.addWorker(t, string(rune('a'+i)), domain.RoleSupport)
		workerIDs[w.ID] = true
	}
	tickets := make([]*domain.SupportTicket, n)
	for i := range tickets {
		tickets[i] = h.addOpenTicket(t, customer)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, ticket := range tickets {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = h.assignment.Assign(ctx, id)
		}(i, ticket.ID)
	}
	wg.Wait()

	counts, err := h.tickets.CountAssignedTickets(ctx)
	require.NoError(t, err)
	for i, err := range errs {
		require.NoError(t, err, "ticket %d", i)
	}
	for id := range workerIDs {
		assert.Equal(t, 1, counts[id], "worker %d", id)
	}
	_, payloads := h.publisher.published()
	assert.Len(t, payloads, n)
}

func TestConcurrentAssignmentUnserializedStillValid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	customer := h.addCustomer(t)
	valid := map[int64]bool{}
	for i := 0; i < 3; i++ {
		valid[h.addWorker(t, string(rune('a'+i)), domain.RoleSupport).ID] = true
	}
	const n = 12
	tickets := make([]*domain.SupportTicket, n)
	for i := range tickets {
		tickets[i] = h.addOpenTicket(t, customer)
	}

	var wg sync.WaitGroup
	for _, ticket := range tickets {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = h.assignment.Assign(ctx, id)
		}(ticket.ID)
	}
	wg.Wait()

	for _, ticket := range tickets {
		stored, err := h.store.Tickets().GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.AssignedTo)
		assert.True(t, valid[*stored.AssignedTo])
	}
}
