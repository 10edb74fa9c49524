package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

func seedWorker(t *testing.T, s *Store, username string) domain.Worker {
	t.Helper()
	w := domain.Worker{Username: username, FirstName: username, Email: username + "@example.com", Role: domain.RoleSupport}
	require.NoError(t, s.Workers().Create(context.Background(), &w))
	return w
}

func seedCustomer(t *testing.T, s *Store, email string) domain.Customer {
	t.Helper()
	c := domain.Customer{FirstName: "Grace", LastName: "Hopper", Email: email}
	require.NoError(t, s.Customers().Create(context.Background(), &c))
	return c
}

func TestWorkerUniqueness(t *testing.T) {
	s := NewStore()
	seedWorker(t, s, "alice")

	dup := domain.Worker{Username: "alice", Email: "other@example.com", Role: domain.RoleSales}
	err := s.Workers().Create(context.Background(), &dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Equal(t, "workers_username_key", repository.ConstraintName(err))

	dup = domain.Worker{Username: "bob", Email: "alice@example.com", Role: domain.RoleSales}
	err = s.Workers().Create(context.Background(), &dup)
	assert.Equal(t, "workers_email_key", repository.ConstraintName(err))
}

func TestWorkerLoadsOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedWorker(t, s, "a")
	b := seedWorker(t, s, "b")
	c := seedWorker(t, s, "c")
	cust := seedCustomer(t, s, "c@example.com")

	for _, assignee := range []int64{b.ID, b.ID, b.ID, c.ID} {
		id := assignee
		require.NoError(t, s.Tickets().Create(ctx, &domain.SupportTicket{CustomerID: cust.ID, Subject: "x", AssignedTo: &id}))
	}

	loads, err := s.Tickets().WorkerLoads(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkerLoad{
		{WorkerID: a.ID, TicketCount: 0},
		{WorkerID: c.ID, TicketCount: 1},
		{WorkerID: b.ID, TicketCount: 3},
	}, loads)
}

func TestCustomerDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWorker(t, s, "w")
	cust := seedCustomer(t, s, "cascade@example.com")

	ticket := domain.SupportTicket{CustomerID: cust.ID, Subject: "broken", CreatedBy: &w.ID}
	require.NoError(t, s.Tickets().Create(ctx, &ticket))
	require.NoError(t, s.SalesLeads().Create(ctx, &domain.SalesLead{CustomerID: cust.ID, LeadStatus: "new"}))

	require.NoError(t, s.Customers().Delete(ctx, cust.ID))

	_, err := s.Tickets().GetByID(ctx, ticket.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, total, err := s.SalesLeads().List(ctx, repository.SalesLeadFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestWorkerDeleteClearsReferences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWorker(t, s, "w")
	cust := seedCustomer(t, s, "refs@example.com")
	ticket := domain.SupportTicket{CustomerID: cust.ID, Subject: "s", AssignedTo: &w.ID, CreatedBy: &w.ID}
	require.NoError(t, s.Tickets().Create(ctx, &ticket))
	require.NoError(t, s.Calendar().Create(ctx, &domain.CalendarEvent{WorkerID: w.ID, Title: "standup", EventDate: time.Now()}))

	require.NoError(t, s.Workers().Delete(ctx, w.ID))

	got, err := s.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)
	assert.Nil(t, got.CreatedBy)

	events, err := s.Calendar().List(ctx, repository.CalendarFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTicketReferencesChecked(t *testing.T) {
	s := NewStore()
	err := s.Tickets().Create(context.Background(), &domain.SupportTicket{CustomerID: 99, Subject: "x"})
	require.ErrorIs(t, err, repository.ErrReferenceMissing)
	assert.Equal(t, "support_tickets_customer_id_fkey", repository.ConstraintName(err))
}

func TestAssignmentTxBuffersUntilCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWorker(t, s, "w")
	cust := seedCustomer(t, s, "tx@example.com")
	ticket := domain.SupportTicket{CustomerID: cust.ID, Subject: "s"}
	require.NoError(t, s.Tickets().Create(ctx, &ticket))

	boom := errors.New("boom")
	err := s.Assignments().WithinTx(ctx, func(ctx context.Context, tx repository.AssignmentTx) error {
		require.NoError(t, tx.LockDirectory(ctx))
		require.NoError(t, tx.SetAssignee(ctx, ticket.ID, w.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)

	err = s.Assignments().WithinTx(ctx, func(ctx context.Context, tx repository.AssignmentTx) error {
		require.NoError(t, tx.LockDirectory(ctx))
		return tx.SetAssignee(ctx, ticket.ID, w.ID)
	})
	require.NoError(t, err)

	got, err = s.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, w.ID, *got.AssignedTo)
}

func TestFailOnCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWorker(t, s, "w")
	cust := seedCustomer(t, s, "fail@example.com")
	ticket := domain.SupportTicket{CustomerID: cust.ID, Subject: "s"}
	require.NoError(t, s.Tickets().Create(ctx, &ticket))

	boom := errors.New("disk full")
	s.FailOn(OpCommit, boom)
	err := s.Assignments().WithinTx(ctx, func(ctx context.Context, tx repository.AssignmentTx) error {
		return tx.SetAssignee(ctx, ticket.ID, w.ID)
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)
}

func TestAnalyticsReportGroups(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	w := seedWorker(t, s, "w")
	cust := seedCustomer(t, s, "report@example.com")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	for _, m := range []domain.MetricValue{domain.MetricActive, domain.MetricActive, domain.MetricDeactivated} {
		entry := domain.Analytics{CustomerID: &cust.ID, WorkerID: &w.ID, MetricValue: m, PeriodStartDate: start, PeriodEndDate: end}
		require.NoError(t, s.Analytics().Create(ctx, &entry))
	}

	rows, err := s.Analytics().Report(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.MetricActive, rows[0].MetricValue)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, int64(1), rows[1].Count)

	bad := domain.Analytics{MetricValue: "Active", PeriodStartDate: start, PeriodEndDate: end}
	require.ErrorIs(t, s.Analytics().Create(ctx, &bad), repository.ErrConstraint)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, repository.Page{Limit: 2, Offset: 2}))
	assert.Nil(t, paginate(items, repository.Page{Limit: 2, Offset: 10}))
	assert.Len(t, paginate(items, repository.Page{}), 5)
}
