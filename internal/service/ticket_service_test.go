package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func TestCreateTicketAssigns(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	actor := h.addWorker(t, "agent", domain.RoleSupport)

	result, err := h.tickets.CreateTicket(ctx, actor, TicketCreateInput{CustomerID: &customer.ID, Subject: "  VPN down "})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.Assignee)
	assert.Equal(t, actor.ID, result.Assignee.ID)
	assert.Equal(t, "VPN down", result.Ticket.Subject)
	assert.Equal(t, domain.TicketStatusOpen, result.Ticket.Status)
	require.NotNil(t, result.Ticket.CreatedBy)
	assert.Equal(t, actor.ID, *result.Ticket.CreatedBy)
}

func TestCreateTicketWithoutWorkersWarns(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)

	result, err := h.tickets.CreateTicket(ctx, nil, TicketCreateInput{CustomerID: &customer.ID, Subject: "help"})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, apperrors.CodeNoAvailableWorker, result.Warnings[0].Code)
	assert.Nil(t, result.Assignee)

	stored, err := h.tickets.GetTicket(ctx, result.Ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedTo)
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{name: "missing customer", input: TicketCreateInput{Subject: "x"}},
		{name: "missing subject", input: TicketCreateInput{CustomerID: &customer.ID, Subject: "  "}},
		{name: "bad status", input: TicketCreateInput{CustomerID: &customer.ID, Subject: "x", Status: ptr(domain.TicketStatus("Closed"))}},
		{name: "unknown customer", input: TicketCreateInput{CustomerID: ptr(int64(999)), Subject: "x"}},
		{name: "unknown creator", input: TicketCreateInput{CustomerID: &customer.ID, CreatedBy: ptr(int64(999)), Subject: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.tickets.CreateTicket(ctx, nil, tt.input)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}
}

func TestCreateTicketPersistenceFailureKeepsTicket(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	h.addWorker(t, "a", domain.RoleSupport)
	h.store.FailOn(memory.OpSetAssignee, errors.New("deadlock"))

	_, err := h.tickets.CreateTicket(ctx, nil, TicketCreateInput{CustomerID: &customer.ID, Subject: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodePersistence))

	page, err := h.tickets.ListTickets(ctx, TicketQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Nil(t, page.Items[0].AssignedTo)
}

func TestCountAssignedTicketsIncludesIdleWorkers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	a := h.addWorker(t, "a", domain.RoleSupport)
	b := h.addWorker(t, "b", domain.RoleSupport)
	h.addAssignedTickets(t, customer, b, 2)

	counts, err := h.tickets.CountAssignedTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{a.ID: 0, b.ID: 2}, counts)
}

func TestUpdateTicket(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	w := h.addWorker(t, "a", domain.RoleSupport)
	ticket := h.addOpenTicket(t, customer)

	updated, err := h.tickets.UpdateTicket(ctx, w, ticket.ID, TicketUpdateInput{
		Status:     ptr(domain.TicketStatusInProcess),
		AssignedTo: &w.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProcess, updated.Status)
	assert.Equal(t, w.ID, *updated.AssignedTo)
	assert.Equal(t, 1, h.logs.FilterMessage("TicketStatusChanged").Len())

	_, err = h.tickets.UpdateTicket(ctx, w, ticket.ID, TicketUpdateInput{Status: ptr(domain.TicketStatus("done"))})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = h.tickets.UpdateTicket(ctx, w, ticket.ID, TicketUpdateInput{AssignedTo: ptr(int64(999))})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = h.tickets.UpdateTicket(ctx, w, 999, TicketUpdateInput{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateTicketUnassigns(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	w := h.addWorker(t, "a", domain.RoleSupport)
	ticket := h.addOpenTicket(t, customer)
	_, err := h.assignment.Assign(ctx, ticket.ID)
	require.NoError(t, err)

	updated, err := h.tickets.UpdateTicket(ctx, w, ticket.ID, TicketUpdateInput{Unassign: true, AssignedTo: &w.ID})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)

	stored, err := h.store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedTo)

	counts, err := h.tickets.CountAssignedTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts[w.ID])
}

func TestListTicketsPaginationAndFilters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	for i := 0; i < 15; i++ {
		h.addOpenTicket(t, customer)
	}

	page, err := h.tickets.ListTickets(ctx, TicketQuery{})
	require.NoError(t, err)
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)

	page, err = h.tickets.ListTickets(ctx, TicketQuery{Pagination: Pagination{Page: 2, PerPage: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	page, err = h.tickets.ListTickets(ctx, TicketQuery{Pagination: Pagination{PerPage: 500}})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PerPage)

	page, err = h.tickets.ListTickets(ctx, TicketQuery{Status: ptr("Close")})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)

	_, err = h.tickets.ListTickets(ctx, TicketQuery{Status: ptr("open")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestDeleteTicket(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	ticket := h.addOpenTicket(t, h.addCustomer(t))

	require.NoError(t, h.tickets.DeleteTicket(ctx, ticket.ID))
	assert.True(t, apperrors.IsCode(h.tickets.DeleteTicket(ctx, ticket.ID), apperrors.CodeNotFound))
}
