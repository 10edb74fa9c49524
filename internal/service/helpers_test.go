package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     Pagination
		want   Pagination
		offset int
	}{
		{name: "defaults", in: Pagination{}, want: Pagination{Page: 1, PerPage: 10}, offset: 0},
		{name: "per_page capped", in: Pagination{Page: 3, PerPage: 500}, want: Pagination{Page: 3, PerPage: 100}, offset: 200},
		{name: "huge page capped", in: Pagination{Page: math.MaxInt, PerPage: 100}, want: Pagination{Page: maxPage, PerPage: 100}, offset: (maxPage - 1) * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
			assert.Equal(t, tt.offset, tt.in.repoPage().Offset)
		})
	}
}

func TestListTicketsHugePageIsEmpty(t *testing.T) {
	h := newHarness(t, true)
	customer := h.addCustomer(t)
	h.addOpenTicket(t, customer)

	page, err := h.tickets.ListTickets(context.Background(), TicketQuery{Pagination: Pagination{Page: math.MaxInt32, PerPage: 10}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, maxPage, page.Page)
}
