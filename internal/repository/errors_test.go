package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       error
		constraint string
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: ErrNotFound},
		{
			name:       "unique",
			err:        &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "workers_username_key"},
			want:       ErrDuplicate,
			constraint: "workers_username_key",
		},
		{
			name:       "foreign key",
			err:        &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "support_tickets_customer_id_fkey"},
			want:       ErrReferenceMissing,
			constraint: "support_tickets_customer_id_fkey",
		},
		{
			name:       "check",
			err:        &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "support_tickets_status_check"},
			want:       ErrConstraint,
			constraint: "support_tickets_status_check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPostgresError(tt.err)
			require.ErrorIs(t, got, tt.want)
			require.Equal(t, tt.constraint, ConstraintName(got))
		})
	}
}

func TestMapPostgresError_passthrough(t *testing.T) {
	require.NoError(t, mapPostgresError(nil))

	plain := errors.New("dial tcp: refused")
	require.Equal(t, plain, mapPostgresError(plain))

	other := mapPostgresError(&pgconn.PgError{Code: pgerrcode.DiskFull, Message: "disk full"})
	require.Error(t, other)
	require.NotErrorIs(t, other, ErrDuplicate)
	require.Empty(t, ConstraintName(other))
}
