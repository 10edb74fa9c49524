package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	require.Empty(t, w.sql())

	w.add("ticket_status=?", "Open")
	w.add("potential_value BETWEEN ? AND ?", 10.0, 20.0)
	w.add("(first_name ILIKE ? OR last_name ILIKE ?)", "%a%", "%a%")

	require.Equal(t,
		" WHERE ticket_status=$1 AND potential_value BETWEEN $2 AND $3 AND (first_name ILIKE $4 OR last_name ILIKE $5)",
		w.sql())
	require.Len(t, w.args, 5)
}

func TestPageClause(t *testing.T) {
	require.Equal(t, " LIMIT 10 OFFSET 0", Page{}.clause())
	require.Equal(t, " LIMIT 25 OFFSET 50", Page{Limit: 25, Offset: 50}.clause())
	require.Equal(t, " LIMIT 5 OFFSET 0", Page{Limit: 5, Offset: -3}.clause())
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	require.Equal(t, "%grace%", containsPattern("grace"))
	require.Equal(t, `%\_%`, containsPattern("_"))
	require.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	require.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
