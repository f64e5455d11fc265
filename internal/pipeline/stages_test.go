package pipeline

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/model"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func searchVars(t *testing.T, query string) []interface{} {
	t.Helper()
	db := newDryRunDB(t)

	var rows []model.Video
	stmt := Search{Query: query}.apply(db.Model(&model.Video{})).Find(&rows).Statement
	require.Len(t, stmt.Vars, 2)
	return stmt.Vars
}

func TestSearchPattern(t *testing.T) {
	vars := searchVars(t, "golang")
	assert.Equal(t, "%golang%", vars[0])
	assert.Equal(t, "%golang%", vars[1])
}

func TestSearchEscapesWildcards(t *testing.T) {
	// A literal % or _ in the query must not act as a wildcard; searching
	// for "100%" should not match every row.
	tests := []struct {
		query string
		want  string
	}{
		{query: "100%", want: `%100\%%`},
		{query: "snake_case", want: `%snake\_case%`},
		{query: `back\slash`, want: `%back\\slash%`},
		{query: "%_", want: `%\%\_%`},
	}

	for _, tt := range tests {
		vars := searchVars(t, tt.query)
		assert.Equal(t, tt.want, vars[0], "query %q", tt.query)
	}
}
