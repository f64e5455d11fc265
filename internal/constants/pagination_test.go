package constants

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func listParamsFor(t *testing.T, rawQuery string) ListParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/videos?"+rawQuery, nil)
	return ParseListParams(c)
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ListParams
	}{
		{
			name:  "defaults",
			query: "",
			want:  ListParams{Page: 1, Limit: 10},
		},
		{
			name:  "explicit values",
			query: "page=3&limit=25&query=cats&sortBy=views&sortType=desc&userId=7",
			want:  ListParams{Page: 3, Limit: 25, Query: "cats", SortBy: "views", SortType: "desc", OwnerID: "7"},
		},
		{
			name:  "page below minimum clamps",
			query: "page=0",
			want:  ListParams{Page: 1, Limit: 10},
		},
		{
			name:  "negative page clamps",
			query: "page=-5",
			want:  ListParams{Page: 1, Limit: 10},
		},
		{
			name:  "limit above maximum clamps",
			query: "limit=5000",
			want:  ListParams{Page: 1, Limit: 100},
		},
		{
			name:  "zero limit clamps up",
			query: "limit=0",
			want:  ListParams{Page: 1, Limit: 1},
		},
		{
			name:  "non-numeric page falls back and clamps",
			query: "page=abc&limit=xyz",
			want:  ListParams{Page: 1, Limit: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listParamsFor(t, tt.query))
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, ListParams{Page: 5, Limit: 10}.Offset())
}
