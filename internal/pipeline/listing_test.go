package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeworks/streamapi/internal/constants"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
)

func kinds(stages []Stage) []StageKind {
	out := make([]StageKind, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Kind())
	}
	return out
}

func TestBuildListingStageOrder(t *testing.T) {
	tests := []struct {
		name     string
		params   constants.ListParams
		viewerID uint
		want     []StageKind
	}{
		{
			name:   "bare listing",
			params: constants.ListParams{Page: 1, Limit: 10},
			want:   []StageKind{StageVisibility, StageSort, StagePaginate},
		},
		{
			name:   "owner filter plus search",
			params: constants.ListParams{Page: 1, Limit: 10, OwnerID: "7", Query: "golang"},
			want:   []StageKind{StageMatchOwner, StageVisibility, StageSearch, StageSort, StagePaginate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := BuildListing(tt.params, tt.viewerID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(l.Stages()))
		})
	}
}

func TestBuildListingInvalidOwnerID(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0", "12x"} {
		_, err := BuildListing(constants.ListParams{Page: 1, Limit: 10, OwnerID: raw}, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidID, "owner id %q", raw)
	}
}

func TestBuildListingVisibility(t *testing.T) {
	tests := []struct {
		name          string
		ownerID       string
		viewerID      uint
		publishedOnly bool
	}{
		{name: "anonymous viewer", ownerID: "7", viewerID: 0, publishedOnly: true},
		{name: "other viewer", ownerID: "7", viewerID: 3, publishedOnly: true},
		{name: "owner views own channel", ownerID: "7", viewerID: 7, publishedOnly: false},
		{name: "owner without owner filter", ownerID: "", viewerID: 7, publishedOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := BuildListing(constants.ListParams{Page: 1, Limit: 10, OwnerID: tt.ownerID}, tt.viewerID)
			require.NoError(t, err)

			var found bool
			for _, s := range l.Stages() {
				if v, ok := s.(Visibility); ok {
					found = true
					assert.Equal(t, tt.publishedOnly, v.PublishedOnly)
				}
			}
			require.True(t, found, "visibility stage missing")
		})
	}
}

func TestBuildListingSort(t *testing.T) {
	tests := []struct {
		name       string
		sortBy     string
		sortType   string
		wantColumn string
		wantDesc   bool
	}{
		{name: "default newest first", wantColumn: "created_at", wantDesc: true},
		{name: "explicit ascending", sortBy: "views", sortType: "asc", wantColumn: "views", wantDesc: false},
		{name: "explicit descending", sortBy: "title", sortType: "desc", wantColumn: "title", wantDesc: true},
		{name: "ascending is the default direction", sortBy: "duration", wantColumn: "duration", wantDesc: false},
		{name: "unknown column falls back", sortBy: "password", sortType: "asc", wantColumn: "created_at", wantDesc: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := BuildListing(constants.ListParams{Page: 1, Limit: 10, SortBy: tt.sortBy, SortType: tt.sortType}, 0)
			require.NoError(t, err)

			var sort Sort
			var found bool
			for _, s := range l.Stages() {
				if v, ok := s.(Sort); ok {
					sort, found = v, true
				}
			}
			require.True(t, found, "sort stage missing")
			assert.Equal(t, tt.wantColumn, sort.Column)
			assert.Equal(t, tt.wantDesc, sort.Descending)
		})
	}
}

func TestBuildListingPagination(t *testing.T) {
	l, err := BuildListing(constants.ListParams{Page: 3, Limit: 25}, 0)
	require.NoError(t, err)

	stages := l.Stages()
	last := stages[len(stages)-1]
	p, ok := last.(Paginate)
	require.True(t, ok, "pagination must be the final stage")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
}
