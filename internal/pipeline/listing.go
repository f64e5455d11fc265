package pipeline

import (
	"math"
	"strconv"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/constants"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/model"
)

// Sortable columns by their request-facing names. Anything else falls back
// to the default newest-first ordering rather than reaching the store.
var sortableColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"duration":  "duration",
	"views":     "views",
}

const (
	defaultSortColumn = "created_at"
)

// Listing is an ordered video listing query: filter stages first, then sort,
// then pagination.
type Listing struct {
	stages []Stage
	page   int
	limit  int
}

// BuildListing assembles the listing pipeline from request parameters and
// the resolved viewer identity (0 when anonymous). A malformed owner
// identifier fails with ErrInvalidID before any store work.
func BuildListing(params constants.ListParams, viewerID uint) (*Listing, error) {
	l := &Listing{page: params.Page, limit: params.Limit}

	var ownerID uint
	if params.OwnerID != "" {
		parsed, err := strconv.ParseUint(params.OwnerID, 10, 64)
		if err != nil || parsed == 0 {
			return nil, apperrors.ErrInvalidID
		}
		ownerID = uint(parsed)
		l.stages = append(l.stages, MatchOwner{OwnerID: ownerID})
	}

	// An owner browsing their own channel sees unpublished content too.
	ownView := ownerID != 0 && viewerID == ownerID
	l.stages = append(l.stages, Visibility{PublishedOnly: !ownView})

	if params.Query != "" {
		l.stages = append(l.stages, Search{Query: params.Query})
	}

	l.stages = append(l.stages, buildSort(params.SortBy, params.SortType))
	l.stages = append(l.stages, Paginate{Page: params.Page, Limit: params.Limit})

	return l, nil
}

func buildSort(sortBy, sortType string) Sort {
	if column, ok := sortableColumns[sortBy]; ok {
		return Sort{Column: column, Descending: sortType == constants.SortDesc}
	}
	return Sort{Column: defaultSortColumn, Descending: true}
}

// Stages exposes the ordered stage descriptors.
func (l *Listing) Stages() []Stage {
	return l.stages
}

// Result is one page of a listing run.
type Result struct {
	Docs      []model.Video
	Total     int64
	Page      int
	PageTotal int
}

// Run executes the pipeline: filter stages feed the total count, then the
// full stage list produces the page slice. An empty match is an empty
// result, never an error.
func (l *Listing) Run(db *gorm.DB) (*Result, error) {
	counted := db.Model(&model.Video{})
	for _, stage := range l.stages {
		switch stage.Kind() {
		case StageSort, StagePaginate:
			continue
		}
		counted = stage.apply(counted)
	}

	var total int64
	if err := counted.Count(&total).Error; err != nil {
		return nil, err
	}

	query := db.Model(&model.Video{})
	for _, stage := range l.stages {
		query = stage.apply(query)
	}

	var docs []model.Video
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}

	return &Result{
		Docs:      docs,
		Total:     total,
		Page:      l.page,
		PageTotal: int(math.Ceil(float64(total) / float64(l.limit))),
	}, nil
}
