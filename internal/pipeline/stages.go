package pipeline

import (
	"strings"

	"gorm.io/gorm"
)

// StageKind tags the discrete, composable steps a listing query is built
// from. Stages are pure descriptors; nothing touches the store until Run.
type StageKind string

const (
	StageMatchOwner StageKind = "match_owner"
	StageVisibility StageKind = "visibility"
	StageSearch     StageKind = "search"
	StageSort       StageKind = "sort"
	StagePaginate   StageKind = "paginate"
)

// Stage is one step of a constructed query.
type Stage interface {
	Kind() StageKind
	apply(db *gorm.DB) *gorm.DB
}

// MatchOwner restricts results to a single owner.
type MatchOwner struct {
	OwnerID uint
}

func (s MatchOwner) Kind() StageKind { return StageMatchOwner }

func (s MatchOwner) apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

// Visibility hides unpublished documents unless the viewer is inspecting
// their own content.
type Visibility struct {
	PublishedOnly bool
}

func (s Visibility) Kind() StageKind { return StageVisibility }

func (s Visibility) apply(db *gorm.DB) *gorm.DB {
	if !s.PublishedOnly {
		return db
	}
	return db.Where("is_published = ?", true)
}

// Search matches a case-insensitive substring across title and description,
// OR-combined.
type Search struct {
	Query string
}

func (s Search) Kind() StageKind { return StageSearch }

// likeEscaper neutralizes LIKE wildcards in user input so a search for
// "100%" matches the literal text instead of everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s Search) apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(s.Query) + "%"
	return db.Where(`title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\'`, pattern, pattern)
}

// Sort orders results by a whitelisted column.
type Sort struct {
	Column     string
	Descending bool
}

func (s Sort) Kind() StageKind { return StageSort }

func (s Sort) apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Descending {
		direction = "DESC"
	}
	return db.Order(s.Column + " " + direction)
}

// Paginate slices one page out of the ordered result set.
type Paginate struct {
	Page  int
	Limit int
}

func (s Paginate) Kind() StageKind { return StagePaginate }

func (s Paginate) apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset((s.Page - 1) * s.Limit)
}
