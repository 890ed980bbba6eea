package pagination

import (
	"fmt"
	"strings"

	"github.com/Denn4ik2010/online-shop/shared/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params is the page/pageSize pair bound from the query string.
type Params struct {
	Page     int `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults and clamps pageSize.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Params) Offset() int {
	n := p.Normalize()
	return n.PageSize * (n.Page - 1)
}

func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Sort is the sortBy/order pair bound from the query string.
type Sort struct {
	SortBy string `form:"sortBy" json:"sortBy" validate:"omitempty,max=30"`
	Order  string `form:"order" json:"order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// OrderBy resolves the sort against a whitelist of api field -> column and
// returns an ORDER BY expression. An empty sort means id desc. Other columns
// get the id column as a tiebreaker so pages do not overlap.
func (s Sort) OrderBy(columns map[string]string) (string, error) {
	field := s.SortBy
	if field == "" {
		field = "id"
	}
	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidSort, field)
	}
	dir := "DESC"
	if strings.EqualFold(s.Order, "asc") {
		dir = "ASC"
	}
	if idCol, ok := columns["id"]; ok && idCol != col {
		return col + " " + dir + ", " + idCol + " " + dir, nil
	}
	return col + " " + dir, nil
}

// Page is one page of items with the navigation metadata.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	PrevPage   *int
	NextPage   *int
}

// New computes the page metadata for total rows under params.
func New[T any](items []T, total int, params Params) *Page[T] {
	p := params.Normalize()
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}
	page := &Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
	if p.Page > 1 {
		prev := p.Page - 1
		page.PrevPage = &prev
	}
	if p.Page < totalPages {
		next := p.Page + 1
		page.NextPage = &next
	}
	return page
}

// Envelope renders the page as a JSON object with the items under key.
func (p *Page[T]) Envelope(key string) map[string]any {
	return map[string]any{
		key:          p.Items,
		"total":      p.Total,
		"page":       p.Page,
		"pageSize":   p.PageSize,
		"totalPages": p.TotalPages,
		"prevPage":   p.PrevPage,
		"nextPage":   p.NextPage,
	}
}
