package helper

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	// keeps (CurrentPage-1)*PerPage far from overflowing
	maxCurrentPage = 1_000_000
)

type Page struct {
	PerPage     int
	CurrentPage int
	Search      string
}

func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	currentPage, err := strconv.Atoi(q.Get("current_page"))
	if err != nil || currentPage <= 0 {
		currentPage = 1
	}
	if currentPage > maxCurrentPage {
		currentPage = maxCurrentPage
	}
	return Page{
		PerPage:     perPage,
		CurrentPage: currentPage,
		Search:      strings.TrimSpace(q.Get("q")),
	}
}

func (p Page) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

// Search adds a case-insensitive substring match over columns. LOWER/LIKE
// keeps it portable between postgres and sqlite.
func Search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// Paginate counts the filtered query, loads the requested page into dest and
// returns the list envelope the console expects. Preloads only apply to the
// page query.
func Paginate[T any](query *gorm.DB, page Page, dest *[]T, preloads ...string) (map[string]any, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	find := query.Session(&gorm.Session{})
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Order("id DESC").Limit(page.PerPage).Offset(page.Offset()).Find(dest).Error; err != nil {
		return nil, err
	}
	if *dest == nil {
		*dest = []T{}
	}
	return map[string]any{
		"data": *dest,
		"pagination": map[string]any{
			"current_page": page.CurrentPage,
			"per_page":     page.PerPage,
			"total":        total,
			"total_pages":  (total + int64(page.PerPage) - 1) / int64(page.PerPage),
		},
	}, nil
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
