package directory

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"venturescope-engine/internal/catalog"
)

// PageSize is fixed: the directory always shows 5 companies per page.
const PageSize = 5

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByStage SortKey = "stage"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Query is the full filter/sort configuration. An empty industry or
// stage filter means the same as "All".
type Query struct {
	Search         string    `json:"search"`
	IndustryFilter string    `json:"industryFilter"`
	StageFilter    string    `json:"stageFilter"`
	ShowSavedOnly  bool      `json:"showSavedOnly"`
	SortBy         SortKey   `json:"sortBy"`
	SortOrder      SortOrder `json:"sortOrder"`
}

type Page struct {
	Companies    []catalog.Company `json:"companies"`
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	TotalMatches int               `json:"total_matches"`
}

// Index filters, sorts, and paginates the immutable catalog. It holds
// no mutable state; Run is a pure function of its inputs, so running
// the same query twice yields identical pages.
type Index struct {
	companies []catalog.Company
	coll      *collate.Collator
}

func NewIndex(cat *catalog.Catalog) *Index {
	return &Index{
		companies: cat.Companies(),
		coll:      collate.New(language.English),
	}
}

// Run produces the requested 1-based page of the matching, sorted
// subsequence. saved reports membership in the starred-company set
// and is only consulted when q.ShowSavedOnly is set. A page past the
// end yields an empty page, never an error.
func (ix *Index) Run(q Query, saved func(name string) bool, page int) Page {
	matches := ix.match(q, saved)
	ix.sortMatches(q, matches)
	return paginate(matches, page)
}

func (ix *Index) match(q Query, saved func(string) bool) []catalog.Company {
	search := strings.ToLower(q.Search)

	var out []catalog.Company
	for _, c := range ix.companies {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if !filterAllows(q.IndustryFilter, c.Industry) {
			continue
		}
		if !filterAllows(q.StageFilter, c.Stage) {
			continue
		}
		if q.ShowSavedOnly && (saved == nil || !saved(c.Name)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func filterAllows(filter, value string) bool {
	return filter == "" || filter == "All" || filter == value
}

func (ix *Index) sortMatches(q Query, matches []catalog.Company) {
	key := func(c catalog.Company) string {
		if q.SortBy == SortByStage {
			return c.Stage
		}
		return c.Name
	}
	desc := q.SortOrder == Desc

	// Stable sort keeps catalog order across equal keys, which makes
	// pagination deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		cmp := ix.coll.CompareString(key(matches[i]), key(matches[j]))
		if desc {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func paginate(matches []catalog.Company, page int) Page {
	if page < 1 {
		page = 1
	}
	totalPages := (len(matches) + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(matches) {
		start = len(matches)
	}
	if end > len(matches) {
		end = len(matches)
	}

	return Page{
		Companies:    matches[start:end],
		Page:         page,
		TotalPages:   totalPages,
		TotalMatches: len(matches),
	}
}
