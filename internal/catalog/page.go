package catalog

import "github.com/MrSnakeDoc/artcrate/internal/models"

// PageSizes are the selectable page sizes; 0 shows everything.
var PageSizes = []int{10, 20, 50, 0}

const (
	DefaultPerPage = 20
	DefaultWindow  = 5
	// Gap marks an elided run of pages in a PageWindow.
	Gap = 0
)

type Page struct {
	Items      []models.Asset `json:"items"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
	Start      int            `json:"start"`
	End        int            `json:"end"`
}

// Paginate slices items to the requested page. perPage <= 0 returns every
// item on a single page. page is clamped into [1, TotalPages].
func Paginate(items []models.Asset, page, perPage int) Page {
	if perPage < 0 {
		perPage = 0
	}
	total := len(items)

	totalPages := 1
	if perPage > 0 && total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	page = clamp(page, 1, totalPages)

	p := Page{Page: page, PerPage: perPage, TotalPages: totalPages, Total: total, Items: []models.Asset{}}
	if total == 0 {
		return p
	}

	lo, hi := 0, total
	if perPage > 0 {
		lo = (page - 1) * perPage
		hi = min(lo+perPage, total)
	}
	p.Items = append(p.Items, items[lo:hi]...)
	p.Start, p.End = lo+1, hi
	return p
}

// PageWindow lists the page numbers to offer around current, at most size
// entries plus Gap markers. The first and last pages are always present.
func PageWindow(current, total, size int) []int {
	if total < 1 {
		return []int{}
	}
	if size < 3 {
		size = 3
	}
	current = clamp(current, 1, total)

	out := make([]int, 0, size+2)
	if total <= size {
		for i := 1; i <= total; i++ {
			out = append(out, i)
		}
		return out
	}

	span := size - 2
	start := clamp(current-span/2, 2, total-1)
	end := min(total-1, start+span-1)
	if end-start+1 < span {
		start = clamp(end-span+1, 2, total-1)
	}

	out = append(out, 1)
	if start > 2 {
		out = append(out, Gap)
	}
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	if end < total-1 {
		out = append(out, Gap)
	}
	return append(out, total)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
