package model

// DefaultPageSize matches the server default and the expense table height.
const DefaultPageSize = 10

// Pagination is the server-reported paging envelope on list responses.
type Pagination struct {
	Total    int
	Page     int
	PageSize int
	Pages    int
}

// PageCount returns ceil(total / pageSize).
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageBounds returns the half-open slice bounds for a 1-based page over a
// client-side list. ok is false when the page is out of range, in which
// case the caller keeps its current page.
func PageBounds(total, page, pageSize int) (start, end int, ok bool) {
	pages := PageCount(total, pageSize)
	if page < 1 || page > pages {
		return 0, 0, false
	}
	start = (page - 1) * pageSize
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, true
}
