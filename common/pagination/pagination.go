package pagination

const DefaultPageSize = 20

// Request is a page/pageSize pair as received at the API boundary.
// Page numbering starts at 1.
type Request struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewRequest clamps page and pageSize to usable values.
func NewRequest(page, pageSize int) Request {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return Request{Page: page, PageSize: pageSize}
}

// Offset returns the number of rows to skip for this page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Pages describes the position of a page within the full result set.
// TotalItems always reflects the full match count, not the page size.
type Pages struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPages derives the pagination block for a request over totalItems rows.
func NewPages(r Request, totalItems int) Pages {
	totalPages := (totalItems + r.PageSize - 1) / r.PageSize

	return Pages{
		CurrentPage: r.Page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     r.Page < totalPages,
		HasPrev:     r.Page > 1,
	}
}

// Slice returns the [start, end) bounds of this page over a slice of length n.
func (r Request) Slice(n int) (int, int) {
	start := r.Offset()
	if start > n {
		start = n
	}

	end := start + r.PageSize
	if end > n {
		end = n
	}

	return start, end
}
