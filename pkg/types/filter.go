package types

// Filter carries list query parameters after parsing.
//
//	/api/work-orders?search=6810&sort[scheduled_date]=desc&filter[status]=OPEN,IN_PROGRESS&limit=20&page=1
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// PaginationFor builds the response metadata for a page of total rows.
func (f Filter) PaginationFor(total uint64) Pagination {
	pages := 0
	if f.Limit > 0 {
		pages = int((total + uint64(f.Limit) - 1) / uint64(f.Limit))
	}
	return Pagination{TotalCount: total, Page: f.Page, Limit: f.Limit, TotalPages: pages}
}
