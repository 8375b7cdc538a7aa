package response

// Page is the envelope every list endpoint returns: the slice for the
// requested page plus the paging parameters and the unfiltered total.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse wraps a result slice. A nil slice becomes an empty one so
// the JSON body always carries an array, never null.
func NewPageResponse[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: page, PageSize: pageSize, Total: total}
}
