package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the listing envelope shared by the events and transactions
// endpoints. TotalElements counts every row in scope, FilteredElements
// counts rows surviving search/date filters; paging math runs on the
// filtered count.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Page             int   `json:"page"`
	PageSize         int   `json:"pageSize"`
	TotalElements    int64 `json:"totalElements"`
	FilteredElements int64 `json:"filteredElements"`
	TotalPages       int   `json:"totalPages"`
	HasNext          bool  `json:"hasNext"`
}

func New[T any](content []T, page, pageSize int, total, filtered int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := int((filtered + int64(pageSize) - 1) / int64(pageSize))
	offset := int64(page-1) * int64(pageSize)
	return Page[T]{
		Content:          content,
		Page:             page,
		PageSize:         pageSize,
		TotalElements:    total,
		FilteredElements: filtered,
		TotalPages:       totalPages,
		HasNext:          offset+int64(pageSize) < filtered,
	}
}

// Normalize clamps page to >= 1 and pageSize to (0, MaxPageSize],
// defaulting pageSize when unset.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset returns the row offset for a normalized page/pageSize pair.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
