package shared

// Filter represents list query options shared by the read repositories.
type Filter struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 50,
	}
}

// Offset returns the row offset for the current page.
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the page size clamped to [1, 200].
func (f Filter) Limit() int {
	switch {
	case f.PageSize < 1:
		return 50
	case f.PageSize > 200:
		return 200
	default:
		return f.PageSize
	}
}
