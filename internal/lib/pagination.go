package lib

// Paginate applies offset/limit pagination to an already sorted slice.
// Pages are 1-based. It returns the page slice and whether further pages
// exist beyond it.
func Paginate[T any](items []T, page int, limit int) ([]T, bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return nil, false
	}

	offset := (page - 1) * limit
	if offset >= len(items) {
		return nil, false
	}

	end := offset + limit
	hasMore := end < len(items)
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end], hasMore
}
