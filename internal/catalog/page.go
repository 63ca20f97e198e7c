package catalog

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// paginate slices items by offset/limit. An offset past the end yields an
// empty page; the total is always the unpaged length.
func paginate[T any](items []T, offset, limit *int) ([]T, int) {
	total := len(items)
	if offset != nil && *offset >= total {
		return []T{}, total
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, total)
	}

	end := total
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, total)
	}
	return items[start:end], total
}
