package catalog

import "math"

// Paginate slices items into the requested page. Pages past the end (or
// below one) yield an empty page rather than an error; CurrentPage always
// echoes the requested page.
func Paginate(items []Product, pageSize, page int) (PageResult, error) {
	if pageSize <= 0 {
		return PageResult{}, ErrInvalidPageSize
	}
	total := len(items)
	result := PageResult{
		Items:       []Product{},
		TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
		CurrentPage: page,
		TotalItems:  total,
	}

	start := (page - 1) * pageSize
	if start < 0 || start >= total {
		return result, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	result.Items = append(result.Items, items[start:end]...)
	return result, nil
}
