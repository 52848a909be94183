package models

// PageInfo describes one page of a remote collection listing.
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Limit       int  `json:"limit"`
	TotalCount  *int `json:"totalCount"`
}

// TotalPages computes the page count for a listing. When the backend reports
// a total count the math is exact; otherwise whether a next page exists is
// inferred from whether the current page came back full.
func TotalPages(totalCount *int, limit, page, itemsReturned int) int {
	if limit <= 0 {
		return 1
	}
	if totalCount != nil {
		pages := (*totalCount + limit - 1) / limit
		if pages < 1 {
			return 1
		}
		return pages
	}
	pages := page
	if itemsReturned == limit {
		pages = page + 1
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampLimit restricts a page size to the two supported values. Anything
// other than 5 becomes 10.
func ClampLimit(limit int) int {
	if limit == 5 {
		return 5
	}
	return 10
}

// ClampPage restricts a page number to a positive value.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
