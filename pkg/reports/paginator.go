package reports

// Page bundles one fetched page of rows with the total matching-row count
// from the count phase. Total reflects the filtered row count, so a page
// past the end carries zero rows but the true total.
type Page[T any] struct {
	Rows       []T   `json:"rows"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPage assembles a Page from fetched rows and the count-phase total.
func NewPage[T any](rows []T, total int64, pg Pagination) *Page[T] {
	return &Page[T]{
		Rows:       rows,
		Total:      total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: TotalPages(total, pg.Limit),
	}
}

// TotalPages returns ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
