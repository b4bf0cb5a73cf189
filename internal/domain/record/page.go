package record

// Pagination describes the page returned and the size of the whole collection.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one slice of a collection.
type Page struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate slices records at offset (page-1)*limit. Pages before the first
// or past the last yield empty data, never an error. A non-positive limit
// yields empty data and zero pages.
func Paginate(records []Record, page, limit int) Page {
	total := len(records)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	data := []Record{}
	// page-1 < totalPages keeps the offset inside the collection without overflowing.
	if page >= 1 && limit > 0 && page-1 < totalPages {
		start := (page - 1) * limit
		end := total
		if limit < total-start {
			end = start + limit
		}
		data = append(data, records[start:end]...)
	}

	return Page{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
