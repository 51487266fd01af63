package user

// FirstPage is the page number the remote listing starts at.
const FirstPage = 1

// DefaultPerPage is the page size requested when none is configured.
const DefaultPerPage = 20

// Pagination describes where a fetched page sits in the remote listing.
type Pagination struct {
	Page     int // Page that was returned (1-based)
	LastPage int // Last page advertised by the Link header, 0 if unknown
}

// NewPagination creates a new Pagination instance.
func NewPagination(page, lastPage int) *Pagination {
	return &Pagination{
		Page:     page,
		LastPage: lastPage,
	}
}

// HasLast reports whether the listing advertised its last page.
func (p *Pagination) HasLast() bool {
	return p.LastPage > 0
}
