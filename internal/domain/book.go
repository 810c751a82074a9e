package domain

import "time"

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "AVAILABLE"
	BookStatusBorrowed    BookStatus = "BORROWED"
	BookStatusMaintenance BookStatus = "MAINTENANCE"
)

// Book represents a catalog entry. AvailableCopies is authoritative for
// availability; Status is a display label kept consistent with the copy
// counts on every circulation mutation.
type Book struct {
	ID              int32      `json:"id"`
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher"`
	PublishYear     int32      `json:"publish_year"`
	CategoryID      int32      `json:"category_id"`
	TotalCopies     int32      `json:"total_copies"`
	AvailableCopies int32      `json:"available_copies"`
	Status          BookStatus `json:"status"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// DerivedStatus computes the display label from the copy counts. Maintenance
// is sticky: it is only entered and left through explicit catalog operations.
func (b *Book) DerivedStatus() BookStatus {
	if b.Status == BookStatusMaintenance {
		return BookStatusMaintenance
	}
	if b.AvailableCopies <= 0 {
		return BookStatusBorrowed
	}
	return BookStatusAvailable
}

// Category groups books. A category cannot be deleted while books reference it.
type Category struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
