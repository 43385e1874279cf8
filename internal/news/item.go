// Package news defines the domain types shared by the board engine, the API
// client, and the local cache: items, the closed status/category enumerations,
// filter specifications, and derived statistics.
package news

import (
	"fmt"
	"time"
)

// Status is the workflow stage of an item. It determines column membership
// on the board: an item belongs to exactly one column at any instant.
type Status string

const (
	StatusPending Status = "pending" // "To Read" column
	StatusReading Status = "reading" // "Reading" column
	StatusRead    Status = "read"    // "Completed" column
)

// Statuses lists all valid statuses in board column order.
var Statuses = []Status{StatusPending, StatusReading, StatusRead}

// Valid reports whether s is one of the three workflow stages.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReading, StatusRead:
		return true
	}
	return false
}

// ColumnTitle returns the board column label for a status.
func (s Status) ColumnTitle() string {
	switch s {
	case StatusPending:
		return "To Read"
	case StatusReading:
		return "Reading"
	case StatusRead:
		return "Completed"
	}
	return string(s)
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid news status: %q", s)
	}
	return st, nil
}

// Category classifies an item's content.
type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryResearch Category = "research"
	CategoryProduct  Category = "product"
	CategoryCompany  Category = "company"
	CategoryTutorial Category = "tutorial"
	CategoryOpinion  Category = "opinion"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryResearch,
	CategoryProduct,
	CategoryCompany,
	CategoryTutorial,
	CategoryOpinion,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a wire string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid news category: %q", s)
	}
	return c, nil
}

// Item is a single entry on the reading board.
//
// JSON tags match the backend wire names. The ID is opaque and unique per
// user; the server assigns it at creation time.
type Item struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Link      string     `json:"link"`
	ImageURL  string     `json:"image_url,omitempty"`
	Status    Status     `json:"status"`
	Category  Category   `json:"category"`
	Favorite  bool       `json:"is_favorite"`
	Note      string     `json:"personal_note,omitempty"`
	UserID    string     `json:"user_id"`
	Public    bool       `json:"is_public"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Validate checks the closed enumerations. Items arriving from the server or
// the cache must pass before entering the board store.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item missing id")
	}
	if !it.Status.Valid() {
		return fmt.Errorf("item %s: invalid status %q", it.ID, it.Status)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("item %s: invalid category %q", it.ID, it.Category)
	}
	return nil
}
