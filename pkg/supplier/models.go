package supplier

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor record.
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a supplier listing.
type Filter struct {
	Name  string
	Phone string
}
