package client

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage form of a birth date.
const DateLayout = "2006-01-02"

// Client is a customer record. Optional fields are nil when unknown.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	BirthDate *string   `json:"birthDate"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a client listing. Empty fields match everything.
type Filter struct {
	Name  string
	Email string
	Phone string
}
