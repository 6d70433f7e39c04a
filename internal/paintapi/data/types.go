package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdminAccount struct {
	LastLogin    *time.Time
	Username     string
	Email        string
	PasswordHash string
	ID           int
}

type RevokedToken struct {
	ExpiresAt time.Time
	Token     string
	ID        int
	UserID    int
}

// PriceSizes is the fixed set of container sizes a product may be priced
// in. It doubles as the column whitelist for dynamic price updates.
var PriceSizes = []string{
	"1l", "4l", "5l", "10l", "20l",
	"500ml", "200ml",
	"1kg", "500g", "200g", "100g", "50g",
}

type Product struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Prices      map[string]decimal.Decimal
	ImageURL    *string
	Name        string
	Category    string
	Description string
	Stock       string
	Features    []string
	ID          int
}

type ProductType string

const (
	InteriorProduct ProductType = "Interior"
	ExteriorProduct ProductType = "Exterior"
	OtherProduct    ProductType = "Other"
)

type PopularProduct struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ImageURL    *string
	Name        string
	Type        ProductType
	Description string
	Features    []string
	Rating      float64
	ID          int
}

type NewArrival struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReleaseDate time.Time
	ImageURL    *string
	Name        string
	Description string
	ID          int
}

type NewsEventType string

const (
	NewsType  NewsEventType = "news"
	EventType NewsEventType = "event"
)

type NewsEvent struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Date        time.Time
	EndDate     *time.Time
	Title       string
	Type        NewsEventType
	Content     string
	Highlighted bool
	ID          int
}

type ContactSubmission struct {
	SubmissionDate time.Time
	FullName       string
	Email          string
	Message        string
	ReadStatus     bool
	ID             int
}

// ContactInfo is a singleton row (id = 1).
type ContactInfo struct {
	UpdatedAt *time.Time
	Email     string
	Phone     string
	Address   string
	ID        int
}

// Changesets enumerate only the fields an update touches; nil means
// "leave as is". Repositories render them against fixed column whitelists.

type ProductChanges struct {
	Name        *string
	Category    *string
	Description *string
	Stock       *string
	ImageURL    *string
	Features    []string
	Prices      map[string]decimal.Decimal
}

type PopularProductChanges struct {
	Name        *string
	Type        *ProductType
	Description *string
	Rating      *float64
	ImageURL    *string
	Features    []string
}

type NewArrivalChanges struct {
	Name        *string
	Description *string
	ReleaseDate *time.Time
	ImageURL    *string
}

type NewsEventChanges struct {
	Title       *string
	Type        *NewsEventType
	Content     *string
	Date        *time.Time
	EndDate     *time.Time
	Highlighted *bool
}

type ProductFilter struct {
	Category string
	Search   string
	Skip     int
	Limit    int
}

type NewsEventFilter struct {
	Type        *NewsEventType
	Highlighted *bool
	Skip        int
	Limit       int
}
