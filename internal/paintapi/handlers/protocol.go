package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"paint-backend/internal/paintapi/data"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type adminResponse struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"last_login"`
}

func toAdminResponse(account data.AdminAccount) adminResponse {
	return adminResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		LastLogin: account.LastLogin,
	}
}

type productResponse struct {
	ID          int                        `json:"id"`
	Name        string                     `json:"name"`
	Category    string                     `json:"category"`
	Description string                     `json:"description"`
	Stock       string                     `json:"stock"`
	ImageURL    *string                    `json:"image_url"`
	Features    []string                   `json:"features"`
	Prices      map[string]decimal.Decimal `json:"prices"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func toProductResponse(p data.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Features:    p.Features,
		Prices:      p.Prices,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type popularProductResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	ImageURL    *string   `json:"image_url"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPopularProductResponse(p data.PopularProduct) popularProductResponse {
	return popularProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        string(p.Type),
		Description: p.Description,
		Rating:      p.Rating,
		ImageURL:    p.ImageURL,
		Features:    p.Features,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type newArrivalResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"release_date"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toNewArrivalResponse(a data.NewArrival) newArrivalResponse {
	return newArrivalResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		ReleaseDate: a.ReleaseDate,
		ImageURL:    a.ImageURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type newsEventResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Content     string     `json:"content"`
	Date        time.Time  `json:"date"`
	EndDate     *time.Time `json:"end_date"`
	Highlighted bool       `json:"highlighted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toNewsEventResponse(e data.NewsEvent) newsEventResponse {
	return newsEventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Type:        string(e.Type),
		Content:     e.Content,
		Date:        e.Date,
		EndDate:     e.EndDate,
		Highlighted: e.Highlighted,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type contactSubmissionResponse struct {
	ID             int       `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Message        string    `json:"message"`
	SubmissionDate time.Time `json:"submission_date"`
	ReadStatus     bool      `json:"read_status"`
}

func toContactSubmissionResponse(s data.ContactSubmission) contactSubmissionResponse {
	return contactSubmissionResponse{
		ID:             s.ID,
		FullName:       s.FullName,
		Email:          s.Email,
		Message:        s.Message,
		SubmissionDate: s.SubmissionDate,
		ReadStatus:     s.ReadStatus,
	}
}

type contactInfoResponse struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func toContactInfoResponse(info data.ContactInfo) contactInfoResponse {
	return contactInfoResponse{
		ID:      info.ID,
		Email:   info.Email,
		Phone:   info.Phone,
		Address: info.Address,
	}
}

// pageResponse is the paginated list envelope.
type pageResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func toPage[In, Out any](items []In, total, skip, limit int, convert func(In) Out) pageResponse[Out] {
	out := make([]Out, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return pageResponse[Out]{
		Items: out,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}
