package community

import "time"

type CreateContentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Price       *float64 `json:"price"`
}

type ContentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image"`
	Location    string    `json:"location"`
	Date        *string   `json:"date"`
	Price       *float64  `json:"price,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ContentListResponse struct {
	Success bool              `json:"success"`
	Data    []ContentResponse `json:"data"`
	Total   int64             `json:"total"`
}
