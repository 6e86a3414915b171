package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses (rendered by the central error handler).
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createProductRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Quantity    int    `json:"quantity"    validate:"gte=0"`
}

type updateProductRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Quantity    int    `json:"quantity"    validate:"gte=0"`
}

type stockMoveRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// --- Response types ---

// productResponse is the transport view of a product. It is intentionally
// separate from the domain type so the JSON contract is not coupled to
// internal changes.
type productResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Quantity    int        `json:"quantity"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
