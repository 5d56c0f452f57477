package types

// LayoutsResponse wraps the list of layouts returned by GET /api/layouts.
type LayoutsResponse struct {
	// Layouts visible on the dashboard, in registry order.
	Layouts []Layout `json:"layouts"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: layout not found: desk
	Error string `json:"error" example:"layout not found: desk"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
