package api

// UserResponse is the body of GET /api/v1/me.
type UserResponse struct {
	ID    string `json:"id"`
	Scope string `json:"scope"`
}
