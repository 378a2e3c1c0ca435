package models

// User is the authenticated principal resolved from a session token
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
