package model

// User is the profile of the person using the client.
type User struct {
	ID                          int64     `json:"id"`
	Username                    string    `json:"username"`
	Email                       string    `json:"email"`
	EmailNotificationsEnabled   bool      `json:"email_notifications_enabled"`
	BrowserNotificationsEnabled bool      `json:"browser_notifications_enabled"`
	CreatedAt                   Timestamp `json:"created_at"`
}

// NewUser is the request body for creating a user.
type NewUser struct {
	Username                    string `json:"username"`
	Email                       string `json:"email"`
	EmailNotificationsEnabled   bool   `json:"email_notifications_enabled"`
	BrowserNotificationsEnabled bool   `json:"browser_notifications_enabled"`
}

// UserUpdate is the request body for updating a user. Nil fields are
// omitted so the backend leaves them unchanged.
type UserUpdate struct {
	Username                    *string `json:"username,omitempty"`
	Email                       *string `json:"email,omitempty"`
	EmailNotificationsEnabled   *bool   `json:"email_notifications_enabled,omitempty"`
	BrowserNotificationsEnabled *bool   `json:"browser_notifications_enabled,omitempty"`
}
