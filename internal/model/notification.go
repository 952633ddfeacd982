package model

// Notification is an alert generated by the backend about activity on a todo.
type Notification struct {
	// ID is the backend-assigned identifier.
	ID int64 `json:"id"`

	// TodoID links this notification to the originating todo.
	TodoID *int64 `json:"todo_id"`

	// UserID is the owner of the notification.
	UserID int64 `json:"user_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Type is the delivery channel requested by the backend
	// ("email", "browser" or "both").
	Type string `json:"type"`

	// Sent is true once the notification has been delivered or read.
	Sent bool `json:"sent"`

	// SentAt is when the notification was marked sent.
	SentAt *Timestamp `json:"sent_at"`

	// CreatedAt is when the backend generated this notification.
	CreatedAt Timestamp `json:"created_at"`
}
