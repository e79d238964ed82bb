package models

import "time"

// ContactMessage is a message submitted through the portfolio contact form.
type ContactMessage struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject,omitempty"`
	Message   string     `json:"message"`
	Status    string     `json:"status"` // e.g., "new", "replied", "archived"
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
