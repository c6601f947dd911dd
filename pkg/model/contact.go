package model

import (
	"net/mail"
	"strings"
	"time"
)

// ContactSubmission is a message left through the public contact form.
type ContactSubmission struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemID implements Item.
func (s ContactSubmission) ItemID() string { return s.ID }

// ContactMessage is the body of POST /contact.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Validate checks the contact form rules.
func (m ContactMessage) Validate() error {
	var v validator
	if strings.TrimSpace(m.Name) == "" {
		v.add("name", "Name is required.")
	}
	v.maxLen("name", m.Name, 100, "Name cannot exceed 100 characters.")
	if _, err := mail.ParseAddress(m.Email); err != nil {
		v.add("email", "Invalid email address.")
	}
	v.maxLen("subject", m.Subject, 150, "Subject cannot exceed 150 characters.")
	v.minLen("message", m.Message, 10, "Message must be at least 10 characters long.")
	v.maxLen("message", m.Message, 5000, "Message cannot exceed 5000 characters.")
	return v.err("Invalid contact message")
}

// ContactReceipt is returned by POST /contact.
type ContactReceipt struct {
	Message    string             `json:"message"`
	Submission *ContactSubmission `json:"submission,omitempty"`
}

// ContactStatusUpdate is the body of PATCH /admin/contact-submissions/{id}/status.
type ContactStatusUpdate struct {
	IsRead bool `json:"isRead"`
}

// ContactFilter holds the admin contact list parameters.
type ContactFilter struct {
	Page      int       `url:"page,omitempty"`
	Limit     int       `url:"limit,omitempty"`
	IsRead    *bool     `url:"isRead,omitempty"`
	SortBy    string    `url:"sortBy,omitempty"`
	SortOrder SortOrder `url:"sortOrder,omitempty"`
}

// ListOptions returns the clamped pagination part of the filter.
func (f ContactFilter) ListOptions() ListOptions {
	o := ListOptions{Page: f.Page, Limit: f.Limit}
	o.Clamp()
	return o
}
