package notification

import "context"

// InviteEmail is everything the invite email template needs.
type InviteEmail struct {
	To          string `json:"to"`
	FamilyName  string `json:"familyName"`
	InviterName string `json:"inviterName"`
	Role        string `json:"role"`
	JoinLink    string `json:"joinLink"`
	ExpiresAt   string `json:"expiresAt"`
}

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
