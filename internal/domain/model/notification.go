package model

// EmailNotification is a fire-and-forget message handed to the outbound queue.
type EmailNotification struct {
	To         string
	Subject    string
	Body       string
	ConfirmURL string
}
