package models

// InviteStatus is the state of a project invite
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

// RequestStatus is the state of a project application.
// The capitalized terminal states are stored as-is for compatibility with existing clients.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "Accepted"
	RequestStatusDeclined RequestStatus = "Declined"
)
