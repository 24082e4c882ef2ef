package models

// Status marks whether an entity is visible or has been hidden by the
// profanity filter. Banned rows are kept, they just drop out of listings.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusBanned Status = "BANNED"
)
