package models

import "github.com/google/uuid"

// NewID generates a random unique identifier for tasks, activities, or
// resources created programmatically.
func NewID() string {
	return uuid.NewString()
}
