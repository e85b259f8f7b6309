package kvtree

import "github.com/google/uuid"

// NewKey returns a time-ordered child key for Append
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
