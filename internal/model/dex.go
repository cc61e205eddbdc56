package model

// Dex represents an exchange whose pools are tracked.
type Dex struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
