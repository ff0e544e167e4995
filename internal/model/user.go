package model

import "time"

// User is a person who signed in through the identity provider. ID is the
// provider's uid.
type User struct {
	ID           string    `gorm:"primaryKey;size:128" json:"id"`
	Email        string    `gorm:"size:320;index" json:"email"`
	DisplayName  string    `gorm:"size:255" json:"displayName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}
