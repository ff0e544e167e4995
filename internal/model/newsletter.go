package model

import "time"

// Subscription is a newsletter signup. Emails are unique.
type Subscription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Subscription) TableName() string {
	return "newsletter_subscriptions"
}
