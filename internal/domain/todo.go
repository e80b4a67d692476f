package domain

import "time"

// Todo is a short note owned by a single user.
type Todo struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
