package domain

type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"passwordHash" gorm:"not null"`
}
