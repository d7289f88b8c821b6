package user

import "time"

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	IsProducer   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type UpdateInput struct {
	UserID   string
	Username *string
	Email    *string
}
