package models

import "github.com/google/uuid"

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"    json:"id"`
	Email        string     `gorm:"uniqueIndex;not null"    json:"email"`
	PasswordHash string     `gorm:"not null"                json:"-"`
	IsBanned     bool       `gorm:"not null;default:false"  json:"is_banned"`
	ResetUUID    *uuid.UUID `gorm:"type:uuid;index"         json:"-"`
}

// RevokedToken is a denylist entry for a single issued token. Tokens are
// otherwise self-verifying, so logout has to leave a durable record that
// outlives the request.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null"     json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt int64     `gorm:"not null"                 json:"expires_at"`
}
