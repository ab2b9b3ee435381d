package model

import "time"

// LoginAttempt is an append-only audit row written by every login call.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);index;not null" json:"usuario"`
	Succeeded bool      `gorm:"not null" json:"exitoso"`
	IP        string    `gorm:"type:varchar(64)" json:"ip"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"fecha"`
}

// RevokedToken blacklists a session token after logout.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:text;uniqueIndex;not null" json:"token"`
	RevokedBy uint      `gorm:"not null;index" json:"usuario_id"`
	RevokedAt time.Time `gorm:"index;not null" json:"revocado_en"`
}

// RevokedTokenView is a revoked token joined with the username that revoked it.
type RevokedTokenView struct {
	ID        uint      `json:"id"`
	Token     string    `json:"token"`
	RevokedAt time.Time `json:"revocado_en"`
	Username  string    `json:"username"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"usuario"`
}

// AttemptFilter narrows the login attempt audit view.
type AttemptFilter struct {
	Username  string
	Succeeded *bool
	Limit     int `validate:"gte=1,lte=500"`
}
