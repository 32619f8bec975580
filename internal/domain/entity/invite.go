package entity

import "time"

// Invite представляет приглашение в систему.
// Токен отправляется на email, при регистрации по токену пользователю
// присваивается роль из приглашения.
type Invite struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"size:100;not null;index" json:"email"`
	Token      string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Role       string     `gorm:"size:20;not null;default:'user'" json:"role"`
	InvitedBy  uint       `gorm:"not null" json:"invited_by"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Invite) TableName() string {
	return "invites"
}

// IsAccepted проверяет, было ли приглашение уже использовано
func (i *Invite) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired проверяет, истекло ли приглашение на момент now
func (i *Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
