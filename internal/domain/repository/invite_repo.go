package repository

import "github.com/yourusername/elearn-api/internal/domain/entity"

// InviteRepository определяет методы для работы с хранилищем приглашений
type InviteRepository interface {
	Create(invite *entity.Invite) error
	GetByToken(token string) (*entity.Invite, error)
	Update(invite *entity.Invite) error
}
