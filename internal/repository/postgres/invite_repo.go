package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// InviteRepo реализует repository.InviteRepository
type InviteRepo struct {
	db *gorm.DB
}

// NewInviteRepo создает новый репозиторий приглашений
func NewInviteRepo(db *gorm.DB) *InviteRepo {
	return &InviteRepo{db: db}
}

// Create создает новое приглашение
func (r *InviteRepo) Create(invite *entity.Invite) error {
	return r.db.Create(invite).Error
}

// GetByToken возвращает приглашение по токену
func (r *InviteRepo) GetByToken(token string) (*entity.Invite, error) {
	var invite entity.Invite
	err := r.db.Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// Update обновляет приглашение (например, отметку о принятии)
func (r *InviteRepo) Update(invite *entity.Invite) error {
	return r.db.Save(invite).Error
}
