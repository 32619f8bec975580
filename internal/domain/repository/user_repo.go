package repository

import "github.com/yourusername/elearn-api/internal/domain/entity"

// UserRepository определяет методы для работы с хранилищем пользователей
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdatePassword(userID uint, hashedPassword string) error
}
