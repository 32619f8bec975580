package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
	"github.com/yourusername/elearn-api/pkg/auth"
)

// AuthService отвечает за регистрацию, вход и смену пароля
type AuthService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	jwtService *auth.JWTService,
) (*AuthService, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("jwtService is required")
	}
	return &AuthService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		jwtService: jwtService,
	}, nil
}

// Register создает нового пользователя. Если передан inviteToken,
// роль берется из приглашения, а приглашение помечается принятым.
func (s *AuthService) Register(username, email, password, inviteToken string) (*entity.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperrors.ErrConflict)
	}

	role := entity.RoleUser
	var invite *entity.Invite

	if inviteToken != "" {
		var err error
		invite, err = s.inviteRepo.GetByToken(inviteToken)
		if err != nil {
			return nil, fmt.Errorf("invite not found: %w", apperrors.ErrValidation)
		}
		if invite.IsAccepted() {
			return nil, fmt.Errorf("invite already used: %w", apperrors.ErrConflict)
		}
		if invite.IsExpired(time.Now()) {
			return nil, fmt.Errorf("invite expired: %w", apperrors.ErrValidation)
		}
		if invite.Email != email {
			return nil, fmt.Errorf("invite was issued for a different email: %w", apperrors.ErrValidation)
		}
		role = invite.Role
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if invite != nil {
		now := time.Now()
		invite.AcceptedAt = &now
		if err := s.inviteRepo.Update(invite); err != nil {
			// Пользователь уже создан; логируем, но регистрацию не откатываем
			log.Printf("[AuthService] Не удалось пометить приглашение %d принятым: %v", invite.ID, err)
		}
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %s (role=%s)", user.Email, user.Role)
	return user, nil
}

// Login проверяет учетные данные и выпускает access-токен.
// Несуществующий email и неверный пароль дают одинаковую ошибку.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", fmt.Errorf("account is disabled: %w", apperrors.ErrForbidden)
	}
	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ChangePassword меняет пароль после проверки старого
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return fmt.Errorf("old password does not match: %w", apperrors.ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, string(hashed))
}
