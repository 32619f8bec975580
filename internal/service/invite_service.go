package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// inviteTTL — срок действия приглашения
const inviteTTL = 7 * 24 * time.Hour

// InviteService создает приглашения и рассылает их по email
type InviteService struct {
	inviteRepo   repository.InviteRepository
	userRepo     repository.UserRepository
	emailService EmailService
	baseURL      string
}

// NewInviteService создает новый сервис приглашений
func NewInviteService(
	inviteRepo repository.InviteRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	baseURL string,
) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// CreateInvite создает приглашение с указанной ролью и отправляет письмо.
// Email, на который уже зарегистрирован пользователь, пригласить нельзя.
func (s *InviteService) CreateInvite(ctx context.Context, email, role string, invitedBy uint) (*entity.Invite, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", apperrors.ErrValidation)
	}
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
	}

	invite := &entity.Invite{
		Email:     email,
		Token:     uuid.NewString(),
		Role:      role,
		InvitedBy: invitedBy,
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	inviteURL := fmt.Sprintf("%s/register?invite=%s", s.baseURL, invite.Token)
	if err := s.emailService.SendInvite(ctx, email, inviteURL); err != nil {
		// Приглашение уже сохранено, токен можно передать вручную
		log.Printf("[InviteService] Не удалось отправить приглашение на %s: %v", email, err)
	}

	log.Printf("[InviteService] Создано приглашение для %s (role=%s)", email, role)
	return invite, nil
}
