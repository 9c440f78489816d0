package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/pkg/apperror"
	"github.com/skillverse/marketplace-backend/internal/repository"
)

// CertificateRepository описывает зависимости сервиса сертификатов.
type CertificateRepository interface {
	GetByCertID(ctx context.Context, certID string) (*models.Certificate, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Certificate, error)
}

// CertificateUserRepository даёт доступ к именам участников для публичной проверки.
type CertificateUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CertificateService отвечает за выпуск и проверку сертификатов.
type CertificateService struct {
	repo  CertificateRepository
	users CertificateUserRepository
}

// NewCertificateService создаёт сервис сертификатов.
func NewCertificateService(repo CertificateRepository, users CertificateUserRepository) *CertificateService {
	return &CertificateService{repo: repo, users: users}
}

// NewCertID генерирует публичный номер сертификата вида CERT-3F2A9B1C.
func NewCertID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CERT-" + strings.ToUpper(hex[:8])
}

// NormalizeCertID приводит введённый пользователем номер к каноническому виду.
func NormalizeCertID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Verify проверяет сертификат по публичному номеру. Для несуществующего
// номера возвращается ответ с valid=false, а не ошибка: проверка доступна
// без авторизации и не должна раскрывать, какие номера существуют.
func (s *CertificateService) Verify(ctx context.Context, rawCertID string) (*models.CertificateVerification, error) {
	certID := NormalizeCertID(rawCertID)
	if certID == "" {
		return &models.CertificateVerification{Valid: false}, nil
	}

	cert, err := s.repo.GetByCertID(ctx, certID)
	if err != nil {
		if errors.Is(err, repository.ErrCertificateNotFound) {
			return &models.CertificateVerification{Valid: false, CertID: certID}, nil
		}
		return nil, err
	}

	result := &models.CertificateVerification{
		Valid:      true,
		CertID:     cert.CertID,
		SkillTitle: cert.SkillTitle,
		IssuedAt:   cert.IssuedAt,
	}

	if client, err := s.users.GetByID(ctx, cert.ClientID); err == nil {
		result.ClientName = client.DisplayName()
	}
	if provider, err := s.users.GetByID(ctx, cert.ProviderID); err == nil {
		result.ProviderName = provider.DisplayName()
	}

	return result, nil
}

// GetByOrder возвращает сертификат заказа его участнику.
func (s *CertificateService) GetByOrder(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Certificate, error) {
	cert, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrCertificateNotFound) {
			return nil, apperror.ErrCertificateNotFound
		}
		return nil, err
	}

	if role != models.RoleAdmin && cert.ClientID != userID && cert.ProviderID != userID {
		return nil, apperror.ErrForbidden
	}

	return cert, nil
}

// ListMine возвращает сертификаты пользователя.
func (s *CertificateService) ListMine(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Certificate, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByUser(ctx, userID, limit, offset)
}
