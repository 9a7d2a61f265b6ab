package authenticating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/infrastructure/integrator/mailer"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.UserProfile, bool, error)
	Verify(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, claims *domain.Claims) error
	GetSession(ctx context.Context, claims *domain.Claims) (*domain.Session, error)
	UpdateMetadata(ctx context.Context, userID string, req domain.UpdateMetadataRequest) (*domain.UserProfile, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
	CleanupExpired(ctx context.Context, now time.Time) (CleanupResult, error)
}

// EventPublisher recebe os eventos de mudança de sessão
type EventPublisher interface {
	Publish(event domain.AuthEvent)
}

type CleanupResult struct {
	Sessions      int64 `json:"sessions"`
	Verifications int64 `json:"verifications"`
}

type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	mailer      mailer.Mailer
	events      EventPublisher
	cfg         config.Auth
	now         func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	mail mailer.Mailer,
	events EventPublisher,
	cfg *config.Config,
) Authenticator {
	return newService(userRepo, sessionRepo, mail, events, cfg.Auth)
}

func newService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	mail mailer.Mailer,
	events EventPublisher,
	cfg config.Auth,
) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 30 * time.Minute
	}

	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		mailer:      mail,
		events:      events,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SignUp cadastra o usuário com os metadados de perfil (nome e telefone).
// O bool indica se a confirmação por email ainda é necessária.
func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.UserProfile, bool, error) {
	req.Email = handleEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := domain.Validate(req); err != nil {
		return nil, false, NewAuthError(ErrMissingRequiredData, apiErrors.ErrValidationFailed, err.Error())
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if existing != nil {
		return nil, false, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hashedPassword),
		Active:       !s.cfg.RequireVerification,
	}

	var code string
	if s.cfg.RequireVerification {
		if code, err = s.issueVerificationCode(user); err != nil {
			return nil, false, err
		}
	}

	user, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "")
		}
		return nil, false, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	if s.cfg.RequireVerification {
		if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code); err != nil {
			// o usuário já existe e pode pedir o reenvio do código
			logrus.WithError(err).WithField("user_id", user.ID).Error("Erro ao enviar código de verificação")
		}
	}

	logrus.WithField("user_id", user.ID).Info("Usuário cadastrado")

	profile := user.Profile()
	return &profile, s.cfg.RequireVerification, nil
}

// Verify confirma o email com o código enviado no cadastro
func (s *Service) Verify(ctx context.Context, email, code string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, handleEmail(email))
	if err != nil {
		return NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if user == nil {
		return NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}
	if user.Active {
		return nil
	}

	if user.VerificationCode == nil || *user.VerificationCode != strings.TrimSpace(code) ||
		user.VerificationExp == nil || s.now().After(*user.VerificationExp) {
		return NewUserAuthError(ErrInvalidVerificationCode, apiErrors.ErrInvalidVerification, user.ID, "")
	}

	user.Active = true
	user.VerificationCode = nil
	user.VerificationExp = nil

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao ativar usuário")
	}

	return nil
}

// ResendVerification troca o código de um usuário ainda não confirmado por um novo, com novo prazo,
// e o envia por email. Usuário já ativo não recebe nada.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, handleEmail(email))
	if err != nil {
		return NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if user == nil {
		return NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}
	if user.Active {
		return nil
	}

	code, err := s.issueVerificationCode(user)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao gravar código de verificação")
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Name, code); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Erro ao reenviar código de verificação")
		return NewUserAuthError(ErrVerificationDelivery, apiErrors.ErrExternalService, user.ID, "")
	}

	logrus.WithField("user_id", user.ID).Info("Código de verificação reenviado")
	return nil
}

// issueVerificationCode gera um código novo com prazo a partir de agora
func (s *Service) issueVerificationCode(user *domain.User) (string, error) {
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(s.cfg.VerificationTTL)
	user.VerificationCode = &code
	user.VerificationExp = &expiresAt
	return code, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, handleEmail(email))
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "")
	}

	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "")
	}

	now := s.now()
	record := &domain.SessionRecord{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
		CreatedAt: now,
	}

	token, err := generateJWT(user, record, now, s.cfg.Secret)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	if err := s.sessionRepo.Create(ctx, record); err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao registrar sessão")
	}

	s.publish(domain.AuthEventSignedIn, user.ID)

	return &domain.Session{
		ID:          record.ID,
		AccessToken: token,
		ExpiresAt:   record.ExpiresAt,
		User:        user.Profile(),
	}, nil
}

// SignOut revoga a sessão do token atual
func (s *Service) SignOut(ctx context.Context, claims *domain.Claims) error {
	if err := s.sessionRepo.Revoke(ctx, claims.SessionID(), s.now()); err != nil {
		return NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao encerrar sessão")
	}

	s.publishEvent(domain.AuthEvent{
		Type:      domain.AuthEventSignedOut,
		UserID:    claims.UserID,
		SessionID: claims.SessionID(),
	})
	return nil
}

func (s *Service) GetSession(ctx context.Context, claims *domain.Claims) (*domain.Session, error) {
	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		logrus.Error(err)
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}

	session := &domain.Session{
		ID:   claims.SessionID(),
		User: user.Profile(),
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// UpdateMetadata atualiza nome e telefone. Campos nulos são mantidos.
func (s *Service) UpdateMetadata(ctx context.Context, userID string, req domain.UpdateMetadataRequest) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome não pode ser vazio")
		}
		user.Name = name
	}

	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao atualizar usuário")
	}

	s.publish(domain.AuthEventUserUpdated, user.ID)

	profile := user.Profile()
	return &profile, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || claims.SessionID() == "" {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	record, err := s.sessionRepo.Get(ctx, claims.SessionID())
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar sessão")
	}
	if record == nil || record.RevokedAt != nil {
		return nil, NewUserAuthError(ErrSessionRevoked, apiErrors.ErrSessionRevoked, claims.UserID, "")
	}

	return claims, nil
}

// CleanupExpired remove sessões vencidas e códigos de verificação antigos
func (s *Service) CleanupExpired(ctx context.Context, now time.Time) (CleanupResult, error) {
	var result CleanupResult

	sessions, err := s.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return result, fmt.Errorf("erro ao remover sessões vencidas: %w", err)
	}
	result.Sessions = sessions

	verifications, err := s.userRepo.ClearExpiredVerifications(ctx, now)
	if err != nil {
		return result, fmt.Errorf("erro ao limpar códigos de verificação: %w", err)
	}
	result.Verifications = verifications

	return result, nil
}

func (s *Service) publish(eventType domain.AuthEventType, userID string) {
	s.publishEvent(domain.AuthEvent{Type: eventType, UserID: userID})
}

func (s *Service) publishEvent(event domain.AuthEvent) {
	if s.events == nil {
		return
	}
	event.At = s.now()
	s.events.Publish(event)
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func generateJWT(user *domain.User, session *domain.SessionRecord, now time.Time, secretKey string) (string, error) {
	claims := domain.Claims{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		UserPhone: user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
