package authenticating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	mailmocks "github.com/vfg2006/bizdash-api/infrastructure/integrator/mailer/mocks"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/infrastructure/repository/mocks"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *recordedEvents) Publish(event domain.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []domain.AuthEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type authFixture struct {
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionRepository
	mailer   *mailmocks.MockMailer
	events   *recordedEvents
	svc      *Service
	now      time.Time
}

func newAuthFixture(t *testing.T, requireVerification bool) *authFixture {
	ctrl := gomock.NewController(t)

	f := &authFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		sessions: mocks.NewMockSessionRepository(ctrl),
		mailer:   mailmocks.NewMockMailer(ctrl),
		events:   &recordedEvents{},
		now:      time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
	}

	f.svc = newService(f.users, f.sessions, f.mailer, f.events, config.Auth{
		Secret:              "test-secret",
		TokenTTL:            time.Hour,
		VerificationTTL:     30 * time.Minute,
		RequireVerification: requireVerification,
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "esperado AuthError, recebido %v", err)
	return authErr.Code
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("email já cadastrado", func(t *testing.T) {
		f := newAuthFixture(t, false)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(&domain.User{ID: "u1"}, nil)

		_, _, err := f.svc.SignUp(ctx, domain.SignUpRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "secret1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Equal(t, apiErrors.ErrUserAlreadyExists, authCode(t, err))
	})

	t.Run("senha curta", func(t *testing.T) {
		f := newAuthFixture(t, false)

		_, _, err := f.svc.SignUp(ctx, domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "123"})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrValidationFailed, authCode(t, err))
	})

	t.Run("com verificação envia código e cria inativo", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(nil, nil)

		var sentCode string
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
			assert.False(t, u.Active)
			require.NotNil(t, u.VerificationCode)
			require.NotNil(t, u.VerificationExp)
			assert.Len(t, *u.VerificationCode, 6)
			assert.Equal(t, f.now.Add(30*time.Minute), *u.VerificationExp)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
			sentCode = *u.VerificationCode
			u.ID = "u1"
			return u, nil
		})
		f.mailer.EXPECT().
			SendVerificationCode(gomock.Any(), "ana@example.com", "Ana", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, code string) error {
				assert.Equal(t, sentCode, code)
				return nil
			})

		profile, pending, err := f.svc.SignUp(ctx, domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Phone: "017", Password: "secret1"})

		require.NoError(t, err)
		assert.True(t, pending)
		assert.Equal(t, "u1", profile.ID)
		assert.Equal(t, "017", profile.Phone)
		assert.Equal(t, domain.AvatarURL("u1"), profile.AvatarURL)
	})

	t.Run("corrida de cadastro vira email já cadastrado", func(t *testing.T) {
		f := newAuthFixture(t, false)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, repository.ErrDuplicate)

		_, _, err := f.svc.SignUp(ctx, domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	code := "123456"

	pendingUser := func(exp time.Time) *domain.User {
		c := code
		return &domain.User{ID: "u1", Email: "ana@example.com", VerificationCode: &c, VerificationExp: &exp}
	}

	t.Run("código correto ativa", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(pendingUser(f.now.Add(time.Minute)), nil)
		f.users.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
			assert.True(t, u.Active)
			assert.Nil(t, u.VerificationCode)
			return nil
		})

		assert.NoError(t, f.svc.Verify(ctx, "ana@example.com", code))
	})

	t.Run("código vencido", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(pendingUser(f.now.Add(-time.Minute)), nil)

		err := f.svc.Verify(ctx, "ana@example.com", code)
		assert.ErrorIs(t, err, ErrInvalidVerificationCode)
	})

	t.Run("código errado", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(pendingUser(f.now.Add(time.Minute)), nil)

		err := f.svc.Verify(ctx, "ana@example.com", "000000")
		assert.Equal(t, apiErrors.ErrInvalidVerification, authCode(t, err))
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		user     *domain.User
		wantErr  error
	}{
		{
			name:     "usuário inexistente",
			password: "secret1",
			wantErr:  ErrUserNotFound,
		},
		{
			name:     "senha errada",
			password: "errada",
			user:     &domain.User{ID: "u1", Active: true},
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "email não confirmado",
			password: "secret1",
			user:     &domain.User{ID: "u1", Active: false},
			wantErr:  ErrUserDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, true)
			if tt.user != nil {
				tt.user.PasswordHash = hashed(t, "secret1")
			}
			f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(tt.user, nil)

			_, err := f.svc.SignIn(ctx, "ana@example.com", tt.password)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsCredentialsError(err))
		})
	}
}

func TestSignIn_ValidateToken_SignOut(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, false)

	user := &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Phone: "017", Active: true, PasswordHash: hashed(t, "secret1")}
	f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(user, nil)

	var stored *domain.SessionRecord
	f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.SessionRecord) error {
		stored = s
		return nil
	})

	session, err := f.svc.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID, session.ID)
	assert.Equal(t, f.now.Add(time.Hour), session.ExpiresAt)
	assert.Equal(t, "Ana", session.User.Name)
	assert.Equal(t, domain.DefaultRole, session.User.Role)

	f.sessions.EXPECT().Get(gomock.Any(), stored.ID).Return(stored, nil)

	claims, err := f.svc.ValidateToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "017", claims.UserPhone)
	assert.Equal(t, stored.ID, claims.SessionID())

	f.sessions.EXPECT().Revoke(gomock.Any(), stored.ID, f.now).DoAndReturn(func(_ context.Context, _ string, at time.Time) error {
		stored.RevokedAt = &at
		return nil
	})
	require.NoError(t, f.svc.SignOut(ctx, claims))

	f.sessions.EXPECT().Get(gomock.Any(), stored.ID).Return(stored, nil)
	_, err = f.svc.ValidateToken(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	assert.True(t, IsTokenError(err))

	assert.Equal(t, []domain.AuthEventType{domain.AuthEventSignedIn, domain.AuthEventSignedOut}, f.events.types())

	// o SIGNED_OUT identifica a sessão revogada para o hub fechar as conexões dela
	f.events.mu.Lock()
	signedIn, signedOut := f.events.events[0], f.events.events[1]
	f.events.mu.Unlock()
	assert.Empty(t, signedIn.SessionID)
	assert.Equal(t, stored.ID, signedOut.SessionID)
}

func TestValidateToken_Expired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, false)

	user := &domain.User{ID: "u1", Active: true, PasswordHash: hashed(t, "secret1")}
	f.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	session, err := f.svc.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	_, err = f.svc.ValidateToken(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Equal(t, apiErrors.ErrExpiredToken, authCode(t, err))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, false)

	f.users.EXPECT().GetUserByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1", Name: "Ana", Phone: "017"}, nil)
	f.users.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)

	name := "Ana Rahman"
	profile, err := f.svc.UpdateMetadata(ctx, "u1", domain.UpdateMetadataRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Ana Rahman", profile.Name)
	assert.Equal(t, "017", profile.Phone)
	assert.Equal(t, []domain.AuthEventType{domain.AuthEventUserUpdated}, f.events.types())
}

func TestCleanupExpired(t *testing.T) {
	f := newAuthFixture(t, false)

	f.sessions.EXPECT().DeleteExpired(gomock.Any(), f.now).Return(int64(3), nil)
	f.users.EXPECT().ClearExpiredVerifications(gomock.Any(), f.now).Return(int64(1), nil)

	result, err := f.svc.CleanupExpired(context.Background(), f.now)

	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Sessions: 3, Verifications: 1}, result)
}

func TestResendVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("código vencido é trocado por um novo", func(t *testing.T) {
		f := newAuthFixture(t, true)
		old := "111111"
		expired := f.now.Add(-time.Minute)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", VerificationCode: &old, VerificationExp: &expired}, nil)

		var issued string
		f.users.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
			require.NotNil(t, u.VerificationCode)
			require.NotNil(t, u.VerificationExp)
			assert.False(t, u.Active)
			assert.Len(t, *u.VerificationCode, 6)
			assert.Equal(t, f.now.Add(30*time.Minute), *u.VerificationExp)
			issued = *u.VerificationCode
			return nil
		})
		f.mailer.EXPECT().
			SendVerificationCode(gomock.Any(), "ana@example.com", "Ana", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, code string) error {
				assert.Equal(t, issued, code)
				return nil
			})

		assert.NoError(t, f.svc.ResendVerification(ctx, " Ana@Example.com "))
	})

	t.Run("usuário ativo não recebe código", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(&domain.User{ID: "u1", Active: true}, nil)

		assert.NoError(t, f.svc.ResendVerification(ctx, "ana@example.com"))
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(nil, nil)

		err := f.svc.ResendVerification(ctx, "ana@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("falha no envio do email", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(&domain.User{ID: "u1", Email: "ana@example.com"}, nil)
		f.users.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(nil)
		f.mailer.EXPECT().SendVerificationCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp fora do ar"))

		err := f.svc.ResendVerification(ctx, "ana@example.com")
		assert.ErrorIs(t, err, ErrVerificationDelivery)
		assert.Equal(t, apiErrors.ErrExternalService, authCode(t, err))
	})
}

// capturingMailer guarda o último código enviado
type capturingMailer struct {
	mu    sync.Mutex
	codes []string
}

func (m *capturingMailer) SendVerificationCode(_ context.Context, _, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *capturingMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[len(m.codes)-1]
}

func TestVerification_ExpiredCodeCanBeReissued(t *testing.T) {
	ctx := context.Background()

	conn, err := postgres.Open(ctx, postgres.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	mail := &capturingMailer{}
	now := time.Now().UTC()
	svc := newService(repository.NewUserRepository(conn), repository.NewSessionRepository(conn), mail, &recordedEvents{}, config.Auth{
		Secret:              "test-secret",
		TokenTTL:            time.Hour,
		VerificationTTL:     time.Minute,
		RequireVerification: true,
	})
	svc.now = func() time.Time { return now }

	_, pending, err := svc.SignUp(ctx, domain.SignUpRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.True(t, pending)
	first := mail.last()

	now = now.Add(2 * time.Minute)
	_, err = svc.CleanupExpired(ctx, now)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(ctx, "ana@example.com", first), ErrInvalidVerificationCode)
	_, err = svc.SignIn(ctx, "ana@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUserDisabled)

	require.NoError(t, svc.ResendVerification(ctx, "ana@example.com"))
	require.Len(t, mail.codes, 2)

	require.NoError(t, svc.Verify(ctx, "ana@example.com", mail.last()))

	session, err := svc.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
}
