package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

const DefaultRole = "Admin"

type User struct {
	ID               string     `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Email            string     `json:"email" db:"email"`
	Phone            string     `json:"phone" db:"phone"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Active           bool       `json:"active" db:"active"`
	VerificationCode *string    `json:"-" db:"verification_code"`
	VerificationExp  *time.Time `json:"-" db:"verification_expires_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Profile monta o perfil exibido a partir dos metadados da sessão
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      DefaultRole,
		AvatarURL: AvatarURL(u.ID),
	}
}

// AvatarURL é determinístico a partir do id do usuário
func AvatarURL(userID string) string {
	return avatarBaseURL + userID
}

type UserProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateMetadataRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Session é a credencial emitida no login
type Session struct {
	ID          string      `json:"id"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserProfile `json:"user"`
}

// SessionRecord é a linha persistida usada para revogação
type SessionRecord struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}

type Claims struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
	jwt.RegisteredClaims
}

// SessionID é o jti do token
func (c *Claims) SessionID() string {
	return c.ID
}

// AuthEventType é o tipo de evento do fluxo de mudanças de sessão
type AuthEventType string

const (
	AuthEventSignedIn    AuthEventType = "SIGNED_IN"
	AuthEventSignedOut   AuthEventType = "SIGNED_OUT"
	AuthEventUserUpdated AuthEventType = "USER_UPDATED"
)

type AuthEvent struct {
	Type   AuthEventType `json:"type"`
	UserID string        `json:"user_id"`
	At     time.Time     `json:"at"`
	// SessionID é a sessão revogada num SIGNED_OUT. Não vai para o cliente.
	SessionID string `json:"-"`
}
