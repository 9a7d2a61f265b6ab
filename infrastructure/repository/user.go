package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "email", "phone", "password_hash", "active",
	"verification_code", "verification_expires_at", "created_at", "updated_at",
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ClearExpiredVerifications(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	conn *postgres.Connection
}

func NewUserRepository(conn *postgres.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	usersSQL, usersArgs, err := r.conn.Builder().
		Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Active,
			user.VerificationCode, user.VerificationExp, user.CreatedAt, user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...); err != nil {
		return nil, classify(err)
	}

	return user, nil
}

// UpdateUser grava o estado completo do usuário, inclusive o código de verificação
func (r *userRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	usersSQL, usersArgs, err := r.conn.Builder().
		Update(usersTable).
		Set("name", user.Name).
		Set("phone", user.Phone).
		Set("password_hash", user.PasswordHash).
		Set("active", user.Active).
		Set("verification_code", user.VerificationCode).
		Set("verification_expires_at", user.VerificationExp).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetUserByEmail retorna nil, nil quando o email não está cadastrado
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// GetUserByID retorna nil, nil quando o usuário não existe
func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": userID})
}

func (r *userRepository) getBy(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	usersSQL, usersArgs, err := r.conn.Builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = r.conn.GetContext(ctx, &user, usersSQL, usersArgs...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ClearExpiredVerifications remove códigos de verificação vencidos
func (r *userRepository) ClearExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	usersSQL, usersArgs, err := r.conn.Builder().
		Update(usersTable).
		Set("verification_code", nil).
		Set("verification_expires_at", nil).
		Where(squirrel.And{
			squirrel.NotEq{"verification_code": nil},
			squirrel.Lt{"verification_expires_at": now},
		}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
