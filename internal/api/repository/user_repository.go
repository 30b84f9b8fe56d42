package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

var tracer = otel.Tracer("api/repository")

// ErrUsernameExists is returned when the users table already holds the name.
var ErrUsernameExists = errors.New("username already exists")

// UserRepository stores registered accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type sqliteUserRepository struct {
	db   *sqlx.DB
	cost int
	now  func() time.Time
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db, cost: bcrypt.DefaultCost, now: time.Now}
}

// CreateUser stores a bcrypt hash of password and fills in user's id.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser", trace.WithAttributes(
		attribute.String("username", user.Username),
	))
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.CreatedAt = r.now().Unix()

	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (:username, :password_hash, :created_at)`,
		user,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		user.ID = id
	}
	return nil
}

// GetUserByUsername returns nil, nil when no such user exists.
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &user, nil
}
