package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	pool, err := db.LocalConnect(":memory:")
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.InitializeDB(ctx, pool))

	repo := &sqliteUserRepository{
		db:   pool,
		cost: bcrypt.MinCost,
		now:  func() time.Time { return time.Unix(1700000000, 0) },
	}

	missing, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created := &models.User{Username: "alice"}
	require.NoError(t, repo.CreateUser(ctx, created, "secret1"))
	assert.Positive(t, created.ID)
	assert.ErrorIs(t, repo.CreateUser(ctx, &models.User{Username: "alice"}, "other"), ErrUsernameExists)

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, int64(1700000000), user.CreatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}
