package service

import (
	"context"
	"testing"

	"driftboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(noopUserRepo(), testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Nickname: "a", Password: "longenough"})
	assertAppError(t, err, "VALIDATION_ERROR")

	_, err = svc.Register(ctx, RegisterInput{Nickname: "alice", Password: "short"})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestRegisterTakenNickname(t *testing.T) {
	users := noopUserRepo()
	users.getByNicknameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1, Nickname: "alice"}, nil
	}

	svc := NewUserService(users, testSecret)
	_, err := svc.Register(context.Background(), RegisterInput{Nickname: "alice", Password: "longenough"})
	assertAppError(t, err, "CONFLICT")
}

func TestRegisterHashesPassword(t *testing.T) {
	users := noopUserRepo()
	var created *models.User
	users.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		created = u
		return nil
	}

	svc := NewUserService(users, testSecret)
	_, err := svc.Register(context.Background(), RegisterInput{Nickname: "alice", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", created.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("longenough")))
}

func TestLoginIssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	require.NoError(t, err)

	users := noopUserRepo()
	users.getByNicknameFn = func(_ context.Context, nickname string) (*models.User, error) {
		if nickname == "alice" {
			return &models.User{ID: 42, Nickname: "alice", Password: string(hash)}, nil
		}
		return nil, nil
	}

	svc := NewUserService(users, testSecret)

	user, token, err := svc.Login(context.Background(), "alice", "longenough")
	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)

	parsed, err := jwt.Parse(token, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "42", sub)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	require.NoError(t, err)

	users := noopUserRepo()
	users.getByNicknameFn = func(_ context.Context, nickname string) (*models.User, error) {
		if nickname == "alice" {
			return &models.User{ID: 42, Nickname: "alice", Password: string(hash)}, nil
		}
		return nil, nil
	}

	svc := NewUserService(users, testSecret)

	// Unknown user and wrong password produce the same error.
	_, _, err = svc.Login(context.Background(), "bob", "longenough")
	assertAppError(t, err, "UNAUTHORIZED")
	_, _, err = svc.Login(context.Background(), "alice", "wrongpassword")
	assertAppError(t, err, "UNAUTHORIZED")
}
