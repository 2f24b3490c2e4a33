package service

import (
	"context"
	"fmt"
	"time"

	"driftboard/internal/models"
	"driftboard/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

// UserService handles registration and credential checks. Tokens are plain
// HS256 JWTs with the user id in the subject claim.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{userRepo: userRepo, jwtSecret: jwtSecret}
}

type RegisterInput struct {
	Nickname string
	Password string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if len(in.Nickname) < 2 || len(in.Nickname) > 50 {
		return nil, models.NewValidationError("Nickname must be 2-50 characters")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByNickname(ctx, in.Nickname)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Nickname is taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Nickname: in.Nickname, Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and returns the user with a signed token. Wrong
// nickname and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, nickname, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *UserService) signToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
