package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/herdsight/herdsight-backend/internal/pkg/errors"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/requestdata"
	"github.com/herdsight/herdsight-backend/internal/types"
)

type JWTClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SignupUser(ctx context.Context, name, username, password string) (string, *types.User, error)
	LoginUser(ctx context.Context, username, password string) (string, *types.User, error)
	// SetContextFromToken verifies a bearer token and stamps the embedded
	// identity onto the context. It does not re-check that the user still
	// exists; callers that need that guarantee look the user up themselves.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

// NewAuthService. The JWT secret is injected here; validating that it is not
// a default value in production is the config loader's job.
func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) SignupUser(ctx context.Context, name, username, password string) (string, *types.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)

	if name == "" || username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: name, username and password are required", apperrors.ErrInvalidArgument)
	}
	if len(username) < 3 {
		return "", nil, fmt.Errorf("%w: username must be at least 3 characters", apperrors.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return "", nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrInvalidArgument)
	}

	exists, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return "", nil, fmt.Errorf("%w: username is already taken", apperrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Username: username,
		Password: string(hashed),
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, user, nil
}

func (as *authService) LoginUser(ctx context.Context, username, password string) (string, *types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidArgument)
	}

	users, err := as.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if len(users) == 0 {
		return "", nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, user, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("%w: missing token", apperrors.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		// Expired, bad signature and malformed all surface uniformly.
		return ctx, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid user id in token", apperrors.ErrUnauthorized)
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
