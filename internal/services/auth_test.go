package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/herdsight/herdsight-backend/internal/pkg/errors"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/repos/testutil"
	"github.com/herdsight/herdsight-backend/internal/requestdata"
)

const testJWTSecret = "unit-test-secret"

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return NewAuthService(tx, log, repos.NewUserRepo(tx, log), testJWTSecret, time.Hour)
}

func TestAuthSignupLoginRoundTrip(t *testing.T) {
	svc := newAuthService(t)
	ctx := t.Context()

	token, user, err := svc.SignupUser(ctx, "Asha Patel", "asha", "s3cretpw")
	if err != nil {
		t.Fatalf("SignupUser: %v", err)
	}
	if token == "" || user.ID == uuid.Nil {
		t.Fatalf("signup returned empty token or id")
	}
	if user.Password == "s3cretpw" {
		t.Fatalf("password stored in plaintext")
	}

	loginToken, loginUser, err := svc.LoginUser(ctx, "asha", "s3cretpw")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if loginToken == "" || loginUser.ID != user.ID {
		t.Fatalf("login mismatch: %v vs %v", loginUser.ID, user.ID)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, loginToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("no request data on authed context")
	}
	if rd.UserID != user.ID {
		t.Fatalf("token carries wrong user: %v", rd.UserID)
	}
}

func TestAuthSignupValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := t.Context()

	cases := []struct {
		name, username, password string
	}{
		{"", "someone", "longenough"},
		{"Someone", "", "longenough"},
		{"Someone", "someone", ""},
		{"Someone", "ab", "longenough"},
		{"Someone", "someone", "short"},
	}
	for _, c := range cases {
		if _, _, err := svc.SignupUser(ctx, c.name, c.username, c.password); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("SignupUser(%q,%q,%q) = %v, want ErrInvalidArgument", c.name, c.username, c.password, err)
		}
	}

	if _, _, err := svc.SignupUser(ctx, "First", "taken", "longenough"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.SignupUser(ctx, "Second", "taken", "longenough"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("duplicate username: %v, want ErrInvalidArgument", err)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := t.Context()

	if _, _, err := svc.SignupUser(ctx, "Real User", "realuser", "rightpass"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.LoginUser(ctx, "realuser", "wrongpass"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("wrong password: %v, want ErrUnauthorized", err)
	}
	// An unknown username fails indistinguishably from a wrong password.
	if _, _, err := svc.LoginUser(ctx, "ghost", "whatever"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("unknown user: %v, want ErrUnauthorized", err)
	}
}

func TestAuthRejectsForgedAndExpiredTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := t.Context()

	_, user, err := svc.SignupUser(ctx, "Token User", "tokenuser", "longenough")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	sign := func(secret string, ttl time.Duration) string {
		claims := JWTClaims{
			UserID: user.ID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong secret": sign("some-other-secret", time.Hour),
		"expired":      sign(testJWTSecret, -time.Minute),
	}
	for name, token := range cases {
		if _, err := svc.SetContextFromToken(ctx, token); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Fatalf("%s token: %v, want ErrUnauthorized", name, err)
		}
	}
}

func TestAuthRejectsUnsignedAlgorithm(t *testing.T) {
	svc := newAuthService(t)

	claims := JWTClaims{UserID: "00000000-0000-0000-0000-000000000001"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.SetContextFromToken(t.Context(), token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("alg=none token: %v, want ErrUnauthorized", err)
	}
}
