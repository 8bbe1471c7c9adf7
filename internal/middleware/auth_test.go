package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/repos/testutil"
	"github.com/herdsight/herdsight-backend/internal/requestdata"
	"github.com/herdsight/herdsight-backend/internal/services"
)

func newAuthTestEngine(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	authService := services.NewAuthService(tx, log, repos.NewUserRepo(tx, log), "middleware-test-secret", time.Hour)

	engine := gin.New()
	engine.Use(NewAuthMiddleware(log, authService).RequireAuth())
	engine.GET("/protected", func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": rd.UserID.String()})
	})
	return engine, authService
}

func TestRequireAuthRejectsWithUniformEnvelope(t *testing.T) {
	engine, _ := newAuthTestEngine(t)

	headers := map[string]string{
		"missing":       "",
		"not bearer":    "Basic dXNlcjpwYXNz",
		"empty bearer":  "Bearer ",
		"garbage token": "Bearer not.a.jwt",
	}
	for name, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status %d, want 401", name, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: bad body: %v", name, err)
		}
		if body["error"] != "Unauthorized. Please login first." {
			t.Fatalf("%s: error message %q", name, body["error"])
		}
	}
}

func TestRequireAuthPassesValidBearer(t *testing.T) {
	engine, authService := newAuthTestEngine(t)

	token, user, err := authService.SignupUser(t.Context(), "Middleware User", "mwuser", "longenough")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["userId"] != user.ID.String() {
		t.Fatalf("userId %q, want %q", body["userId"], user.ID)
	}
}

func TestRequireAuthIgnoresQueryAndBodyTokens(t *testing.T) {
	engine, authService := newAuthTestEngine(t)

	token, _, err := authService.SignupUser(t.Context(), "Query User", "queryuser", "longenough")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	// A valid token outside the Authorization header must not authenticate.
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}
