package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/workerhub/internal/model"
)

// mockAuthenticator はsession.Authenticatorのモック。
type mockAuthenticator struct {
	loginFn func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error)
}

func (m *mockAuthenticator) Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return nil, model.NewStatusError(http.StatusUnauthorized, "Invalid credentials")
}

// signedToken はemailクレームを持つテスト用JWTを生成する。
func signedToken(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": email,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})
