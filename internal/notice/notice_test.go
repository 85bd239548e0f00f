package notice

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/security"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel Level
		wantMsg   string
	}{
		{"conflict", model.NewStatusError(http.StatusConflict, "User with this email already exists"), LevelWarning, "User with this email already exists"},
		{"unauthorized sentinel", model.ErrUnauthorized, LevelWarning, model.MessageUnauthorized},
		{"auth", model.NewStatusError(http.StatusUnauthorized, "Invalid credentials"), LevelError, "Invalid credentials"},
		{"server", model.NewStatusError(http.StatusInternalServerError, ""), LevelError, model.MessageGeneric},
		{"plain error", errors.New("boom"), LevelError, model.MessageGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FromError(tt.err)
			if n.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", n.Level, tt.wantLevel)
			}
			if n.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", n.Message, tt.wantMsg)
			}
		})
	}

	if n := FromError(nil); !n.IsZero() {
		t.Errorf("FromError(nil) = %+v, want zero", n)
	}
}

func TestFlash_SetThenPop(t *testing.T) {
	flash := NewFlash(security.NewMessageSanitizer(), false)

	rec := httptest.NewRecorder()
	if err := flash.Set(rec, Warning("<b>User</b> already exists")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("フラッシュCookieはHttpOnlyであるべき")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()

	n, ok := flash.Pop(rec2, req)
	if !ok {
		t.Fatal("Pop should return the notice")
	}
	if n.Level != LevelWarning || n.Message != "User already exists" {
		t.Errorf("notice = %+v", n)
	}

	cleared := rec2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("Pop後にCookieが削除されていない: %v", cleared)
	}
}

func TestFlash_SetEmptyNoticeWritesNothing(t *testing.T) {
	flash := NewFlash(security.NewMessageSanitizer(), false)
	rec := httptest.NewRecorder()

	if err := flash.Set(rec, Notice{Level: LevelInfo}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("空の通知でCookieが書き込まれた")
	}
}

func TestFlash_PopMissingOrBroken(t *testing.T) {
	flash := NewFlash(security.NewMessageSanitizer(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := flash.Pop(httptest.NewRecorder(), req); ok {
		t.Error("Cookieが無い場合はfalseを返すべき")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "!!!not-base64"})
	if _, ok := flash.Pop(httptest.NewRecorder(), req); ok {
		t.Error("壊れたCookieはfalseを返すべき")
	}
}
