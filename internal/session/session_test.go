package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/tokenstore"
)

// --- モック定義 ---

type mockAuthenticator struct {
	loginFn func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error)
	calls   int
}

func (m *mockAuthenticator) Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
	m.calls++
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return nil, nil
}

type failingStore struct {
	tokenstore.MemoryStore
	setErr   error
	clearErr error
}

func (f *failingStore) Set(token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(token)
}

func (f *failingStore) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryStore.Clear()
}

func okLogin(token, email string) *mockAuthenticator {
	return &mockAuthenticator{
		loginFn: func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
			return &model.LoginResponse{AccessToken: token, Email: email}, nil
		},
	}
}

// --- テスト ---

func TestSession_InitialStateIsUnknown(t *testing.T) {
	s := New(tokenstore.NewMemoryStore(""), &mockAuthenticator{})

	if s.State() != StateUnknown {
		t.Errorf("State() = %v, want unknown", s.State())
	}
	if s.LoggedIn() {
		t.Error("Init 前はログイン済みであってはならない")
	}
}

func TestSession_Init_WithToken_IsAuthenticated(t *testing.T) {
	s := New(tokenstore.NewMemoryStore("T1"), &mockAuthenticator{})

	snap := s.Init()

	if snap.State != StateAuthenticated || !snap.LoggedIn {
		t.Errorf("snapshot = %+v, want authenticated", snap)
	}
}

func TestSession_Init_WithoutToken_IsAnonymous(t *testing.T) {
	s := New(tokenstore.NewMemoryStore(""), &mockAuthenticator{})

	snap := s.Init()

	if snap.State != StateAnonymous || snap.LoggedIn {
		t.Errorf("snapshot = %+v, want anonymous", snap)
	}
}

func TestSession_Init_ReadsStoreOnlyOnce(t *testing.T) {
	store := tokenstore.NewMemoryStore("")
	s := New(store, &mockAuthenticator{})
	s.Init()

	// 初期化後にストアが外部から変わっても状態は変わらない
	_ = store.Set("T9")
	if snap := s.Init(); snap.LoggedIn {
		t.Error("2回目の Init はストアを読み直してはならない")
	}
}

func TestSession_Init_DerivesUserFromJWTClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@b.com", "id": 1})
	raw, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	s := New(tokenstore.NewMemoryStore(raw), &mockAuthenticator{})
	s.Init()

	user, ok := s.User()
	if !ok || user != "a@b.com" {
		t.Errorf("User() = (%q, %v), want (%q, true)", user, ok, "a@b.com")
	}
}

func TestSession_Init_OpaqueTokenHasNoUser(t *testing.T) {
	s := New(tokenstore.NewMemoryStore("opaque-token"), &mockAuthenticator{})
	s.Init()

	if !s.LoggedIn() {
		t.Error("不透明なトークンでもログイン済みとして扱うべき")
	}
	if _, ok := s.User(); ok {
		t.Error("JWTでないトークンからユーザーを導出してはならない")
	}
}

func TestSession_Login_Success(t *testing.T) {
	store := tokenstore.NewMemoryStore("")
	s := New(store, okLogin("T1", "a@b.com"))
	s.Init()

	res := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})

	if !res.OK || res.Err != nil {
		t.Fatalf("Login() = %+v, want OK", res)
	}
	if !s.LoggedIn() {
		t.Error("ログイン成功後は loggedIn == true であるべき")
	}
	token, ok := store.Get()
	if !ok || token != "T1" {
		t.Errorf("store = (%q, %v), want (%q, true)", token, ok, "T1")
	}
	if user, _ := s.User(); user != "a@b.com" {
		t.Errorf("User() = %q, want %q", user, "a@b.com")
	}
	if s.LastError() != nil {
		t.Error("ログイン成功後は lastError がクリアされるべき")
	}
}

func TestSession_Login_FallsBackToSubmittedEmail(t *testing.T) {
	s := New(tokenstore.NewMemoryStore(""), okLogin("opaque", ""))

	s.Login(context.Background(), model.Credentials{Email: "c@d.com", Password: "x"})

	if user, _ := s.User(); user != "c@d.com" {
		t.Errorf("User() = %q, want %q", user, "c@d.com")
	}
}

func TestSession_Login_InvalidCredentials(t *testing.T) {
	store := tokenstore.NewMemoryStore("")
	auth := &mockAuthenticator{
		loginFn: func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
			return nil, model.NewStatusError(http.StatusUnauthorized, "Invalid credentials")
		},
	}
	s := New(store, auth)
	s.Init()

	res := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "wrong"})

	if res.OK {
		t.Fatal("認証失敗時に OK を返してはならない")
	}
	want := model.ErrorDetail{Detail: "Invalid credentials", Status: 401}
	if res.Detail() != want {
		t.Errorf("Detail() = %+v, want %+v", res.Detail(), want)
	}
	if res.Err.Kind != model.KindAuth {
		t.Errorf("Kind = %q, want %q", res.Err.Kind, model.KindAuth)
	}
	if s.LoggedIn() {
		t.Error("認証失敗後は loggedIn == false であるべき")
	}
	if _, ok := store.Get(); ok {
		t.Error("認証失敗時にトークンストアを変更してはならない")
	}
	if got := s.LastError(); got == nil || *got != want {
		t.Errorf("LastError() = %+v, want %+v", got, want)
	}
}

func TestSession_Login_TransportFailureIsReturnedNotRaised(t *testing.T) {
	auth := &mockAuthenticator{
		loginFn: func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	s := New(tokenstore.NewMemoryStore(""), auth)

	res := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})

	if res.OK || res.Err == nil {
		t.Fatalf("Login() = %+v, want failure", res)
	}
	if res.Err.Kind != model.KindNetworkOrServer {
		t.Errorf("Kind = %q, want %q", res.Err.Kind, model.KindNetworkOrServer)
	}
	if res.Detail().Status != 0 {
		t.Errorf("status = %d, want 0", res.Detail().Status)
	}
}

func TestSession_Login_MissingTokenIsFailure(t *testing.T) {
	store := tokenstore.NewMemoryStore("")
	s := New(store, okLogin("", "a@b.com"))

	res := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})

	if res.OK {
		t.Fatal("access_token の無い応答を成功として扱ってはならない")
	}
	if s.LoggedIn() {
		t.Error("loggedIn == false であるべき")
	}
	if _, ok := store.Get(); ok {
		t.Error("トークンを保存してはならない")
	}
}

func TestSession_Login_StoreFailureIsFailure(t *testing.T) {
	store := &failingStore{setErr: errors.New("disk full")}
	s := New(store, okLogin("T1", "a@b.com"))

	res := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})

	if res.OK {
		t.Fatal("トークン保存失敗時に OK を返してはならない")
	}
	if s.LoggedIn() {
		t.Error("loggedIn == false であるべき")
	}
}

func TestSession_Login_FailureKeepsStoredToken(t *testing.T) {
	store := tokenstore.NewMemoryStore("OLD")
	auth := &mockAuthenticator{
		loginFn: func(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
			return nil, model.NewStatusError(http.StatusUnauthorized, "Incorrect password")
		},
	}
	s := New(store, auth)
	s.Init()

	result := s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})
	if result.OK {
		t.Fatal("401 でログイン成功になってはならない")
	}

	if token, ok := store.Get(); !ok || token != "OLD" {
		t.Errorf("Get() = (%q, %v), ログイン失敗でトークンストアを変更してはならない", token, ok)
	}
	if !s.LoggedIn() {
		t.Error("ログイン失敗で既存のログイン状態を変更してはならない")
	}
	if _, ok := store.Get(); ok != s.LoggedIn() {
		t.Errorf("トークン保持(%v)と loggedIn(%v) が一致しない", ok, s.LoggedIn())
	}
	if s.LastError() == nil || s.LastError().Status != http.StatusUnauthorized {
		t.Errorf("LastError() = %v, want status 401", s.LastError())
	}
}

func TestSession_Logout(t *testing.T) {
	store := tokenstore.NewMemoryStore("")
	s := New(store, okLogin("T1", "a@b.com"))
	s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout がエラーを返した: %v", err)
	}

	if s.LoggedIn() {
		t.Error("ログアウト後は loggedIn == false であるべき")
	}
	if _, ok := store.Get(); ok {
		t.Error("ログアウト後はトークンを保持してはならない")
	}
	if _, ok := s.User(); ok {
		t.Error("ログアウト後はユーザーが不明であるべき")
	}
	if s.State() != StateAnonymous {
		t.Errorf("State() = %v, want anonymous", s.State())
	}
}

func TestSession_Logout_StoreFailureStillResetsState(t *testing.T) {
	store := &failingStore{clearErr: errors.New("permission denied")}
	_ = store.MemoryStore.Set("T1")
	s := New(store, &mockAuthenticator{})
	s.Init()

	if err := s.Logout(); err == nil {
		t.Error("ストアの削除失敗はエラーとして返すべき")
	}
	if s.LoggedIn() {
		t.Error("メモリ上の状態はリセットされるべき")
	}
}

func TestSession_Subscribe_NotifiesOnTransitions(t *testing.T) {
	s := New(tokenstore.NewMemoryStore(""), okLogin("T1", "a@b.com"))

	var states []State
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		states = append(states, snap.State)
	})

	s.Init()
	s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})
	s.Logout()

	want := []State{StateAnonymous, StateAuthenticated, StateAnonymous}
	if len(states) != len(want) {
		t.Fatalf("通知回数 = %d, want %d (%v)", len(states), len(want), states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states[%d] = %v, want %v", i, states[i], want[i])
		}
	}

	unsubscribe()
	s.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"})
	if len(states) != len(want) {
		t.Error("登録解除後に通知されてはならない")
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("空のコンテキストからSessionを取り出せてはならない")
	}

	s := New(tokenstore.NewMemoryStore(""), &mockAuthenticator{})
	got, ok := FromContext(NewContext(context.Background(), s))
	if !ok || got != s {
		t.Error("格納したSessionを取り出せるべき")
	}
}
