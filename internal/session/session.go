// Package session はクライアント側の認証セッションを管理する。
//
// Sessionはトークンストアの内容から導出されるメモリ上の状態で、
// login/logout以外からは変更されない。ログイン状態を参照する側は
// 常にSessionを読み直すため、ログアウト後に画面全体を再読み込みする必要はない。
//
// 状態遷移:
//
//	Unknown → Authenticated（初期化時にトークンあり）
//	Unknown → Anonymous（初期化時にトークンなし）
//	Anonymous → Authenticated（ログイン成功）
//	Authenticated → Anonymous（ログアウト）
//
// Unknownへ戻るのはプロセス（またはリクエスト）の再生成時のみ。
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/tokenstore"
)

// State はセッションの有効性の状態。
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

// String は状態名を返す。
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Authenticator はログインのネットワーク呼び出しを行うインターフェース。
// backend.Clientが実装する。
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error)
}

// Snapshot はある時点のセッション状態の読み取り専用コピー。
type Snapshot struct {
	State     State
	LoggedIn  bool
	User      string
	LastError *model.ErrorDetail
}

// Result はloginの結果。例外ではなくタグ付きの値として返す。
type Result struct {
	OK  bool
	Err *model.APIError
}

// Detail は失敗時の{detail, status}を返す。成功時はゼロ値。
func (r Result) Detail() model.ErrorDetail {
	if r.Err == nil {
		return model.ErrorDetail{}
	}
	return r.Err.ToDetail()
}

// Option はSessionの任意設定。
type Option func(*Session)

// WithMetrics はメトリクスコレクタを設定する。
func WithMetrics(c metrics.MetricsCollector) Option {
	return func(s *Session) {
		s.metrics = metrics.OrNop(c)
	}
}

// WithLogger はロガーを設定する。
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session はログイン状態の唯一の情報源。
type Session struct {
	store   tokenstore.Store
	auth    Authenticator
	metrics metrics.MetricsCollector
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	user      string
	lastError *model.APIError

	listeners map[int]func(Snapshot)
	nextID    int
}

// New はSessionを生成する。状態はInitが呼ばれるまでUnknown。
func New(store tokenstore.Store, auth Authenticator, opts ...Option) *Session {
	s := &Session{
		store:     store,
		auth:      auth,
		metrics:   metrics.Nop{},
		logger:    slog.Default(),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init はトークンストアを1回だけ読み取り、ログイン状態を決定する。
// 2回目以降の呼び出しは何もせず現在の状態を返す。
func (s *Session) Init() Snapshot {
	s.mu.Lock()
	if s.state != StateUnknown {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}

	token, ok := s.store.Get()
	if ok {
		s.user = identityFromToken(token)
		s.transitionLocked(StateAuthenticated)
	} else {
		s.transitionLocked(StateAnonymous)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Login はバックエンドへログインし、成功時にトークンを保存する。
// 失敗時はlastErrorを記録し、エラー詳細を結果として返す（エラーを送出しない）。
// ネットワーク呼び出し中はロックを保持しないため、連続送信時は最後に届いた応答が勝つ。
func (s *Session) Login(ctx context.Context, creds model.Credentials) Result {
	s.Init()

	resp, err := s.auth.Login(ctx, creds)
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = model.NewTransportError(errors.New("login response has no access_token"))
	}
	if err != nil {
		return s.failLogin(model.AsAPIError(err))
	}

	if err := s.store.Set(resp.AccessToken); err != nil {
		return s.failLogin(model.NewTransportError(fmt.Errorf("failed to store token: %w", err)))
	}

	user := resp.Email
	if user == "" {
		user = identityFromToken(resp.AccessToken)
	}
	if user == "" {
		user = creds.Email
	}

	s.mu.Lock()
	s.user = user
	s.lastError = nil
	s.transitionLocked(StateAuthenticated)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.RecordLogin("success")
	s.notify(snap)
	return Result{OK: true}
}

// failLogin はログイン失敗を記録する。
// トークンストアとログイン状態は変更しない。
func (s *Session) failLogin(apiErr *model.APIError) Result {
	s.mu.Lock()
	s.lastError = apiErr
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Warn("login failed",
		slog.String("kind", string(apiErr.Kind)),
		slog.Int("status", apiErr.Status),
	)
	s.metrics.RecordLogin(string(apiErr.Kind))
	s.notify(snap)
	return Result{Err: apiErr}
}

// Logout はトークンを削除し、セッションを未ログイン状態に戻す。
// ストアの削除に失敗してもメモリ上の状態はリセットし、エラーを返す。
func (s *Session) Logout() error {
	s.Init()

	clearErr := s.store.Clear()

	s.mu.Lock()
	s.user = ""
	s.lastError = nil
	s.transitionLocked(StateAnonymous)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if clearErr != nil {
		return fmt.Errorf("failed to clear token: %w", clearErr)
	}
	return nil
}

// LoggedIn はログイン済みかどうかを返す。
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAuthenticated
}

// User はログインユーザーの識別子を返す。不明な場合は("", false)。
func (s *Session) User() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != ""
}

// LastError は直近のログイン失敗の詳細を返す。無い場合はnil。
func (s *Session) LastError() *model.ErrorDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastError == nil {
		return nil
	}
	d := s.lastError.ToDetail()
	return &d
}

// State は現在の状態を返す。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot は現在の状態のコピーを返す。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Tokens はトークンストアを返す。認証付きAPI呼び出しのトークン取得元として渡す。
func (s *Session) Tokens() tokenstore.Store {
	return s.store
}

// Subscribe は状態変化の通知先を登録し、登録解除関数を返す。
// 通知はロック外で、変化後のSnapshotを引数に呼ばれる。
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) transitionLocked(to State) {
	from := s.state
	s.state = to
	if from != to {
		s.metrics.RecordSessionTransition(from.String(), to.String())
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    s.state,
		LoggedIn: s.state == StateAuthenticated,
		User:     s.user,
	}
	if s.lastError != nil {
		d := s.lastError.ToDetail()
		snap.LastError = &d
	}
	return snap
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
