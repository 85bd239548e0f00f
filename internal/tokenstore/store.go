// Package tokenstore はベアラートークンの永続化を提供する。
//
// トークンは不透明な文字列として扱い、形式や有効期限の検証は行わない。
// 検証はバックエンドの責務とする。
package tokenstore

import "sync"

// Store は単一のベアラートークンを保持するストアのインターフェース。
// 値が無い場合、Getは("", false)を返す。
type Store interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// MemoryStore はプロセス内のメモリにトークンを保持するStore。
// テストや組み込み用途で使用する。
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore はMemoryStoreを生成する。tokenが空でなければ初期値として保持する。
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Get は保持しているトークンを返す。
func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set はトークンを保存する。
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear はトークンを削除する。
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
