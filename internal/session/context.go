package session

import "context"

type contextKey struct{}

// NewContext はSessionを格納したコンテキストを返す。
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext はコンテキストからSessionを取り出す。
// セッションミドルウェアを通過したリクエストでのみ有効。
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
