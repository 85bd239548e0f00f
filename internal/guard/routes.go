package guard

import "strings"

// 正規化済みのルートパス。末尾スラッシュは付けない（ルートを除く）。
const (
	PathFindWorkers    = "/"
	PathContact        = "/contact"
	PathSignIn         = "/signin"
	PathSignUp         = "/signup"
	PathSignOut        = "/signout"
	PathProfile        = "/profile"
	PathProfileAddress = "/profile/address"
	PathProfileRole    = "/profile/role"
)

// Normalize はパスの末尾スラッシュを取り除く。空文字列とルートは"/"を返す。
func Normalize(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// Table はパスと保護設定の静的な対応表。
type Table struct {
	routes map[string]Protection
}

// NewTable はルートテーブルを構築する。キーは正規化して保持する。
func NewTable(routes map[string]Protection) *Table {
	t := &Table{routes: make(map[string]Protection, len(routes))}
	for path, p := range routes {
		t.routes[Normalize(path)] = p
	}
	return t
}

// DefaultTable はアプリケーションのルートテーブルを返す。
func DefaultTable() *Table {
	return NewTable(map[string]Protection{
		PathFindWorkers:    Unrestricted,
		PathContact:        Unrestricted,
		PathSignIn:         PublicOnly,
		PathSignUp:         Unrestricted,
		PathSignOut:        Unrestricted,
		PathProfile:        Protected,
		PathProfileAddress: Protected,
		PathProfileRole:    Protected,
	})
}

// Lookup はパスの保護設定を返す。未登録のパスはUnrestricted。
func (t *Table) Lookup(path string) Protection {
	return t.routes[Normalize(path)]
}
