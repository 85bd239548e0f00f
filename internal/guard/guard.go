// Package guard はルートごとの保護設定とログイン状態からページ表示可否を判定する。
//
// 判定は2つの入力だけに依存する純粋関数で、ネットワークI/Oを伴わない。
// ナビゲーションや再描画のたびに評価されるため、同じ入力には常に同じ結果を返す。
package guard

// Protection はルートの保護設定。ルートテーブル構築時に決まり、実行時に変わらない。
type Protection int

const (
	// Unrestricted はログイン状態にかかわらず表示する。
	Unrestricted Protection = iota
	// Protected はログイン済みの場合のみ表示する。
	Protected
	// PublicOnly は未ログインの場合のみ表示する（サインイン画面など）。
	PublicOnly
)

// String は保護設定の名前を返す。メトリクスのラベルに使う。
func (p Protection) String() string {
	switch p {
	case Protected:
		return "protected"
	case PublicOnly:
		return "public_only"
	default:
		return "unrestricted"
	}
}

// Decision は判定結果。Renderがfalseの場合はTargetへリダイレクトする。
type Decision struct {
	Render bool
	Target string
}

// Outcome はメトリクス用の判定名を返す。
func (d Decision) Outcome() string {
	if d.Render {
		return "render"
	}
	return "redirect"
}

// Decide はルートの保護設定とログイン状態から判定結果を返す。
//
//	Protected    + ログイン済み → 表示
//	Protected    + 未ログイン   → サインインへ
//	PublicOnly   + ログイン済み → プロフィールへ
//	PublicOnly   + 未ログイン   → 表示
//	Unrestricted + 任意         → 表示
func Decide(p Protection, loggedIn bool) Decision {
	switch p {
	case Protected:
		if !loggedIn {
			return Decision{Target: PathSignIn}
		}
	case PublicOnly:
		if loggedIn {
			return Decision{Target: PathProfile}
		}
	}
	return Decision{Render: true}
}
