// Package model はドメインモデルを定義する。
package model

// Credentials はログインフォームから送信される認証情報。
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse は POST /login/ の成功レスポンス。
// emailはバックエンドが返さない場合がある。
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Email       string `json:"email,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// SignupRequest は POST /user/ のリクエストボディ。
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Message はバックエンドが返す確認メッセージ。
// エンドポイントによって detail と message のどちらかが使われる。
type Message struct {
	Detail    string `json:"detail,omitempty"`
	Message   string `json:"message,omitempty"`
	ProfileID int    `json:"profile_id,omitempty"`
}

// Text は表示用のメッセージを返す。
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	if m.Detail != "" {
		return m.Detail
	}
	return m.Message
}
