// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの分類を表す。
// 画面側はKindに応じて通知の表示レベルを決める。
type Kind string

const (
	// KindValidation はフォーム入力のクライアント側検証エラー。
	KindValidation Kind = "validation"
	// KindAuth は認証失敗（401）。
	KindAuth Kind = "auth"
	// KindConflict は重複登録などの競合（409）。致命的ではない。
	KindConflict Kind = "conflict"
	// KindNetworkOrServer はその他の非2xx応答や通信失敗。
	KindNetworkOrServer Kind = "network_or_server"
	// KindUnauthorized はトークン未保持のため認証付きリクエストを送らなかったことを示す。
	KindUnauthorized Kind = "unauthorized"
)

// 汎用メッセージ
const (
	MessageGeneric      = "エラーが発生しました。しばらく待ってから再度お試しください。"
	MessageUnauthorized = "ログインが必要です。"
)

// APIError はバックエンド呼び出しの失敗を表す。
// Detailはバックエンドが返したメッセージ、Statusは HTTP ステータス（通信失敗時は0）。
type APIError struct {
	Kind   Kind
	Status int
	Detail string
	Err    error // 通信失敗などの下位エラー
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%d] %s: %v", e.Kind, e.Status, e.Detail, e.Err)
	}
	return fmt.Sprintf("[%s:%d] %s", e.Kind, e.Status, e.Detail)
}

// Unwrap は下位エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is はErrUnauthorizedとの比較をKindで行う。
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t == ErrUnauthorized && e.Kind == KindUnauthorized
}

// ErrUnauthorized はトークンが無いためリクエストを発行しなかったことを示すセンチネル。
var ErrUnauthorized = &APIError{
	Kind:   KindUnauthorized,
	Status: http.StatusUnauthorized,
	Detail: MessageUnauthorized,
}

// ErrorDetail はログイン失敗時に呼び出し元へ返す {detail, status} の組。
type ErrorDetail struct {
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// KindForStatus はHTTPステータスコードからエラー分類を決める。
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusConflict:
		return KindConflict
	default:
		return KindNetworkOrServer
	}
}

// NewStatusError はバックエンドの非2xx応答からAPIErrorを生成する。
// detailが空の場合は汎用メッセージを使う。
func NewStatusError(status int, detail string) *APIError {
	if detail == "" {
		detail = MessageGeneric
	}
	return &APIError{
		Kind:   KindForStatus(status),
		Status: status,
		Detail: detail,
	}
}

// NewTransportError は通信失敗やレスポンス解析失敗からAPIErrorを生成する。
func NewTransportError(err error) *APIError {
	return &APIError{
		Kind:   KindNetworkOrServer,
		Detail: MessageGeneric,
		Err:    err,
	}
}

// AsAPIError は任意のエラーをAPIErrorとして取り出す。
// APIError以外はKindNetworkOrServerとして包む。nilにはnilを返す。
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewTransportError(err)
}

// ToDetail はAPIErrorを{detail, status}に変換する。
func (e *APIError) ToDetail() ErrorDetail {
	return ErrorDetail{Detail: e.Detail, Status: e.Status}
}
