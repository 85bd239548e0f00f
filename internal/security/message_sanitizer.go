// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MessageSanitizer はバックエンドが返したメッセージを画面表示前に無害化する。
// bluemondayのStrictPolicyで全てのタグを除去し、プレーンテキストとして扱う。
package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxMessageLength は通知に表示するメッセージの最大文字数。
const MaxMessageLength = 300

// MessageSanitizer はメッセージのサニタイズ機能のインターフェースを定義する。
type MessageSanitizer interface {
	// Sanitize はタグを除去したプレーンテキストを返す。
	// 連続する空白は1つにまとめ、MaxMessageLengthを超える部分は切り詰める。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

type messageSanitizer struct {
	policy *bluemonday.Policy
}

// NewMessageSanitizer はMessageSanitizerの新しいインスタンスを生成する。
func NewMessageSanitizer() MessageSanitizer {
	return &messageSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はメッセージをサニタイズする。
// StrictPolicyはエンティティをエスケープして返すため、テンプレート側での二重エスケープを避けて元に戻す。
func (s *messageSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(s.policy.Sanitize(raw))
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > MaxMessageLength {
		runes := []rune(text)
		text = string(runes[:MaxMessageLength]) + "…"
	}
	return text
}
