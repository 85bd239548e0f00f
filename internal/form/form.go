// Package form はページのフォーム入力の解析とクライアント側検証を提供する。
//
// 検証エラーはフィールドごとのメッセージとしてフォームに表示し、
// バックエンドへは送信しない。
package form

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FieldErrors はフィールド名から検証メッセージへの対応。空なら検証成功。
type FieldErrors map[string]string

// Valid は検証エラーが無いかどうかを返す。
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Get はフィールドのメッセージを返す。テンプレートから使う。
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// toFieldErrors はozzo-validationの結果をFieldErrorsへ変換する。
func toFieldErrors(err error) FieldErrors {
	fe := FieldErrors{}
	if err == nil {
		return fe
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for field, e := range errs {
			if e != nil {
				fe[field] = e.Error()
			}
		}
		return fe
	}
	fe["form"] = err.Error()
	return fe
}

// value はフォーム値を前後の空白を除いて返す。
func value(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
