package form

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hitoshi/workerhub/internal/model"
)

// minPasswordLength はバックエンドが要求するパスワードの最小長。
const minPasswordLength = 4

// SigninForm はサインインフォーム。
type SigninForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ParseSignin はリクエストからSigninFormを読み取る。
func ParseSignin(r *http.Request) SigninForm {
	return SigninForm{
		Email:    value(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

// Validate は必須項目とメール形式を検証する。
func (f SigninForm) Validate() FieldErrors {
	return toFieldErrors(validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required),
	))
}

// Credentials はログインAPIに送る認証情報を返す。
func (f SigninForm) Credentials() model.Credentials {
	return model.Credentials{Email: f.Email, Password: f.Password}
}

// SignupForm はアカウント作成フォーム。
type SignupForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ParseSignup はリクエストからSignupFormを読み取る。
func ParseSignup(r *http.Request) SignupForm {
	return SignupForm{
		Email:           value(r, "email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
}

// Validate は必須項目、メール形式、パスワード長と確認入力の一致を検証する。
func (f SignupForm) Validate() FieldErrors {
	return toFieldErrors(validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(minPasswordLength, 0)),
		validation.Field(&f.ConfirmPassword, validation.Required, validation.By(equals(f.Password, "passwords do not match"))),
	))
}

// Request はアカウント作成APIのボディを返す。
func (f SignupForm) Request() model.SignupRequest {
	return model.SignupRequest{Email: f.Email, Password: f.Password}
}

// equals は値がwantと一致することを検証するルールを返す。
func equals(want string, message string) validation.RuleFunc {
	return func(v interface{}) error {
		s, _ := v.(string)
		if s != want {
			return errors.New(message)
		}
		return nil
	}
}
