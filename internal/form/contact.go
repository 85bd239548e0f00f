package form

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hitoshi/workerhub/internal/model"
)

// ContactForm は問い合わせフォーム。
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ParseContact はリクエストからContactFormを読み取る。
func ParseContact(r *http.Request) ContactForm {
	return ContactForm{
		Name:    value(r, "name"),
		Email:   value(r, "email"),
		Subject: value(r, "subject"),
		Message: value(r, "message"),
	}
}

// Validate は必須項目とメール形式を検証する。
func (f ContactForm) Validate() FieldErrors {
	return toFieldErrors(validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Subject, validation.Length(0, 200)),
		validation.Field(&f.Message, validation.Required, validation.Length(1, 2000)),
	))
}

// ContactMessage は問い合わせAPIのボディを返す。
func (f ContactForm) ContactMessage() model.ContactMessage {
	return model.ContactMessage{Name: f.Name, Email: f.Email, Subject: f.Subject, Message: f.Message}
}
