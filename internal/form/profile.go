package form

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hitoshi/workerhub/internal/model"
)

// ProfileForm はプロフィール編集フォーム。
type ProfileForm struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Role        string `json:"role"`
	City        string `json:"city"`
	Location    string `json:"location"`
	Longitude   string `json:"longitude"`
	Latitude    string `json:"latitude"`
}

// ParseProfile はリクエストからProfileFormを読み取る。
func ParseProfile(r *http.Request) ProfileForm {
	return ProfileForm{
		FirstName:   value(r, "first_name"),
		LastName:    value(r, "last_name"),
		PhoneNumber: value(r, "phone_number"),
		Gender:      value(r, "gender"),
		Role:        value(r, "role"),
		City:        value(r, "city"),
		Location:    value(r, "location"),
		Longitude:   value(r, "longitude"),
		Latitude:    value(r, "latitude"),
	}
}

// ProfileFormFrom は取得済みのプロフィールからフォームの初期値を作る。
func ProfileFormFrom(p model.Profile) ProfileForm {
	return ProfileForm{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Gender:      string(p.Gender),
		Role:        string(p.Role),
		City:        p.City,
		Location:    p.Location,
		Longitude:   p.Longitude,
		Latitude:    p.Latitude,
	}
}

// Validate は必須項目と選択肢を検証する。
func (f ProfileForm) Validate() FieldErrors {
	return toFieldErrors(validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.PhoneNumber, validation.Required, is.Digit, validation.Length(7, 15)),
		validation.Field(&f.Gender, validation.Required,
			validation.In(string(model.GenderMale), string(model.GenderFemale), string(model.GenderOther))),
		validation.Field(&f.Role, validation.Required,
			validation.In(string(model.RoleUser), string(model.RoleWorker))),
		validation.Field(&f.City, validation.Required),
		validation.Field(&f.Location, validation.Required),
		validation.Field(&f.Longitude, validation.Required, is.Longitude),
		validation.Field(&f.Latitude, validation.Required, is.Latitude),
	))
}

// Profile はプロフィールAPIのボディを返す。
func (f ProfileForm) Profile() model.Profile {
	return model.Profile{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		PhoneNumber: f.PhoneNumber,
		Gender:      model.Gender(f.Gender),
		Role:        model.Role(f.Role),
		City:        f.City,
		Location:    f.Location,
		Longitude:   f.Longitude,
		Latitude:    f.Latitude,
	}
}

// WithAddress は住所項目を位置情報の値で置き換えたフォームを返す。
func (f ProfileForm) WithAddress(a model.Address) ProfileForm {
	f.City = a.City
	f.Location = a.Location
	f.Longitude = a.Longitude
	f.Latitude = a.Latitude
	return f
}

// Update は部分更新APIのボディを返す。空の項目は送信されない。
func (f ProfileForm) Update() model.ProfileUpdate {
	return model.ProfileUpdate(f.Profile())
}
