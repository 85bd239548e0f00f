package model

// Gender は性別の選択肢。
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Role はユーザー種別。Workerは検索対象として掲載される。
type Role string

const (
	RoleUser   Role = "User"
	RoleWorker Role = "Worker"
)

// Profile は GET/POST /profile/ で扱うプロフィール項目。
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      Gender `json:"gender"`
	Role        Role   `json:"role"`
	City        string `json:"city"`
	Location    string `json:"location"`
	Longitude   string `json:"longitude"`
	Latitude    string `json:"latitude"`
}

// ProfileUpdate は PATCH /profile/ の部分更新ボディ。空の項目は送信しない。
type ProfileUpdate struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Gender      Gender `json:"gender,omitempty"`
	Role        Role   `json:"role,omitempty"`
	City        string `json:"city,omitempty"`
	Location    string `json:"location,omitempty"`
	Longitude   string `json:"longitude,omitempty"`
	Latitude    string `json:"latitude,omitempty"`
}

// Address は GET /get_address/ が返す位置情報由来の住所。
type Address struct {
	City      string `json:"city"`
	Location  string `json:"location"`
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

// ApplyAddress は住所項目をプロフィールへ上書きする。
func (p *Profile) ApplyAddress(a Address) {
	p.City = a.City
	p.Location = a.Location
	p.Longitude = a.Longitude
	p.Latitude = a.Latitude
}
