package model

// RateType は料金単位。
type RateType string

const (
	RatePerHour RateType = "Per_hour"
	RateHalfDay RateType = "Half_day"
	RateFullDay RateType = "Full_day"
	RateMonthly RateType = "Monthly"
)

// WorkingArea はワーカーが対応する作業分野と料金。
type WorkingArea struct {
	Name        string   `json:"name"`
	RateType    RateType `json:"rate_type"`
	Rate        int      `json:"rate"`
	Description string   `json:"description"`
}

// Worker は GET /search_workers/ の1件分。
type Worker struct {
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Gender       Gender        `json:"gender"`
	PhoneNumber  string        `json:"phone_number"`
	City         string        `json:"city"`
	AvgStars     float64       `json:"avg_stars"`
	WorkingAreas []WorkingArea `json:"working_areas"`
}

// WorkerFilter はワーカー検索の絞り込み条件。ゼロ値の項目は送信しない。
type WorkerFilter struct {
	MinRate         *float64
	MaxRate         *float64
	RateType        RateType
	WorkingAreaName string
	Gender          Gender
	Limit           int
	PageNo          int
}
