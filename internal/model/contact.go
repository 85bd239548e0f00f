package model

// ContactMessage は POST /contact/ で送る問い合わせ内容。
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
