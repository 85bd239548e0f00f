package backend

import (
	"context"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
)

// Signup は POST /user/ でアカウントを作成する。
// 登録済みのメールアドレスはKindConflict（409）のエラーになる。
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.Message, error) {
	var msg model.Message
	err := c.do(ctx, request{
		endpoint: "signup",
		method:   http.MethodPost,
		path:     "/user/",
		body:     req,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Contact は POST /contact/ で問い合わせを送信する。
func (c *Client) Contact(ctx context.Context, msg model.ContactMessage) (*model.Message, error) {
	var ack model.Message
	err := c.do(ctx, request{
		endpoint: "contact",
		method:   http.MethodPost,
		path:     "/contact/",
		body:     msg,
	}, &ack)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}
