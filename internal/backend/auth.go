package backend

import (
	"context"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
)

// Login は POST /login/ で認証し、アクセストークンを取得する。
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	err := c.do(ctx, request{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/login/",
		body:     creds,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
