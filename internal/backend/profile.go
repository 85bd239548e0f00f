package backend

import (
	"context"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
)

// GetProfile は GET /profile/ でログインユーザーのプロフィールを取得する。
func (c *Client) GetProfile(ctx context.Context, tokens TokenSource) (*model.Profile, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	var p model.Profile
	err = c.do(ctx, request{
		endpoint: "profile_get",
		method:   http.MethodGet,
		path:     "/profile/",
		token:    token,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile は POST /profile/ でプロフィールを作成する。
func (c *Client) CreateProfile(ctx context.Context, tokens TokenSource, p model.Profile) (*model.Message, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	var msg model.Message
	err = c.do(ctx, request{
		endpoint: "profile_create",
		method:   http.MethodPost,
		path:     "/profile/",
		body:     p,
		token:    token,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateProfile は PATCH /profile/ で指定項目のみ更新する。
func (c *Client) UpdateProfile(ctx context.Context, tokens TokenSource, u model.ProfileUpdate) (*model.Message, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	var msg model.Message
	err = c.do(ctx, request{
		endpoint: "profile_update",
		method:   http.MethodPatch,
		path:     "/profile/",
		body:     u,
		token:    token,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// SwitchRole は PUT /switch_role/ でUser/Workerを切り替える。
func (c *Client) SwitchRole(ctx context.Context, tokens TokenSource) (*model.Message, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	var msg model.Message
	err = c.do(ctx, request{
		endpoint: "switch_role",
		method:   http.MethodPut,
		path:     "/switch_role/",
		token:    token,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetAddress は GET /get_address/ で位置情報由来の住所を取得する。
// プロフィール画面からのみ使うため認証付きとして扱う。
func (c *Client) GetAddress(ctx context.Context, tokens TokenSource) (*model.Address, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	var a model.Address
	err = c.do(ctx, request{
		endpoint: "address",
		method:   http.MethodGet,
		path:     "/get_address/",
		token:    token,
	}, &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
