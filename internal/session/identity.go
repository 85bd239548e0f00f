package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// identityFromToken はトークンがJWTであればemailまたはsubクレームを返す。
// 表示用のヒントにすぎず、署名や有効期限は検証しない。JWTでなければ空文字列。
func identityFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
