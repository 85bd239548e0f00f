package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
)

// WriteErrorResponse は{detail, status}形式でエラーレスポンスを書き込む。
// バックエンドのエラー形式に揃えることで、画面側は同じ通知処理で扱える。
// detailが空の場合は汎用メッセージを使う。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, detail string) {
	if detail == "" {
		detail = model.MessageGeneric
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(model.ErrorDetail{
		Detail: detail,
		Status: statusCode,
	})
}
