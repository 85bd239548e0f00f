package handler

import (
	"encoding/json"
	"net/http"
)

// Health はプロセスの稼働確認を返す。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
