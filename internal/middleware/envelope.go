package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// InternalErrorMessage は予期しないエラー時にクライアントへ返す固定メッセージ。
const InternalErrorMessage = "Error interno del servidor"

// Envelope は全APIレスポンスの統一フォーマット。
// 失敗時のdataはnull、errorsは補足がない場合null。
type Envelope[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// WriteJSON はvをJSONとして指定ステータスで書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteSuccess は成功エンベロープを書き込む。
func WriteSuccess[T any](w http.ResponseWriter, statusCode int, data T, message string) {
	WriteJSON(w, statusCode, Envelope[T]{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// WriteFailure は失敗エンベロープ（data: null）を書き込む。
func WriteFailure(w http.ResponseWriter, statusCode int, message string, errs []string) {
	WriteJSON(w, statusCode, Envelope[any]{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// WriteInternalServerError は500エンベロープを書き込む。
// detailは開発環境でのみ渡し、本番では内部情報を返さないようnilを渡す。
func WriteInternalServerError(w http.ResponseWriter, detail []string) {
	WriteFailure(w, http.StatusInternalServerError, InternalErrorMessage, detail)
}
