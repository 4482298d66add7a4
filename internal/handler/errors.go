package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/beneficiarios/internal/middleware"
	"github.com/hitoshi/beneficiarios/internal/model"
)

// errorResponder はサービス層のエラーをエンベロープに変換する。
// exposeDetailがtrueの場合（開発環境）、500応答のerrorsに内部エラーの内容を含める。
type errorResponder struct {
	exposeDetail bool
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// 分類済みでないエラーはここでのみログに記録する。
func (er errorResponder) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteFailure(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message, apiErr.Errors())
		return
	}

	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)

	var detail []string
	if er.exposeDetail {
		detail = []string{err.Error()}
	}
	middleware.WriteInternalServerError(w, detail)
}

// writeInvalidRequest はリクエスト解析エラー（不正なJSONやID）を400で返す。
func (er errorResponder) writeInvalidRequest(w http.ResponseWriter, reason string) {
	apiErr := model.NewInvalidRequestError(reason)
	middleware.WriteFailure(w, http.StatusBadRequest, apiErr.Message, apiErr.Errors())
}

// mapAPIErrorToHTTPStatus はAPIErrorの分類からHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
