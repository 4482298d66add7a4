package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500エンベロープを返すミドルウェアを生成する。
// exposeDetailがtrueの場合はpanicの値をerrorsに含める（開発環境用）。
func NewRecoveryMiddleware(logger *slog.Logger, exposeDetail bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)

				var detail []string
				if exposeDetail {
					detail = []string{fmt.Sprint(rec)}
				}
				WriteInternalServerError(w, detail)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
