package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/beneficiarios/internal/repository"
)

// WaitConfig は起動時のDB待機設定。
type WaitConfig struct {
	Attempts       int           // 最大試行回数
	InitialBackoff time.Duration // 初回の待機時間
	MaxBackoff     time.Duration // 待機時間の上限
}

// DefaultWaitConfig はコンテナ起動直後のDB準備待ちを想定したデフォルト設定。
// 0.5秒から2倍ずつ増加、最大8秒、6回まで試行する。
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		Attempts:       6,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
	}
}

// CalculateBackoff は失敗回数に基づいて指数バックオフの待機時間を計算する。
// failures=0で初回待機時間、以降2倍ずつ増加しMaxBackoffで頭打ちになる。
func (c WaitConfig) CalculateBackoff(failures int) time.Duration {
	delay := c.InitialBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	return delay
}

// WaitForReady はDBに疎通できるまで指数バックオフで再試行する。
// 試行回数を使い切った場合は最後のエラーを返す。ctxがキャンセルされた場合は即座に返る。
func WaitForReady(ctx context.Context, db repository.Pinger, cfg WaitConfig, logger *slog.Logger) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			break
		}

		delay := cfg.CalculateBackoff(attempt - 1)
		logger.Warn("database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.String("error", lastErr.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", cfg.Attempts, lastErr)
}
