package otp

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
)

// registerCleanup runs the stale-code sweep on a fixed interval for the
// lifetime of the application.
func registerCleanup(lc fx.Lifecycle, svc *Service, cfg config.Config, logger *zap.Logger) {
	interval := cfg.OTP.CleanupInterval
	if interval <= 0 {
		logger.Info("otp cleanup sweep disabled")
		return
	}

	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return
					case <-ticker.C:
						if _, err := svc.CleanupExpired(runCtx); err != nil {
							logger.Warn("otp cleanup sweep failed", zap.Error(err))
						}
					}
				}
			}()
			logger.Info("otp cleanup sweep started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel == nil {
				return nil
			}
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
