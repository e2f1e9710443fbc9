package notify

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/messaging"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	"github.com/officefood/officefood/internal/worker"
)

var workerTracer = otel.Tracer("github.com/officefood/officefood/worker/notify")

// Module registers notification worker handlers.
var Module = fx.Module("worker_notify",
	fx.Provide(
		fx.Annotate(
			NewSMSDispatchHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
		fx.Annotate(
			NewOrderCreatedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewSMSDispatchHandler sets up a worker handler that delivers login codes.
// Delivery is currently log-only; a gateway integration slots in here.
func NewSMSDispatchHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.sms.dispatch", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event authsvc.SMSDispatchEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode sms dispatch", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		logger.Info("dispatching login code",
			zap.String("phone", event.Phone),
			zap.Time("requested_at", event.RequestedAt),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.SMSTopic,
		Handler: handler,
	}
}
