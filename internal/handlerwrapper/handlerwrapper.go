// Package handlerwrapper adapts typed handler functions to watermill.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Result is an outgoing message produced by a handler.
type Result struct {
	Topic   string
	Payload any
}

// WrapTransformingTyped decodes the incoming JSON payload into T, calls
// handler and publishes every returned Result on its own topic with the
// incoming correlation id. A payload that cannot be decoded is logged and
// dropped since redelivery would fail the same way.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("handlerwrapper")
	}

	return func(msg *message.Message) error {
		correlationID := middleware.MessageCorrelationID(msg)
		ctx := attr.WithCorrelationID(msg.Context(), correlationID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode message payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil
		}

		out, err := handler(ctx, &payload)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		for _, r := range out {
			body, err := json.Marshal(r.Payload)
			if err != nil {
				return fmt.Errorf("%s: failed to marshal result for %s: %w", handlerName, r.Topic, err)
			}
			outMsg := message.NewMessage(watermill.NewUUID(), body)
			outMsg.Metadata.Set("topic", r.Topic)
			outMsg.Metadata.Set("caused_by", handlerName)
			middleware.SetCorrelationID(correlationID, outMsg)

			if err := publisher.Publish(r.Topic, outMsg); err != nil {
				return fmt.Errorf("%s: failed to publish %s: %w", handlerName, r.Topic, err)
			}
			logger.DebugContext(ctx, "Published handler result",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("topic", r.Topic),
				attr.String("message_id", outMsg.UUID),
			)
		}
		return nil
	}
}
