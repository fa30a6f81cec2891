// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

const instrumentationName = "github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/service"

// Verification outcomes recorded on the webhook.verifications counter
const (
	outcomeVerified             = "verified"
	outcomeMalformedHeader      = "malformed_header"
	outcomeMissingHeader        = "missing_header"
	outcomeSignatureMismatch    = "signature_mismatch"
	outcomeExpiredTimestamp     = "expired_timestamp"
	outcomeUntrustedCertificate = "untrusted_certificate"
	outcomeRemoteRejected       = "remote_rejected"
	outcomeRemoteUnavailable    = "remote_unavailable"
	outcomeDeserialization      = "deserialization"
	outcomeError                = "error"
)

// WebhookProcessor verifies incoming notifications with the verifier of their
// provider and dispatches the verified envelope
type WebhookProcessor struct {
	verifiers  map[model.Provider]port.WebhookVerifier
	dispatcher port.WebhookDispatcher
	retry      utils.RetryConfig

	tracer        trace.Tracer
	verifications metric.Int64Counter
	dispatches    metric.Int64Counter
	latency       metric.Float64Histogram
}

// ProcessorOption configures a WebhookProcessor
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	retry          utils.RetryConfig
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithRetryConfig overrides the retry policy applied to RemoteUnavailable failures
func WithRetryConfig(config utils.RetryConfig) ProcessorOption {
	return func(o *processorOptions) {
		o.retry = config
	}
}

// WithTracerProvider sets the tracer provider; the global one is used otherwise
func WithTracerProvider(tp trace.TracerProvider) ProcessorOption {
	return func(o *processorOptions) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider; the global one is used otherwise
func WithMeterProvider(mp metric.MeterProvider) ProcessorOption {
	return func(o *processorOptions) {
		o.meterProvider = mp
	}
}

// DefaultRetryConfig returns the retry policy used around remote attestation
func DefaultRetryConfig() utils.RetryConfig {
	return utils.NewRetryConfig(
		constants.WebhookMaxRetries,
		constants.WebhookRetryBaseDelay*time.Millisecond,
		constants.WebhookRetryMaxDelay*time.Millisecond,
	)
}

// NewWebhookProcessor creates a processor. Only RemoteUnavailable failures are
// retried, whatever ShouldRetry the retry config carries.
func NewWebhookProcessor(dispatcher port.WebhookDispatcher, verifiers []port.WebhookVerifier, opts ...ProcessorOption) (*WebhookProcessor, error) {
	if dispatcher == nil {
		return nil, errors.NewValidation("webhook dispatcher is required")
	}

	options := processorOptions{
		retry:          DefaultRetryConfig(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	byProvider := make(map[model.Provider]port.WebhookVerifier, len(verifiers))
	for _, verifier := range verifiers {
		if _, exists := byProvider[verifier.Provider()]; exists {
			return nil, errors.NewValidation(fmt.Sprintf("duplicate webhook verifier for provider %s", verifier.Provider()))
		}
		byProvider[verifier.Provider()] = verifier
	}

	meter := options.meterProvider.Meter(instrumentationName)

	verifications, err := meter.Int64Counter("webhook.verifications",
		metric.WithDescription("Webhook notifications verified, by provider and outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, errors.NewUnexpected("failed to create verifications counter", err)
	}

	dispatches, err := meter.Int64Counter("webhook.dispatches",
		metric.WithDescription("Verified webhook events dispatched, by provider, kind and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, errors.NewUnexpected("failed to create dispatches counter", err)
	}

	latency, err := meter.Float64Histogram("webhook.verification.duration",
		metric.WithDescription("Time spent verifying a webhook notification"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.NewUnexpected("failed to create verification duration histogram", err)
	}

	return &WebhookProcessor{
		verifiers:     byProvider,
		dispatcher:    dispatcher,
		retry:         options.retry.WithShouldRetry(errors.IsRetryable),
		tracer:        options.tracerProvider.Tracer(instrumentationName),
		verifications: verifications,
		dispatches:    dispatches,
		latency:       latency,
	}, nil
}

// Providers returns the providers with a configured verifier, sorted
func (p *WebhookProcessor) Providers() []model.Provider {
	providers := make([]model.Provider, 0, len(p.verifiers))
	for provider := range p.verifiers {
		providers = append(providers, provider)
	}
	slices.Sort(providers)
	return providers
}

// Process verifies the notification and dispatches it. A verification failure
// is returned without dispatching; a handler failure is returned after it.
func (p *WebhookProcessor) Process(ctx context.Context, provider model.Provider, body []byte, headers http.Header) (*model.WebhookEnvelope, error) {
	verifier, ok := p.verifiers[provider]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no webhook verifier configured for provider %q", provider))
	}

	ctx, span := p.tracer.Start(ctx, "webhook.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("webhook.provider", provider.String())),
	)
	defer span.End()

	ctx = log.AppendCtx(ctx, slog.String("provider", provider.String()))

	envelope, err := p.verify(ctx, verifier, body, headers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("webhook.event_id", envelope.ID),
		attribute.String("webhook.event_name", envelope.EventType.Name),
		attribute.String("webhook.event_kind", string(envelope.EventType.Kind)),
		attribute.Bool("webhook.live_mode", envelope.LiveMode),
	)

	if err := p.dispatch(ctx, *envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		return envelope, err
	}

	return envelope, nil
}

func (p *WebhookProcessor) verify(ctx context.Context, verifier port.WebhookVerifier, body []byte, headers http.Header) (*model.WebhookEnvelope, error) {
	start := time.Now()
	attempts := 0

	var envelope *model.WebhookEnvelope
	err := utils.RetryWithExponentialBackoff(ctx, p.retry, func() error {
		attempts++
		var verifyErr error
		envelope, verifyErr = verifier.Verify(ctx, body, headers)
		return verifyErr
	})

	outcome := verificationOutcome(err)
	attrs := metric.WithAttributes(
		attribute.String("provider", verifier.Provider().String()),
		attribute.String("outcome", outcome),
	)
	p.verifications.Add(ctx, 1, attrs)
	p.latency.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		slog.WarnContext(ctx, "webhook verification failed",
			"outcome", outcome,
			"attempts", attempts,
			"retryable", errors.IsRetryable(err),
			"error", err,
		)
		return nil, err
	}

	slog.DebugContext(ctx, "webhook verified",
		"event_id", envelope.ID,
		"event_type", envelope.EventType.String(),
		"attempts", attempts,
	)
	return envelope, nil
}

func (p *WebhookProcessor) dispatch(ctx context.Context, envelope model.WebhookEnvelope) error {
	err := p.dispatcher.Dispatch(ctx, envelope)

	outcome := "ok"
	if err != nil {
		outcome = outcomeError
		slog.ErrorContext(ctx, "webhook handler failed",
			"event_id", envelope.ID,
			"event_type", envelope.EventType.String(),
			"error", err,
		)
	}

	p.dispatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", envelope.Provider.String()),
		attribute.String("kind", string(envelope.EventType.Kind)),
		attribute.String("outcome", outcome),
	))

	return err
}

// verificationOutcome names the failure class of a verification error
func verificationOutcome(err error) string {
	if err == nil {
		return outcomeVerified
	}

	var (
		malformedHeader   errors.MalformedHeader
		missingHeader     errors.MissingHeader
		signatureMismatch errors.SignatureMismatch
		expiredTimestamp  errors.ExpiredTimestamp
		untrusted         errors.UntrustedCertificateSource
		remoteRejected    errors.RemoteVerificationFailed
		remoteUnavailable errors.RemoteUnavailable
		deserialization   errors.Deserialization
	)

	switch {
	case stderrors.As(err, &malformedHeader):
		return outcomeMalformedHeader
	case stderrors.As(err, &missingHeader):
		return outcomeMissingHeader
	case stderrors.As(err, &signatureMismatch):
		return outcomeSignatureMismatch
	case stderrors.As(err, &expiredTimestamp):
		return outcomeExpiredTimestamp
	case stderrors.As(err, &untrusted):
		return outcomeUntrustedCertificate
	case stderrors.As(err, &remoteRejected):
		return outcomeRemoteRejected
	case stderrors.As(err, &remoteUnavailable):
		return outcomeRemoteUnavailable
	case stderrors.As(err, &deserialization):
		return outcomeDeserialization
	default:
		return outcomeError
	}
}
