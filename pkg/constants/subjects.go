// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// NATS subject and RabbitMQ exchange constants for verified event publishing
const (
	// PaymentWebhookSubjectPrefix prefixes every verified event subject.
	// Full subject: lfx.payments.webhook.<provider>.<kind>
	PaymentWebhookSubjectPrefix = "lfx.payments.webhook"

	// DefaultRabbitMQExchange is the topic exchange verified events are published to.
	// Routing key: <provider>.<kind>
	DefaultRabbitMQExchange = "payment_webhook_events"
)
