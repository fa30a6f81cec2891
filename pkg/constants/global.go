// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the payment webhook service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "payment-webhook"
)

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvNATSCredentials is the environment variable for NATS credentials
	EnvNATSCredentials = "NATS_CREDENTIALS"

	// EnvRabbitMQURL is the environment variable for the RabbitMQ server URL
	EnvRabbitMQURL = "RABBITMQ_URL"
	// EnvRabbitMQExchange is the environment variable for the RabbitMQ exchange name
	EnvRabbitMQExchange = "RABBITMQ_EXCHANGE"

	// EnvEventPublisher selects the verified event publisher (nats, rabbitmq, mock)
	EnvEventPublisher = "EVENT_PUBLISHER"
	// EnvEventEncoding selects the verified event wire encoding (json, msgpack)
	EnvEventEncoding = "EVENT_ENCODING"

	// EnvWebhookRoutesFile points to the YAML routing table for verified events
	EnvWebhookRoutesFile = "WEBHOOK_ROUTES_FILE"
)

// Event publisher implementations
const (
	PublisherNATS     = "nats"
	PublisherRabbitMQ = "rabbitmq"
	PublisherMock     = "mock"
)

// Event encodings
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)
