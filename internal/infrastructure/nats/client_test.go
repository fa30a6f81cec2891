// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/infrastructure/codec"
	pkgerrors "github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

func TestNATSClient_IsReady_NotConnected(t *testing.T) {
	client := &NATSClient{}

	err := client.IsReady(context.Background())

	var unavailable pkgerrors.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.NoError(t, client.Close())
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})

	var validation pkgerrors.Validation
	assert.True(t, errors.As(err, &validation))
}

func TestNewClient_Unreachable(t *testing.T) {
	config := DefaultConfig()
	config.URL = "nats://127.0.0.1:1"
	config.Timeout = 200 * time.Millisecond
	config.MaxReconnect = 0

	_, err := NewClient(context.Background(), config)

	var unavailable pkgerrors.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))
}

func TestEventPublisher_NotReady(t *testing.T) {
	encoder, err := codec.NewEncoder("json")
	require.NoError(t, err)
	publisher := NewEventPublisher(&NATSClient{}, encoder)

	err = publisher.Publish(context.Background(), model.VerifiedEvent{
		Provider: model.ProviderStripe,
		ID:       "evt_1",
		Kind:     model.KindPaymentSucceeded,
	})

	var unavailable pkgerrors.ServiceUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.Error(t, publisher.IsReady(context.Background()))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("NATS_URL", "nats://nats.example.com:4222")
	t.Setenv("NATS_CREDENTIALS", "/etc/nats/user.creds")
	t.Setenv("NATS_TIMEOUT", "5s")
	t.Setenv("NATS_MAX_RECONNECT", "7")
	t.Setenv("NATS_RECONNECT_WAIT", "1s")

	config, err := NewConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, Config{
		URL:             "nats://nats.example.com:4222",
		CredentialsFile: "/etc/nats/user.creds",
		Timeout:         5 * time.Second,
		MaxReconnect:    7,
		ReconnectWait:   time.Second,
	}, config)

	t.Setenv("NATS_TIMEOUT", "soon")
	_, err = NewConfigFromEnv()
	assert.Error(t, err)
}
