// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/errors"
)

func TestMockRemoteAttestor(t *testing.T) {
	ctx := context.Background()
	attestor := NewMockRemoteAttestor()

	response, err := attestor.Attest(ctx, &model.RemoteAttestationRequest{TransmissionID: "tx-1"})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", response.VerificationStatus)

	attestor.SetVerdict("FAILURE")
	response, err = attestor.Attest(ctx, &model.RemoteAttestationRequest{TransmissionID: "tx-2"})
	require.NoError(t, err)
	assert.Equal(t, "FAILURE", response.VerificationStatus)

	expectedErr := pkgerrors.NewRemoteUnavailable("simulated outage")
	attestor.SetError(expectedErr)
	_, err = attestor.Attest(ctx, &model.RemoteAttestationRequest{TransmissionID: "tx-3"})
	assert.True(t, errors.Is(err, expectedErr))

	requests := attestor.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, "tx-3", requests[2].TransmissionID)
}

func TestMockEventPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewMockEventPublisher()

	require.NoError(t, publisher.Publish(ctx, model.VerifiedEvent{Provider: model.ProviderStripe, ID: "evt_1", Kind: model.KindPaymentSucceeded}))
	require.NoError(t, publisher.Publish(ctx, model.VerifiedEvent{Provider: model.ProviderSquare, ID: "evt_2", Kind: model.KindOther}))

	events := publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "evt_1", events[0].ID)
	assert.Equal(t, "evt_2", events[1].ID)

	expectedErr := pkgerrors.NewServiceUnavailable("simulated broker outage")
	publisher.SetError(expectedErr)
	assert.True(t, errors.Is(publisher.Publish(ctx, model.VerifiedEvent{ID: "evt_3"}), expectedErr))
	assert.Len(t, publisher.Events(), 2)

	assert.NoError(t, publisher.IsReady(ctx))
	require.NoError(t, publisher.Close())
	assert.Error(t, publisher.IsReady(ctx))
}

func TestMockWebhookVerifier(t *testing.T) {
	ctx := context.Background()
	expectedErr := pkgerrors.NewRemoteUnavailable("first call fails")
	verifier := NewMockWebhookVerifier(model.ProviderPayPal).
		Fail(expectedErr).
		Return(model.WebhookEnvelope{Provider: model.ProviderPayPal, ID: "WH-1"})

	assert.Equal(t, model.ProviderPayPal, verifier.Provider())

	_, err := verifier.Verify(ctx, nil, nil)
	assert.True(t, errors.Is(err, expectedErr))

	for i := 0; i < 2; i++ {
		envelope, err := verifier.Verify(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "WH-1", envelope.ID)
	}
	assert.Equal(t, 3, verifier.Calls())

	_, err = NewMockWebhookVerifier(model.ProviderStripe).Verify(ctx, nil, nil)
	assert.Error(t, err)
}
