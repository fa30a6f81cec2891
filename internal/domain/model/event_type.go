// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// EventKind is a provider independent category of webhook event
type EventKind string

// Known event kinds. KindOther is used for every name no provider table knows.
const (
	KindPaymentCreated            EventKind = "payment_created"
	KindPaymentSucceeded          EventKind = "payment_succeeded"
	KindPaymentFailed             EventKind = "payment_failed"
	KindPaymentCanceled           EventKind = "payment_canceled"
	KindPaymentPending            EventKind = "payment_pending"
	KindPaymentUpdated            EventKind = "payment_updated"
	KindChargeSucceeded           EventKind = "charge_succeeded"
	KindChargeFailed              EventKind = "charge_failed"
	KindChargeRefunded            EventKind = "charge_refunded"
	KindRefundUpdated             EventKind = "refund_updated"
	KindDisputeCreated            EventKind = "dispute_created"
	KindDisputeUpdated            EventKind = "dispute_updated"
	KindDisputeClosed             EventKind = "dispute_closed"
	KindCustomerCreated           EventKind = "customer_created"
	KindCustomerUpdated           EventKind = "customer_updated"
	KindCustomerDeleted           EventKind = "customer_deleted"
	KindSubscriptionCreated       EventKind = "subscription_created"
	KindSubscriptionActivated     EventKind = "subscription_activated"
	KindSubscriptionUpdated       EventKind = "subscription_updated"
	KindSubscriptionCanceled      EventKind = "subscription_canceled"
	KindSubscriptionPaused        EventKind = "subscription_paused"
	KindSubscriptionResumed       EventKind = "subscription_resumed"
	KindSubscriptionPaymentFailed EventKind = "subscription_payment_failed"
	KindInvoiceCreated            EventKind = "invoice_created"
	KindInvoiceUpdated            EventKind = "invoice_updated"
	KindInvoiceFinalized          EventKind = "invoice_finalized"
	KindInvoicePaid               EventKind = "invoice_paid"
	KindInvoicePaymentFailed      EventKind = "invoice_payment_failed"
	KindOrderCreated              EventKind = "order_created"
	KindOrderApproved             EventKind = "order_approved"
	KindOrderCompleted            EventKind = "order_completed"
	KindOrderUpdated              EventKind = "order_updated"
	KindPlanCreated               EventKind = "plan_created"
	KindPlanUpdated               EventKind = "plan_updated"
	KindPayoutCreated             EventKind = "payout_created"
	KindPayoutPaid                EventKind = "payout_paid"
	KindPayoutFailed              EventKind = "payout_failed"
	KindAccountUpdated            EventKind = "account_updated"
	KindOther                     EventKind = "other"
)

var knownKinds = []EventKind{
	KindPaymentCreated, KindPaymentSucceeded, KindPaymentFailed, KindPaymentCanceled,
	KindPaymentPending, KindPaymentUpdated, KindChargeSucceeded, KindChargeFailed,
	KindChargeRefunded, KindRefundUpdated, KindDisputeCreated, KindDisputeUpdated,
	KindDisputeClosed, KindCustomerCreated, KindCustomerUpdated, KindCustomerDeleted,
	KindSubscriptionCreated, KindSubscriptionActivated, KindSubscriptionUpdated,
	KindSubscriptionCanceled, KindSubscriptionPaused, KindSubscriptionResumed,
	KindSubscriptionPaymentFailed, KindInvoiceCreated, KindInvoiceUpdated,
	KindInvoiceFinalized, KindInvoicePaid, KindInvoicePaymentFailed, KindOrderCreated,
	KindOrderApproved, KindOrderCompleted, KindOrderUpdated, KindPlanCreated,
	KindPlanUpdated, KindPayoutCreated, KindPayoutPaid, KindPayoutFailed, KindAccountUpdated,
}

// KnownEventKinds returns every kind except KindOther
func KnownEventKinds() []EventKind {
	kinds := make([]EventKind, len(knownKinds))
	copy(kinds, knownKinds)
	return kinds
}

// IsKnown reports whether k is one of the known kinds or KindOther
func (k EventKind) IsKnown() bool {
	if k == KindOther {
		return true
	}
	for _, known := range knownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// EventType is a classified provider event. Name always holds the provider's
// original type string, so KindOther events lose nothing.
type EventType struct {
	Kind EventKind
	Name string
}

// IsOther reports whether the provider name matched no known kind
func (e EventType) IsOther() bool {
	return e.Kind == KindOther
}

func (e EventType) String() string {
	if e.IsOther() {
		return "other(" + e.Name + ")"
	}
	return string(e.Kind)
}

var stripeEventKinds = map[string]EventKind{
	"payment_intent.created":          KindPaymentCreated,
	"payment_intent.succeeded":        KindPaymentSucceeded,
	"payment_intent.payment_failed":   KindPaymentFailed,
	"payment_intent.canceled":         KindPaymentCanceled,
	"payment_intent.processing":       KindPaymentPending,
	"payment_intent.requires_action":  KindPaymentPending,
	"payment_intent.partially_funded": KindPaymentUpdated,
	"charge.succeeded":                KindChargeSucceeded,
	"charge.failed":                   KindChargeFailed,
	"charge.refunded":                 KindChargeRefunded,
	"charge.refund.updated":           KindRefundUpdated,
	"charge.dispute.created":          KindDisputeCreated,
	"charge.dispute.updated":          KindDisputeUpdated,
	"charge.dispute.closed":           KindDisputeClosed,
	"customer.created":                KindCustomerCreated,
	"customer.updated":                KindCustomerUpdated,
	"customer.deleted":                KindCustomerDeleted,
	"customer.subscription.created":   KindSubscriptionCreated,
	"customer.subscription.updated":   KindSubscriptionUpdated,
	"customer.subscription.deleted":   KindSubscriptionCanceled,
	"customer.subscription.paused":    KindSubscriptionPaused,
	"customer.subscription.resumed":   KindSubscriptionResumed,
	"subscription_schedule.created":   KindSubscriptionCreated,
	"subscription_schedule.updated":   KindSubscriptionUpdated,
	"subscription_schedule.canceled":  KindSubscriptionCanceled,
	"invoice.created":                 KindInvoiceCreated,
	"invoice.updated":                 KindInvoiceUpdated,
	"invoice.finalized":               KindInvoiceFinalized,
	"invoice.paid":                    KindInvoicePaid,
	"invoice.payment_succeeded":       KindInvoicePaid,
	"invoice.payment_failed":          KindInvoicePaymentFailed,
	"plan.created":                    KindPlanCreated,
	"plan.updated":                    KindPlanUpdated,
	"payout.created":                  KindPayoutCreated,
	"payout.paid":                     KindPayoutPaid,
	"payout.failed":                   KindPayoutFailed,
	"account.updated":                 KindAccountUpdated,
}

var paypalEventKinds = map[string]EventKind{
	"PAYMENT.CAPTURE.COMPLETED":           KindPaymentSucceeded,
	"PAYMENT.CAPTURE.DENIED":              KindPaymentFailed,
	"PAYMENT.CAPTURE.PENDING":             KindPaymentPending,
	"PAYMENT.CAPTURE.REFUNDED":            KindChargeRefunded,
	"CHECKOUT.ORDER.SAVED":                KindOrderUpdated,
	"CHECKOUT.ORDER.APPROVED":             KindOrderApproved,
	"CHECKOUT.ORDER.COMPLETED":            KindOrderCompleted,
	"BILLING.SUBSCRIPTION.CREATED":        KindSubscriptionCreated,
	"BILLING.SUBSCRIPTION.ACTIVATED":      KindSubscriptionActivated,
	"BILLING.SUBSCRIPTION.UPDATED":        KindSubscriptionUpdated,
	"BILLING.SUBSCRIPTION.CANCELLED":      KindSubscriptionCanceled,
	"BILLING.SUBSCRIPTION.EXPIRED":        KindSubscriptionCanceled,
	"BILLING.SUBSCRIPTION.SUSPENDED":      KindSubscriptionPaused,
	"BILLING.SUBSCRIPTION.PAYMENT.FAILED": KindSubscriptionPaymentFailed,
	"BILLING.PLAN.CREATED":                KindPlanCreated,
	"BILLING.PLAN.UPDATED":                KindPlanUpdated,
	"BILLING.PLAN.ACTIVATED":              KindPlanUpdated,
	"BILLING.PLAN.DEACTIVATED":            KindPlanUpdated,
}

var squareEventKinds = map[string]EventKind{
	"payment.created":                 KindPaymentCreated,
	"payment.updated":                 KindPaymentUpdated,
	"refund.created":                  KindChargeRefunded,
	"refund.updated":                  KindRefundUpdated,
	"dispute.created":                 KindDisputeCreated,
	"dispute.state.changed":           KindDisputeUpdated,
	"dispute.state.updated":           KindDisputeUpdated,
	"dispute.evidence.added":          KindDisputeUpdated,
	"dispute.evidence.removed":        KindDisputeUpdated,
	"terminal.refund.created":         KindChargeRefunded,
	"terminal.refund.updated":         KindRefundUpdated,
	"order.created":                   KindOrderCreated,
	"order.updated":                   KindOrderUpdated,
	"order.fulfillment.updated":       KindOrderUpdated,
	"customer.created":                KindCustomerCreated,
	"customer.updated":                KindCustomerUpdated,
	"customer.deleted":                KindCustomerDeleted,
	"invoice.created":                 KindInvoiceCreated,
	"invoice.updated":                 KindInvoiceUpdated,
	"invoice.published":               KindInvoiceFinalized,
	"invoice.sent":                    KindInvoiceFinalized,
	"invoice.payment_made":            KindInvoicePaid,
	"invoice.scheduled_charge_failed": KindInvoicePaymentFailed,
	"subscription.created":            KindSubscriptionCreated,
	"subscription.updated":            KindSubscriptionUpdated,
	"subscription.canceled":           KindSubscriptionCanceled,
	"subscription.paused":             KindSubscriptionPaused,
	"subscription.resumed":            KindSubscriptionResumed,
	"payout.sent":                     KindPayoutPaid,
	"payout.failed":                   KindPayoutFailed,
}

// ClassifyEvent maps a provider's event type string onto the closed kind set.
// Unmatched names classify as KindOther and keep the original string.
func ClassifyEvent(provider Provider, name string) EventType {
	var table map[string]EventKind
	switch provider {
	case ProviderStripe:
		table = stripeEventKinds
	case ProviderPayPal:
		table = paypalEventKinds
	case ProviderSquare:
		table = squareEventKinds
	}

	if kind, ok := table[name]; ok {
		return EventType{Kind: kind, Name: name}
	}
	return EventType{Kind: KindOther, Name: name}
}
