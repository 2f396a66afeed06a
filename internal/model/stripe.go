package model

import "github.com/stripe/stripe-go/v82"

// SessionPaid reports whether the buyer is entitled to the download.
// Sessions redeemed with a 100% coupon complete with no_payment_required.
func SessionPaid(s *stripe.CheckoutSession) bool {
	if s == nil || s.Status != stripe.CheckoutSessionStatusComplete {
		return false
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		s.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}

// SessionEmail returns the buyer address, or "" when Stripe has none.
func SessionEmail(s *stripe.CheckoutSession) string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

func SessionCustomerName(s *stripe.CheckoutSession) string {
	if s.CustomerDetails == nil {
		return ""
	}
	return s.CustomerDetails.Name
}
