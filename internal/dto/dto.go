package dto

type VerifySessionRequest struct {
	SessionID string `json:"session_id"`
}

type VerifySessionResponse struct {
	Valid bool           `json:"valid"`
	Error string         `json:"error,omitempty"`
	Debug map[string]any `json:"debug,omitempty"`
}

type CreateCheckoutSessionRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	CouponCode string `json:"couponCode"`
}

type CreateCheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
