package service

import (
	"context"
	"errors"
	"sync"

	"github.com/gentlyventures/harboragent/internal/client"
	"github.com/gentlyventures/harboragent/internal/license"
	"github.com/gentlyventures/harboragent/internal/model"
	"github.com/gentlyventures/harboragent/internal/token"

	"github.com/stripe/stripe-go/v82"
)

type fakeStripe struct {
	sessions  map[string]*stripe.CheckoutSession
	getErr    error
	created   *client.CreateCheckoutSessionParams
	createErr error
}

func (f *fakeStripe) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, &stripe.Error{HTTPStatusCode: 404, Type: stripe.ErrorTypeInvalidRequest, Msg: "No such checkout.session"}
	}
	return s, nil
}

func (f *fakeStripe) CreateCheckoutSession(ctx context.Context, params client.CreateCheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &params
	return &stripe.CheckoutSession{ID: "cs_new", URL: "https://checkout.stripe.com/c/pay/cs_new"}, nil
}

type fakePostmark struct {
	mu   sync.Mutex
	sent []client.Email
	err  error
}

func (f *fakePostmark) SendEmail(ctx context.Context, email client.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return f.err
}

type fakeEventRepo struct {
	processed map[string]bool
	err       error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{processed: map[string]bool{}}
}

func (f *fakeEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.processed[id], nil
}

func (f *fakeEventRepo) MarkProcessed(ctx context.Context, eventID, eventType, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.processed[eventID] = true
	return nil
}

type fakeDownloadRepo struct {
	counts map[string]int64
	err    error
}

func (f *fakeDownloadRepo) Record(ctx context.Context, sessionID, email string) error {
	if f.err != nil {
		return f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[sessionID]++
	return nil
}

func (f *fakeDownloadRepo) Get(ctx context.Context, sessionID string) (*model.DownloadRecord, error) {
	return &model.DownloadRecord{SessionID: sessionID, DownloadCount: f.counts[sessionID]}, nil
}

type fakeBuilder struct {
	info license.Info
	url  string
	err  error
}

func (f *fakeBuilder) Build(ctx context.Context, baseURL string, info license.Info) ([]byte, error) {
	f.info = info
	f.url = baseURL
	if f.err != nil {
		return nil, f.err
	}
	return []byte("PK-personalized"), nil
}

// brokenIssuer fails to mint but verifies like a real signer.
type brokenIssuer struct {
	*token.Signer
}

func (brokenIssuer) Issue(sessionID, email string) (string, error) {
	return "", errors.New("entropy unavailable")
}

func paidSession(id string) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            id,
		Status:        "complete",
		PaymentStatus: "paid",
		AmountTotal:   4900,
		Currency:      "usd",
		Created:       1740830400,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "buyer@example.com",
			Name:  "Acme Labs",
		},
	}
}
