package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, info Info) string {
	t.Helper()
	text, err := Render(info)
	require.NoError(t, err)
	return text
}

func TestRender(t *testing.T) {
	info := Info{
		Email:        "buyer@example.com",
		Organization: "Acme Labs",
		PurchaseDate: "2025-03-01",
		SessionID:    "cs_test_123",
	}

	text := render(t, info)

	assert.Contains(t, text, "  Email: buyer@example.com\n  Organization: Acme Labs\n  Purchase Date: 2025-03-01\n  Session ID: cs_test_123\n")
	assert.Contains(t, text, "free updates for all 2025 revisions of the Genesis\n   Mission Readiness Pack.\n")
	assert.Contains(t, text, "(c) 2025 Gently Ventures. All rights reserved.")
}

func TestRenderWithoutOrganization(t *testing.T) {
	text := render(t, Info{Email: "buyer@example.com", PurchaseDate: "2025-03-01", SessionID: "cs_1"})

	assert.NotContains(t, text, "Organization:")
	assert.Contains(t, text, "  Email: buyer@example.com\n  Purchase Date: 2025-03-01\n")
}

func TestRenderDeterministic(t *testing.T) {
	info := Info{Email: "a@example.com", PurchaseDate: "2024-12-31", SessionID: "cs_live_x"}
	assert.Equal(t, render(t, info), render(t, info))
}

func TestPurchaseDate(t *testing.T) {
	assert.Equal(t, "2025-03-01", PurchaseDate(1740830400))
	assert.Equal(t, "1970-01-01", PurchaseDate(0))
}

func TestYearUnparsable(t *testing.T) {
	assert.Equal(t, "", Info{PurchaseDate: "soon"}.Year())
	assert.Contains(t, render(t, Info{PurchaseDate: "soon"}), "(c) Gently Ventures.")
}
