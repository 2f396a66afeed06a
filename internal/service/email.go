package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const downloadEmailSubject = "Your Genesis Mission Readiness Pack is Ready"

type downloadEmailData struct {
	DownloadURL  string
	Amount       string
	Personalized bool
	ExpiresIn    string
}

var downloadEmailTmpl = template.Must(template.New("download").Parse(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"></head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; border-radius: 8px 8px 0 0;">
      <h1 style="color: #ffffff; margin: 0; font-size: 28px;">Thank You for Your Purchase!</h1>
    </div>
    <div style="background: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px;">
      <p style="font-size: 16px;">Your <strong>Genesis Mission Readiness Professional Pack</strong> is ready to download.</p>
      {{- if .Amount}}
      <p style="font-size: 14px; color: #6b7280;">Amount paid: {{.Amount}}</p>
      {{- end}}
      <div style="text-align: center; margin: 30px 0;">
        <a href="{{.DownloadURL}}" style="display: inline-block; background-color: #667eea; color: #ffffff; padding: 14px 28px; text-decoration: none; border-radius: 6px; font-weight: 600; font-size: 16px;">Download Your Pack</a>
      </div>
      <p style="font-size: 14px; color: #6b7280; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb;">
        {{- if .Personalized}}
        <strong>Note:</strong> This download link is personalized and secure. It expires in {{.ExpiresIn}} for your security.
        {{- end}}
        If you have any questions, please contact us at <a href="mailto:support@gentlyventures.com" style="color: #667eea;">support@gentlyventures.com</a>.
      </p>
      {{- if .Personalized}}
      <p style="font-size: 12px; color: #9ca3af; margin-top: 20px; padding-top: 15px; border-top: 1px solid #e5e7eb;">
        Your personalized pack includes a LICENSE.txt file with your organization's license terms.
      </p>
      {{- end}}
    </div>
  </body>
</html>
`))

func renderDownloadEmail(data downloadEmailData) (html string, text string, err error) {
	var buf bytes.Buffer
	if err := downloadEmailTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render download email: %w", err)
	}

	var tb strings.Builder
	tb.WriteString("Thank you for your purchase!\n\n")
	tb.WriteString("Your Genesis Mission Readiness Professional Pack is ready to download:\n")
	tb.WriteString(data.DownloadURL + "\n\n")
	if data.Amount != "" {
		tb.WriteString("Amount paid: " + data.Amount + "\n\n")
	}
	if data.Personalized {
		tb.WriteString("This link expires in " + data.ExpiresIn + ".\n")
	}
	tb.WriteString("Questions: support@gentlyventures.com\n")

	return buf.String(), tb.String(), nil
}

// humanizeTTL renders a link lifetime as whole hours or minutes.
func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(d/time.Second), "second")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Stripe amounts are in the currency's minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func formatAmount(minor int64, currency string) string {
	if currency == "" {
		return ""
	}
	cur := strings.ToLower(currency)
	if zeroDecimalCurrencies[cur] {
		return fmt.Sprintf("%d %s", minor, strings.ToUpper(cur))
	}
	return decimal.New(minor, -2).StringFixed(2) + " " + strings.ToUpper(cur)
}
