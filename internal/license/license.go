package license

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

const FileName = "LICENSE.txt"

const dateLayout = "2006-01-02"

// Info identifies the licensee. PurchaseDate is formatted YYYY-MM-DD.
type Info struct {
	Email        string
	Organization string
	PurchaseDate string
	SessionID    string
}

func (i Info) Year() string {
	if d, err := time.Parse(dateLayout, i.PurchaseDate); err == nil {
		return d.Format("2006")
	}
	return ""
}

// PurchaseDate formats a Stripe "created" unix timestamp.
func PurchaseDate(created int64) string {
	return time.Unix(created, 0).UTC().Format(dateLayout)
}

var licenseTmpl = template.Must(template.New("license").Parse(`HARBOR AGENT - GENESIS MISSION READINESS PACK
LICENSE AGREEMENT

This license is granted to:
  Email: {{.Email}}
{{- if .Organization}}
  Organization: {{.Organization}}
{{- end}}
  Purchase Date: {{.PurchaseDate}}
  Session ID: {{.SessionID}}

LICENSE TERMS:

1. PER-ORGANIZATION LICENSE
   This pack is licensed for use by ONE organization only. The organization
   is identified by the email address and session ID above.

2. NO REDISTRIBUTION OR RESALE
   You may NOT redistribute, resell, or share this pack with other
   organizations, individuals, or third parties.

3. INTERNAL USE ONLY
   This pack is intended for internal use within your organization to prepare
   for DOE Genesis Mission collaboration. You may use it to:
   - Prepare internal readiness assessments
   - Generate proposals and documentation
   - Train your team on Genesis alignment
   - Modernize your systems and workflows

4. UPDATES
   This license includes free updates for all 2025 revisions of the Genesis
   Mission Readiness Pack.

5. NO WARRANTIES
   This pack is provided "as-is" without warranties. It is NOT legal advice,
   NOT regulatory guidance, and NOT an official DOE document.

6. SUPPORT
   For questions or support, contact: support@gentlyventures.com

By downloading and using this pack, you agree to these license terms.

{{if .Year}}(c) {{.Year}} {{else}}(c) {{end}}Gently Ventures. All rights reserved.
`))

// Render produces the LICENSE.txt body. The output depends only on info.
func Render(info Info) (string, error) {
	var b strings.Builder
	if err := licenseTmpl.Execute(&b, info); err != nil {
		return "", fmt.Errorf("render license: %w", err)
	}
	return b.String(), nil
}
