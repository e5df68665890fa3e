package mailing

import (
	"MatSmart-Lager/domain"
	"bytes"
	"html/template"
	"time"
)

var expiryDigestTemplate = template.Must(template.New("expiry").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2 style="color: #059669;">Snart utgånget i ditt lager</h2>
  <p>{{len .Items}} varor går ut inom {{.Days}} dagar.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Vara</th><th align="left">Mängd</th><th align="left">Bäst före</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}} {{.Unit}}</td><td>{{.ExpiryDate}}</td></tr>
    {{end}}
  </table>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Öppna MatSmart Lager</a></p>{{end}}
  <p style="font-size: 12px; color: #6b7280;">Skickat {{.SentAt}}</p>
</body>
</html>`))

const ExpiryDigestSubject = "Varor som snart går ut"

func RenderExpiryDigest(items []domain.InventoryItem, days int, appURL string, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := expiryDigestTemplate.Execute(&buf, struct {
		Items  []domain.InventoryItem
		Days   int
		AppURL string
		SentAt string
	}{
		Items:  items,
		Days:   days,
		AppURL: appURL,
		SentAt: now.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
