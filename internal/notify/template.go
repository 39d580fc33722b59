package notify

import (
	"fmt"
	"html"
	"strings"
)

// FormatAmount renders minor units as a human-readable price.
func FormatAmount(cents int64, currency string) string {
	whole := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}
	switch strings.ToUpper(currency) {
	case "USD", "":
		return fmt.Sprintf("$%d.%02d", whole, frac)
	case "EUR":
		return fmt.Sprintf("€%d.%02d", whole, frac)
	default:
		return fmt.Sprintf("%d.%02d %s", whole, frac, strings.ToUpper(currency))
	}
}

// buildOrderNotificationBody renders the customer contact block, the
// itemized list, and the total as a standalone HTML document.
func buildOrderNotificationBody(n OrderNotification) string {
	var rows strings.Builder
	for _, item := range n.Items {
		unit := item.Product.UnitAmountCents()
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(item.Product.Name),
			item.Quantity,
			FormatAmount(unit, n.Currency),
			FormatAmount(unit*int64(item.Quantity), n.Currency),
		))
	}

	contact := &strings.Builder{}
	writeContactLine(contact, "Name", n.Customer.FullName)
	writeContactLine(contact, "Phone", n.Customer.PhoneNumber)
	writeContactLine(contact, "District", n.Customer.District)
	writeContactLine(contact, "City/Town", n.Customer.CityOrTown)
	writeContactLine(contact, "Preferred time", n.Customer.PreferredTime)
	writeContactLine(contact, "Email", n.Customer.Email)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; line-height: 1.5; color: #333; max-width: 600px; margin: 0 auto; padding: 16px;">
	<h1 style="font-size: 20px;">New pay-on-delivery order</h1>
	<h2 style="font-size: 16px;">Customer</h2>
	<p>%s</p>
	<h2 style="font-size: 16px;">Items</h2>
	<table style="width: 100%%; border-collapse: collapse;">
		<thead>
			<tr>
				<th style="padding: 8px; text-align: left;">Item</th>
				<th style="padding: 8px; text-align: center;">Qty</th>
				<th style="padding: 8px; text-align: right;">Unit</th>
				<th style="padding: 8px; text-align: right;">Total</th>
			</tr>
		</thead>
		<tbody>%s</tbody>
	</table>
	<p style="font-size: 18px; font-weight: bold; text-align: right;">Total: %s</p>
</body>
</html>`, contact.String(), rows.String(), FormatAmount(n.TotalCents, n.Currency))
}

func writeContactLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s<br>", label, html.EscapeString(value))
}
