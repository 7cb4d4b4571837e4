// Package order turns a cart into the text message sent to the restaurant and
// the hand-off link that carries it.
package order

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"lacasa/internal/cart"
)

// nbsp separates the currency sign from the amount, as es-CO formatting does.
const nbsp = "\u00a0"

// FormatPrice renders whole pesos the es-CO way: "$ 35.000".
func FormatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + nbsp + humanize.FormatInteger("#.###,", int(amount))
}

// Message builds the order text for the given cart entries and customer.
func Message(s cart.State, c cart.Customer) string {
	var b strings.Builder
	b.WriteString("🍕 *NUEVO PEDIDO - LA LEÑA*\n\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", c.Name)
	fmt.Fprintf(&b, "📱 *Teléfono:* %s\n", c.Phone)
	fmt.Fprintf(&b, "📍 *Dirección:* %s\n\n", c.Address)
	if c.HasObservations() {
		fmt.Fprintf(&b, "📝 *Observaciones:* %s\n\n", c.Observations)
	}
	b.WriteString("🛍️ *DETALLE DEL PEDIDO:*\n")

	for i, it := range s.Items {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Name)
		if it.Size != "" {
			fmt.Fprintf(&b, " (%s)", it.Size)
		}
		if len(it.Flavors) > 0 {
			b.WriteString(" - Sabores: " + strings.Join(it.Flavors, ", "))
		}
		fmt.Fprintf(&b, "\n   Cantidad: %d x %s = %s\n\n", it.Quantity, FormatPrice(it.Price), FormatPrice(it.Subtotal()))
	}

	fmt.Fprintf(&b, "💰 *TOTAL: %s*\n\n", FormatPrice(cart.Total(s)))
	b.WriteString("¡Gracias por tu pedido! 🙏")
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes msg for use as a URL query component. It leaves the
// same characters alone as the browser's encodeURIComponent, so spaces become
// %20 rather than '+', and !'()* pass through.
func Encode(msg string) string {
	var b strings.Builder
	b.Grow(len(msg) * 3)
	for i := 0; i < len(msg); i++ {
		c := msg[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// HandoffURL is the link that opens the messaging app with the order prefilled.
func HandoffURL(host, destination string, s cart.State, c cart.Customer) string {
	return "https://" + host + "/" + destination + "?text=" + Encode(Message(s, c))
}
