// internal/adapters/out/mail/receipt_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	"posbilling/internal/application/presenter"
	invoicedom "posbilling/internal/domain/invoice"
)

// EmailClient は実際のメール送信クライアント（SendGrid など）を抽象化したインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// ReceiptMailer は invoice.Notifier の実装で、確定した invoice の控えを送ります。
type ReceiptMailer struct {
	client      EmailClient
	fromAddress string
	shopName    string
}

func NewReceiptMailer(client EmailClient, fromAddress, shopName string) *ReceiptMailer {
	name := strings.TrimSpace(shopName)
	if name == "" {
		name = "POS Billing"
	}
	return &ReceiptMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		shopName:    name,
	}
}

var _ invoicedom.Notifier = (*ReceiptMailer)(nil)

func (m *ReceiptMailer) NotifyInvoiceCreated(ctx context.Context, toEmail string, inv invoicedom.Invoice) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("receipt mailer is not configured")
	}
	subject := fmt.Sprintf("[%s] Invoice %s for %s", m.shopName, inv.ID, inv.CustomerName)
	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(toEmail), subject, BuildReceiptBody(inv))
}

// BuildReceiptBody はプレーンテキストの控え本文を組み立てます。
func BuildReceiptBody(inv invoicedom.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice: %s\n", inv.ID)
	fmt.Fprintf(&b, "Customer: %s\n", inv.CustomerName)
	fmt.Fprintf(&b, "Date: %s\n\n", inv.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	for _, it := range inv.Items {
		line := it.Price * float64(it.Quantity)
		fmt.Fprintf(&b, "%s", it.Name)
		if it.SKU != "" {
			fmt.Fprintf(&b, " (%s)", it.SKU)
		}
		fmt.Fprintf(&b, "\n  %d x %s = %s\n", it.Quantity, presenter.FormatCurrency(it.Price), presenter.FormatCurrency(line))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", presenter.FormatCurrency(inv.Subtotal))
	fmt.Fprintf(&b, "Grand Total: %s\n", presenter.FormatCurrency(inv.GrandTotal))
	return b.String()
}
