// internal/adapters/out/mail/sendgrid_wire.go
package mail

import (
	"strings"

	"go.uber.org/zap"

	"posbilling/internal/infra/logger"
)

// NewReceiptMailerWithSendGrid は SendGrid を使った ReceiptMailer を生成します。
// apiKey / fromAddr のどちらかが空なら nil（レシート送信は無効）。
func NewReceiptMailerWithSendGrid(apiKey, fromAddr, shopName string, log *zap.SugaredLogger) *ReceiptMailer {
	l := logger.OrNop(log)
	apiKey = strings.TrimSpace(apiKey)
	fromAddr = strings.TrimSpace(fromAddr)

	if apiKey == "" {
		l.Infof("[mail] SENDGRID_API_KEY is empty. receipt mail disabled")
		return nil
	}
	if fromAddr == "" {
		l.Warnf("[mail] WARN: SENDGRID_FROM is empty. receipt mail disabled")
		return nil
	}

	mailer := NewReceiptMailer(NewSendGridClient(apiKey, shopName, l), fromAddr, shopName)
	l.Infof("[mail] ReceiptMailer initialized. from=%s", fromAddr)
	return mailer
}
