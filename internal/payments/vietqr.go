package payments

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gemnoir/jewelry-api/internal/models"
)

// QR payloads expire after this window; the storefront re-requests one
// when the countdown runs out.
const qrValidity = 30 * time.Minute

// mockQRImage is a 1x1 PNG used for the static QR path and the MoMo
// fallback. Real deployments swap it for a provider-rendered image.
const mockQRImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

// QRPayment is the response shape shared by the VietQR and MoMo paths.
type QRPayment struct {
	OrderNumber string    `json:"order_number"`
	Provider    string    `json:"provider"`
	Ref         string    `json:"ref"`
	Amount      string    `json:"amount"`
	QRImage     string    `json:"qr_image"`
	PayURL      string    `json:"pay_url,omitempty"`
	BankCode    string    `json:"bank_code,omitempty"`
	AccountNo   string    `json:"account_no,omitempty"`
	AccountName string    `json:"account_name,omitempty"`
	Memo        string    `json:"memo,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GenerateVietQR builds the static bank-transfer QR payload for an order.
func GenerateVietQR(order *models.Order) *QRPayment {
	cfg := vietQRConfig

	return &QRPayment{
		OrderNumber: order.Number,
		Provider:    "vietqr",
		Ref:         uuid.NewString(),
		Amount:      order.Total.StringFixed(2),
		QRImage:     mockQRImage,
		BankCode:    cfg.BankCode,
		AccountNo:   cfg.AccountNo,
		AccountName: cfg.AccountName,
		Memo:        fmt.Sprintf("Thanh toan don hang %s", order.Number),
		ExpiresAt:   time.Now().Add(qrValidity),
	}
}

// MockMoMoPayment is the fallback when the live wallet path is unavailable.
func MockMoMoPayment(order *models.Order) *QRPayment {
	return &QRPayment{
		OrderNumber: order.Number,
		Provider:    "momo",
		Ref:         uuid.NewString(),
		Amount:      order.Total.StringFixed(2),
		QRImage:     mockQRImage,
		Memo:        fmt.Sprintf("Thanh toan don hang %s", order.Number),
		ExpiresAt:   time.Now().Add(qrValidity),
	}
}
