package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/models"
)

const (
	momoCreatePath  = "/v2/gateway/api/create"
	momoQueryPath   = "/v2/gateway/api/query"
	momoRequestType = "captureWallet"

	// MoMo result codes. 0 is settled; these mean the payment is still
	// in flight; everything else is a terminal failure.
	momoCodeSuccess    = 0
	momoCodeInitiated  = 1000
	momoCodeProcessing = 7000
	momoCodeHeld       = 7002
	momoCodeConfirming = 9000
)

var momoHTTPClient = &http.Client{Timeout: 10 * time.Second}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	PayURL     string `json:"payUrl"`
	QRCodeURL  string `json:"qrCodeUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// CreateMoMoPayment performs the signed create-payment call against the
// wallet API. Callers fall back to the static mock on any returned error.
func CreateMoMoPayment(ctx context.Context, order *models.Order) (*QRPayment, error) {
	cfg := momoConfig
	if !cfg.Configured() {
		return nil, fmt.Errorf("momo wallet is not configured")
	}

	// One reference serves as both requestId and the provider-side order
	// id, so a single stored ref is enough for later status queries.
	ref := uuid.NewString()
	amount := order.Total.Round(0).IntPart()
	orderInfo := fmt.Sprintf("Thanh toan don hang %s", order.Number)
	extraData := EncodeExtraData(order.ID)

	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		cfg.AccessKey, amount, extraData, cfg.IPNURL, ref, orderInfo,
		cfg.PartnerCode, cfg.RedirectURL, ref, momoRequestType,
	)

	reqBody := momoCreateRequest{
		PartnerCode: cfg.PartnerCode,
		RequestID:   ref,
		Amount:      amount,
		OrderID:     ref,
		OrderInfo:   orderInfo,
		RedirectURL: cfg.RedirectURL,
		IPNURL:      cfg.IPNURL,
		ExtraData:   extraData,
		RequestType: momoRequestType,
		Signature:   Sign(cfg.SecretKey, raw),
		Lang:        "vi",
	}

	var resp momoCreateResponse
	if err := momoPost(ctx, cfg.Endpoint+momoCreatePath, reqBody, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCode != momoCodeSuccess {
		return nil, fmt.Errorf("momo create rejected: code %d: %s", resp.ResultCode, resp.Message)
	}

	return &QRPayment{
		OrderNumber: order.Number,
		Provider:    "momo",
		Ref:         ref,
		Amount:      order.Total.StringFixed(2),
		QRImage:     resp.QRCodeURL,
		PayURL:      resp.PayURL,
		Memo:        orderInfo,
		ExpiresAt:   time.Now().Add(qrValidity),
	}, nil
}

type momoQueryRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoQueryResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// MoMoChecker resolves payment state with a signed query-status call.
type MoMoChecker struct {
	cfg config.MoMoConfig
}

func (m *MoMoChecker) CheckStatus(ctx context.Context, providerRef string) (State, error) {
	if providerRef == "" {
		return StatePending, nil
	}

	raw := fmt.Sprintf(
		"accessKey=%s&orderId=%s&partnerCode=%s&requestId=%s",
		m.cfg.AccessKey, providerRef, m.cfg.PartnerCode, providerRef,
	)

	reqBody := momoQueryRequest{
		PartnerCode: m.cfg.PartnerCode,
		RequestID:   providerRef,
		OrderID:     providerRef,
		Signature:   Sign(m.cfg.SecretKey, raw),
		Lang:        "vi",
	}

	var resp momoQueryResponse
	if err := momoPost(ctx, m.cfg.Endpoint+momoQueryPath, reqBody, &resp); err != nil {
		return StatePending, err
	}

	switch resp.ResultCode {
	case momoCodeSuccess:
		return StatePaid, nil
	case momoCodeInitiated, momoCodeProcessing, momoCodeHeld, momoCodeConfirming:
		return StatePending, nil
	default:
		return StateFailed, nil
	}
}

func momoPost(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode momo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build momo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := momoHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("momo call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.L.Warn("momo API returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("momo API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode momo response: %w", err)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 the wallet API expects over its
// canonical key=value string.
func Sign(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

type extraData struct {
	OrderID uint `json:"order_id"`
}

// EncodeExtraData packs the local order id into the opaque token echoed
// back by the provider callback.
func EncodeExtraData(orderID uint) string {
	payload, _ := json.Marshal(extraData{OrderID: orderID})
	return base64.StdEncoding.EncodeToString(payload)
}

// DecodeExtraData recovers the order id from a callback token.
func DecodeExtraData(token string) (uint, error) {
	payload, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("failed to decode extra data: %w", err)
	}

	var data extraData
	if err := json.Unmarshal(payload, &data); err != nil {
		return 0, fmt.Errorf("failed to parse extra data: %w", err)
	}
	if data.OrderID == 0 {
		return 0, fmt.Errorf("extra data carries no order id")
	}
	return data.OrderID, nil
}
