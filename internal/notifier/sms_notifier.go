package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gemnoir/jewelry-api/internal/logging"
)

var smsHTTPClient = &http.Client{Timeout: 10 * time.Second}

type smsResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SendShippedSMS texts the shipping phone number when an admin marks the
// order SHIPPED. Fired from a goroutine; failures are logged only.
func SendShippedSMS(toPhoneNumber, orderNumber string) error {
	cfg := smsConfig

	if cfg.Username == "" || cfg.APIKey == "" {
		return fmt.Errorf("SMS provider is not configured")
	}
	if toPhoneNumber == "" {
		return fmt.Errorf("recipient phone number is empty")
	}

	message := fmt.Sprintf("Your order %s has shipped and is on its way. Thank you for shopping with Gemnoir!", orderNumber)

	data := url.Values{}
	data.Set("username", cfg.Username)
	data.Set("to", toPhoneNumber)
	data.Set("message", message)
	data.Set("from", cfg.SenderID)

	req, err := http.NewRequest(http.MethodPost, cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", cfg.APIKey)

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		logging.L.Error("SMS send failed",
			zap.String("order_number", orderNumber),
			zap.String("phone", toPhoneNumber),
			zap.Error(err))
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		logging.L.Error("SMS API returned non-success status",
			zap.String("order_number", orderNumber),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}

	var smsResp smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&smsResp); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}

	logging.L.Info("shipment SMS sent",
		zap.String("order_number", orderNumber),
		zap.String("phone", toPhoneNumber),
		zap.String("provider_message", smsResp.SMSMessageData.Message))
	return nil
}
