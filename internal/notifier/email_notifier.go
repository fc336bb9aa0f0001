package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gemnoir/jewelry-api/internal/logging"
)

// SendOrderConfirmation emails the customer after an order commits. Fired
// from a goroutine; failures are logged, never surfaced to the request.
func SendOrderConfirmation(recipientEmail, customerName, orderNumber string, total decimal.Decimal) error {
	cfg := emailConfig

	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		logging.L.Error("failed to load AWS SDK config",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	subject := fmt.Sprintf("Order %s Confirmation - Thank You for Your Purchase!", orderNumber)
	amount := total.StringFixed(2)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your order %s has been successfully placed.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Order Number: %s</li>
                <li>Total Amount: %s</li>
            </ul>
            <p>We'll send you another email when your order ships.</p>
            <p>Best regards,</p>
            <p>Gemnoir Jewelry</p>
        </body>
        </html>`, customerName, orderNumber, orderNumber, amount)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order %s has been successfully placed.\n\n"+
			"Order Details:\nOrder Number: %s\nTotal Amount: %s\n\n"+
			"We'll send you another email when your order ships.\n\nBest regards,\nGemnoir Jewelry",
		customerName, orderNumber, orderNumber, amount)

	input := &ses.SendEmailInput{
		Source: aws.String(cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := client.SendEmail(context.TODO(), input); err != nil {
		logging.L.Error("failed to send confirmation email",
			zap.String("order_number", orderNumber),
			zap.String("recipient", recipientEmail),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	logging.L.Info("order confirmation email sent",
		zap.String("order_number", orderNumber),
		zap.String("recipient", recipientEmail))
	return nil
}
