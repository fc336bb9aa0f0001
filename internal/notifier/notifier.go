package notifier

import (
	config "github.com/gemnoir/jewelry-api/configs"
)

var (
	emailConfig config.EmailConfig
	smsConfig   config.SMSConfig
)

func Init(cfg config.Config) {
	emailConfig = cfg.Email
	smsConfig = cfg.SMS
}
