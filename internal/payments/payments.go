package payments

import (
	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/logging"
)

var (
	momoConfig   config.MoMoConfig
	vietQRConfig config.VietQRConfig
)

// Init wires provider configuration and installs the status checker. With
// no wallet configured, every live-path call degrades to the static mock
// and status checks go through MockChecker.
func Init(cfg config.Config) {
	momoConfig = cfg.MoMo
	vietQRConfig = cfg.VietQR

	if momoConfig.Configured() {
		SetChecker(&MoMoChecker{cfg: momoConfig})
		logging.L.Info("momo wallet configured, live payment path enabled")
	} else {
		SetChecker(MockChecker{})
		logging.L.Warn("momo wallet not configured, serving mock payments")
	}
}
