package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/models"
	"github.com/gemnoir/jewelry-api/internal/payments"
)

// GenerateVietQRPayment serves the static bank-transfer QR for an order.
func GenerateVietQRPayment(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, found := findOwnedOrder(c, id, customer.ID)
	if !found {
		return
	}

	if order.PaymentStatus == models.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order is already paid"})
		return
	}

	payment := payments.GenerateVietQR(order)
	savePaymentRef(c, order, "vietqr", payment.Ref)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GenerateMoMoPayment tries the live wallet path and silently degrades to
// the static mock on missing configuration or any provider failure.
func GenerateMoMoPayment(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, found := findOwnedOrder(c, id, customer.ID)
	if !found {
		return
	}

	if order.PaymentStatus == models.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order is already paid"})
		return
	}

	payment, err := payments.CreateMoMoPayment(c.Request.Context(), order)
	if err != nil {
		logging.L.Warn("momo create failed, falling back to mock payment",
			zap.String("order_number", order.Number),
			zap.Error(err))
		payment = payments.MockMoMoPayment(order)
	}

	savePaymentRef(c, order, "momo", payment.Ref)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, payment)
}

type momoCallbackRequest struct {
	PartnerCode string `json:"partnerCode"`
	OrderID     string `json:"orderId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	ResultCode  int    `json:"resultCode"`
	Message     string `json:"message"`
	ExtraData   string `json:"extraData"`
	Signature   string `json:"signature"`
}

// MoMoCallback handles the provider's settlement notification. Whatever
// goes wrong is logged and swallowed: the provider always gets a success
// acknowledgement, and applying PAID twice is a no-op.
func MoMoCallback(c *gin.Context) {
	var req momoCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.L.Error("momo callback with unreadable body", zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	orderID, err := payments.DecodeExtraData(req.ExtraData)
	if err != nil {
		logging.L.Error("momo callback with bad extra data",
			zap.String("request_id", req.RequestID),
			zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	var order models.Order
	if err := db.DB.First(&order, orderID).Error; err != nil {
		logging.L.Error("momo callback for unknown order",
			zap.Uint("order_id", orderID),
			zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}

	status := models.PaymentFailed
	if req.ResultCode == 0 {
		status = models.PaymentPaid
	}

	if order.PaymentStatus != status {
		if err := db.DB.Model(&order).Update("payment_status", status).Error; err != nil {
			logging.L.Error("momo callback failed to update order",
				zap.String("order_number", order.Number),
				zap.Error(err))
		} else {
			logging.L.Info("momo callback applied",
				zap.String("order_number", order.Number),
				zap.String("payment_status", string(status)))
		}
	}

	c.Status(http.StatusNoContent)
}

type momoConfirmRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// MoMoConfirm lets the storefront ask for an on-demand provider check,
// typically right after the customer returns from the wallet app.
func MoMoConfirm(c *gin.Context) {
	customer := auth.CurrentCustomer(c)

	var req momoConfirmRequest
	if !bindJSON(c, &req) {
		return
	}

	order, found := findOwnedOrder(c, req.OrderID, customer.ID)
	if !found {
		return
	}

	state := resolvePaymentState(c, order)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       order.ID,
		"order_number":   order.Number,
		"state":          state,
		"payment_status": order.PaymentStatus,
	})
}

// PaymentStatusCheck reports the settlement state of an order's payment.
func PaymentStatusCheck(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	order, found := findOwnedOrder(c, id, customer.ID)
	if !found {
		return
	}

	state := resolvePaymentState(c, order)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       order.ID,
		"order_number":   order.Number,
		"state":          state,
		"payment_status": order.PaymentStatus,
	})
}

// resolvePaymentState consults the provider only when the stored state is
// still open, and persists a settled answer.
func resolvePaymentState(c *gin.Context, order *models.Order) payments.State {
	if order.PaymentStatus == models.PaymentPaid {
		return payments.StatePaid
	}

	state, err := payments.Checker().CheckStatus(c.Request.Context(), order.PaymentRef)
	if err != nil {
		logging.L.Warn("payment status check failed",
			zap.String("order_number", order.Number),
			zap.Error(err))
		return payments.StatePending
	}

	var status models.PaymentStatus
	switch state {
	case payments.StatePaid:
		status = models.PaymentPaid
	case payments.StateFailed:
		status = models.PaymentFailed
	default:
		return state
	}

	if order.PaymentStatus != status {
		order.PaymentStatus = status
		if err := db.DB.Model(order).Update("payment_status", status).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return state
		}
	}
	return state
}

func savePaymentRef(c *gin.Context, order *models.Order, method, ref string) {
	order.PaymentMethod = method
	order.PaymentRef = ref
	err := db.DB.Model(order).Updates(map[string]interface{}{
		"payment_method": method,
		"payment_ref":    ref,
	}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
