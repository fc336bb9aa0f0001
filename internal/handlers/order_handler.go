package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gemnoir/jewelry-api/internal/auth"
	"github.com/gemnoir/jewelry-api/internal/db"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/models"
	"github.com/gemnoir/jewelry-api/internal/notifier"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingName    string             `json:"shipping_name" binding:"required"`
	ShippingPhone   string             `json:"shipping_phone" binding:"required"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	Note            string             `json:"note"`
	// DeclaredTotal is what the storefront showed the customer. It is
	// echoed back for display but the persisted total is always
	// recomputed server-side from the line items.
	DeclaredTotal *decimal.Decimal `json:"declared_total"`
}

func CreateOrder(c *gin.Context) {
	customer := auth.CurrentCustomer(c)

	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order := models.Order{
		CustomerID:      customer.ID,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentUnpaid,
		ShippingName:    req.ShippingName,
		ShippingPhone:   req.ShippingPhone,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
	}

	var badRequest string

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// The order number is derived from the row id and persisted
		// here, so every later read returns the same value.
		order.Number = fmt.Sprintf("ORD-%d-%d", order.ID, order.CreatedAt.Unix()%1000000)

		items := make([]models.OrderItem, 0, len(req.Items))
		total := decimal.Zero

		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				badRequest = fmt.Sprintf("product not found with id: %d", item.ProductID)
				return err
			}

			// Optimistic stock decrement: zero rows affected means a
			// concurrent order drained the stock first.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", product.ID, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				badRequest = fmt.Sprintf("insufficient stock for product %d", product.ID)
				return gorm.ErrInvalidData
			}

			price := product.EffectivePrice()
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)

			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     price,
				Subtotal:  subtotal,
			})
		}

		if err := tx.CreateInBatches(&items, len(items)).Error; err != nil {
			return err
		}

		order.Total = total
		return tx.Model(&order).Updates(map[string]interface{}{
			"number": order.Number,
			"total":  order.Total,
		}).Error
	})
	if err != nil {
		if badRequest != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": badRequest})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	if err := db.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve order"})
		return
	}

	go func(email, name, number string, total decimal.Decimal) {
		if err := notifier.SendOrderConfirmation(email, name, number, total); err != nil {
			logging.L.Warn("order confirmation email failed",
				zap.String("order_number", number),
				zap.Error(err))
		}
	}(customer.Email, customer.Name, order.Number, order.Total)

	resp := gin.H{"message": "order created successfully", "order": order}
	if req.DeclaredTotal != nil {
		resp["declared_total"] = req.DeclaredTotal
	}
	c.JSON(http.StatusCreated, resp)
}

func GetUserOrders(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	page, limit, offset := pagination(c)

	query := db.DB.Model(&models.Order{}).Where("customer_id = ?", customer.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func GetOrder(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, found := findOwnedOrder(c, id, customer.ID)
	if !found {
		return
	}

	c.JSON(http.StatusOK, order)
}

func CancelOrder(c *gin.Context) {
	customer := auth.CurrentCustomer(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, found := findOwnedOrder(c, id, customer.ID)
	if !found {
		return
	}

	if order.Status != models.OrderPending {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("only pending orders can be cancelled, current status is %s", order.Status),
		})
		return
	}

	order.Status = models.OrderCancelled
	if err := db.DB.Model(order).Update("status", models.OrderCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// Admin sort fields are whitelisted; anything else falls back to created_at.
var orderSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"total":      "total",
}

func GetAllOrders(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := db.DB.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	sortField, ok := orderSortFields[c.DefaultQuery("sort", "created_at")]
	if !ok {
		sortField = "created_at"
	}
	direction := "DESC"
	if c.Query("dir") == "asc" {
		direction = "ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order(sortField + " " + direction).
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func GetOrderAdmin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var order models.Order
	err := db.DB.Preload("Items").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus lets an admin set any valid status directly; the
// customer-facing transition graph is not enforced here.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status: %s", req.Status)})
		return
	}

	var order models.Order
	if err := db.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	previous := order.Status
	order.Status = req.Status
	if err := db.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Status == models.OrderShipped && previous != models.OrderShipped {
		go func(phone, number string) {
			if err := notifier.SendShippedSMS(phone, number); err != nil {
				logging.L.Warn("shipment SMS failed",
					zap.String("order_number", number),
					zap.Error(err))
			}
		}(order.ShippingPhone, order.Number)
	}

	c.JSON(http.StatusOK, order)
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
}

func UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.PaymentStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid payment status: %s", req.PaymentStatus)})
		return
	}

	var order models.Order
	if err := db.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	order.PaymentStatus = req.PaymentStatus
	if err := db.DB.Model(&order).Update("payment_status", req.PaymentStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// findOwnedOrder loads an order scoped to its owner; a mismatch reads the
// same as a missing order.
func findOwnedOrder(c *gin.Context, orderID, customerID uint) (*models.Order, bool) {
	var order models.Order
	err := db.DB.Preload("Items").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return nil, false
	}
	return &order, true
}
