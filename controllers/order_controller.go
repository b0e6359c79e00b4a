package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
	"github.com/rachmati-dz/rachmati-api/services"
)

// UpdateOrderRequest represents the request body for updating an order
type UpdateOrderRequest struct {
	Status          string  `json:"status" binding:"required"`
	AdminNotes      *string `json:"admin_notes"`
	RejectionReason *string `json:"rejection_reason"`
}

// loadOrderWithAssociations fetches an order with everything the
// delivery pipeline needs: buyer, patterns, line items and files.
func loadOrderWithAssociations(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Client").
		Preload("Rachma.Designer").
		Preload("Rachma.Files").
		Preload("Items.Rachma.Designer").
		Preload("Items.Rachma.Files").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders handles GET /api/v1/admin/orders - lists orders with
// optional status filter and pagination
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Order{}).Preload("Client")

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Unknown order status filter",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"meta": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// GetOrder handles GET /api/v1/admin/orders/:id - returns the full
// order with client, patterns, files and a payment-proof review URL
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	order, err := loadOrderWithAssociations(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	// Attach a presigned review URL when a payment proof was uploaded
	if order.PaymentProofS3Key != nil && services.GetProofService() != nil {
		if url, err := services.GetProofService().GetProofURL(*order.PaymentProofS3Key); err == nil && url != "" {
			order.PaymentProofURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CheckFileDelivery handles GET /api/v1/admin/orders/:id/check-file-delivery -
// runs the delivery eligibility pre-flight and returns the full result
// for operator display, without mutating anything
func CheckFileDelivery(c *gin.Context) {
	db := config.GetDB()

	order, err := loadOrderWithAssociations(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.CheckDeliveryEligibility(order),
	})
}

// UpdateOrder handles PUT /api/v1/admin/orders/:id - the order status
// transition handler. Completion is gated on delivery eligibility and a
// successful file delivery; rejection requires a reason; re-opening a
// rejected order clears all completion artifacts.
func UpdateOrder(c *gin.Context) {
	db := config.GetDB()
	logger := config.GetLogger()

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	newStatus := models.OrderStatus(req.Status)
	if !newStatus.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown order status",
			},
		})
		return
	}

	order, err := loadOrderWithAssociations(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order",
			},
		})
		return
	}

	oldStatus := order.Status
	if !models.CanTransition(oldStatus, newStatus) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Order cannot move from " + string(oldStatus) + " to " + string(newStatus),
			},
		})
		return
	}

	if req.AdminNotes != nil {
		order.AdminNotes = req.AdminNotes
	}

	switch {
	case newStatus == models.OrderStatusCompleted && oldStatus != models.OrderStatusCompleted:
		if !completeOrder(c, db, order) {
			return
		}

	case newStatus == models.OrderStatusRejected && oldStatus != models.OrderStatusRejected:
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "rejection_reason is required to reject an order",
				},
			})
			return
		}
		now := time.Now()
		order.Status = models.OrderStatusRejected
		order.RejectionReason = req.RejectionReason
		order.RejectedAt = &now
		err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":           order.Status,
			"rejection_reason": order.RejectionReason,
			"rejected_at":      order.RejectedAt,
			"admin_notes":      order.AdminNotes,
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order",
				},
			})
			return
		}

	case newStatus == models.OrderStatusPending && oldStatus == models.OrderStatusRejected:
		// Re-opening clears every completion artifact
		order.Status = models.OrderStatusPending
		order.ConfirmedAt = nil
		order.FileSentAt = nil
		order.RejectedAt = nil
		order.CompletedAt = nil
		order.RejectionReason = nil
		err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":           order.Status,
			"confirmed_at":     nil,
			"file_sent_at":     nil,
			"rejected_at":      nil,
			"completed_at":     nil,
			"rejection_reason": nil,
			"admin_notes":      order.AdminNotes,
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order",
				},
			})
			return
		}

	default:
		// Same-status update: notes, plus an amended rejection reason
		// when the order is already rejected. No other side effects.
		updates := map[string]interface{}{
			"admin_notes": order.AdminNotes,
		}
		if oldStatus == models.OrderStatusRejected && req.RejectionReason != nil {
			order.RejectionReason = req.RejectionReason
			updates["rejection_reason"] = order.RejectionReason
		}
		err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(updates).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
		})
		return
	}

	// Notify the buyer after the transition is committed; failures are
	// logged inside and never surfaced.
	services.NotifyStatusChange(order, newStatus)

	logger.Info("order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// completeOrder runs the completion path: lock, eligibility gate,
// delivery attempt, then the persistence write plus earnings credit in
// one transaction. Writes the HTTP error response itself and returns
// false when the transition must be aborted.
func completeOrder(c *gin.Context, db *gorm.DB, order *models.Order) bool {
	ctx := c.Request.Context()

	acquired, err := services.GetOrderLocker().Acquire(ctx, order.ID)
	if err != nil {
		config.GetLogger().Error("completion lock unavailable",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOCK_ERROR",
				"message": "Failed to acquire completion lock",
			},
		})
		return false
	}
	if !acquired {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMPLETION_IN_PROGRESS",
				"message": "Another completion attempt is already running for this order",
			},
		})
		return false
	}
	defer services.GetOrderLocker().Release(ctx, order.ID)

	eligibility := services.CheckDeliveryEligibility(order)
	if !eligibility.CanComplete {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_DELIVERY_FAILED",
				"message": eligibility.Message,
			},
			"errors": gin.H{
				"file_delivery": eligibility.Message,
			},
			"issues": eligibility.Issues,
		})
		return false
	}

	if !services.AttemptDelivery(order) {
		message := "فشل إرسال الملف، تحقق من الاتصال وأعد المحاولة"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_DELIVERY_FAILED",
				"message": message,
			},
			"errors": gin.H{
				"file_delivery": message,
			},
		})
		return false
	}

	now := time.Now()
	order.Status = models.OrderStatusCompleted
	order.ConfirmedAt = &now
	order.FileSentAt = &now
	order.CompletedAt = &now

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":       order.Status,
			"confirmed_at": order.ConfirmedAt,
			"file_sent_at": order.FileSentAt,
			"completed_at": order.CompletedAt,
			"admin_notes":  order.AdminNotes,
		}).Error
		if err != nil {
			return err
		}
		return services.CreditDesignerEarnings(tx, order)
	})
	if err != nil {
		config.GetLogger().Error("failed to persist order completion",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to complete order",
			},
		})
		return false
	}

	return true
}
