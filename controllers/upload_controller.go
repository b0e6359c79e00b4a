package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
	"github.com/rachmati-dz/rachmati-api/services"
	"github.com/rachmati-dz/rachmati-api/utils"
)

// UploadPaymentProof handles POST /api/v1/orders/:id/payment-proof -
// attaches a payment-proof image to a pending order
func UploadPaymentProof(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
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

	// Proofs are only reviewable while the order is pending
	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_PENDING",
				"message": "Payment proof can only be attached to a pending order",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "proof file is required",
			},
		})
		return
	}

	s3Key, err := services.GetProofService().UploadProof(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store payment proof",
			},
		})
		return
	}

	// Replace a previously uploaded proof
	oldKey := order.PaymentProofS3Key
	order.PaymentProofS3Key = &s3Key
	if err := db.Model(&order).Update("payment_proof_s3_key", s3Key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}
	if oldKey != nil && *oldKey != s3Key {
		// Best effort, the new proof is already in place
		_ = services.GetProofService().DeleteProof(*oldKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":             order.ID,
			"payment_proof_s3_key": s3Key,
		},
	})
}
