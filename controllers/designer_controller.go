package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

// ListDesigners handles GET /api/v1/admin/designers - lists designers
// with their earnings balances
func ListDesigners(c *gin.Context) {
	db := config.GetDB()

	var designers []models.Designer
	if err := db.Order("store_name ASC").Find(&designers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list designers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    designers,
	})
}

// GetDesignerEarnings handles GET /api/v1/admin/designers/:id/earnings -
// returns a designer's earnings summary along with their completed sales
func GetDesignerEarnings(c *gin.Context) {
	db := config.GetDB()

	var designer models.Designer
	if err := db.First(&designer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DESIGNER_NOT_FOUND",
					"message": "Designer not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load designer",
			},
		})
		return
	}

	// Completed sales: legacy orders referencing the designer's patterns
	// directly, plus line items from multi-item orders
	var completedSales int64
	err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN rachmat ON rachmat.id = order_items.rachma_id").
		Where("orders.status = ? AND rachmat.designer_id = ?", models.OrderStatusCompleted, designer.ID).
		Count(&completedSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute sales",
			},
		})
		return
	}

	var legacySales int64
	err = db.Model(&models.Order{}).
		Joins("JOIN rachmat ON rachmat.id = orders.rachma_id").
		Where("orders.status = ? AND rachmat.designer_id = ?", models.OrderStatusCompleted, designer.ID).
		Count(&legacySales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute sales",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"designer":        designer,
			"earnings":        designer.Earnings,
			"paid_earnings":   designer.PaidEarnings,
			"unpaid_earnings": designer.UnpaidEarnings(),
			"completed_sales": completedSales + legacySales,
		},
	})
}
