package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

// CreditDesignerEarnings credits designers for a freshly completed
// order. Legacy single-pattern orders credit the pattern's designer the
// full order amount; multi-item orders are grouped by designer and each
// designer is credited their own line subtotal. The full sale amount is
// credited, payouts are tracked separately in paid_earnings.
//
// Must only be called on the first transition into completed.
func CreditDesignerEarnings(db *gorm.DB, order *models.Order) error {
	logger := config.GetLogger()

	if order.RachmaID != nil {
		if order.Rachma == nil {
			return fmt.Errorf("order %d references rachma %d but it is not loaded", order.ID, *order.RachmaID)
		}
		if err := creditDesigner(db, order.Rachma.DesignerID, order.Amount); err != nil {
			return err
		}
		logger.Info("designer earnings credited",
			zap.Uint("order_id", order.ID),
			zap.Uint("designer_id", order.Rachma.DesignerID),
			zap.Float64("amount", order.Amount))
		return nil
	}

	// Multi-item order: sum each designer's line prices
	subtotals := make(map[uint]float64)
	for i := range order.Items {
		item := &order.Items[i]
		if item.Rachma == nil {
			continue
		}
		subtotals[item.Rachma.DesignerID] += item.Price
	}

	for designerID, subtotal := range subtotals {
		if err := creditDesigner(db, designerID, subtotal); err != nil {
			return err
		}
		logger.Info("designer earnings credited",
			zap.Uint("order_id", order.ID),
			zap.Uint("designer_id", designerID),
			zap.Float64("amount", subtotal))
	}
	return nil
}

func creditDesigner(db *gorm.DB, designerID uint, amount float64) error {
	result := db.Model(&models.Designer{}).
		Where("id = ?", designerID).
		Update("earnings", gorm.Expr("earnings + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit designer %d: %w", designerID, result.Error)
	}
	return nil
}
