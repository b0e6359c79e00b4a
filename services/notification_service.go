package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

// NotifyStatusChange sends the buyer a bilingual message describing the
// order's new state. Best effort: failures are logged and swallowed,
// they never block or roll back the status transition.
func NotifyStatusChange(order *models.Order, newStatus models.OrderStatus) {
	logger := config.GetLogger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("status notification panicked",
				zap.Uint("order_id", order.ID),
				zap.Any("panic", r))
		}
	}()

	if !order.Client.HasTelegram() {
		return
	}

	message := composeStatusMessage(order, newStatus)
	if message == "" {
		return
	}

	if !GetTelegramService().SendNotification(*order.Client.TelegramChatID, message) {
		logger.Warn("status notification failed",
			zap.Uint("order_id", order.ID),
			zap.Uint("client_id", order.ClientID),
			zap.String("status", string(newStatus)))
	}
}

func composeStatusMessage(order *models.Order, newStatus models.OrderStatus) string {
	var b strings.Builder

	switch newStatus {
	case models.OrderStatusCompleted:
		b.WriteString(fmt.Sprintf("✅ تم إكمال طلبيتك رقم %d وإرسال الملفات\n", order.ID))
		b.WriteString(fmt.Sprintf("Votre commande n°%d est terminée, fichiers envoyés\n", order.ID))
	case models.OrderStatusRejected:
		b.WriteString(fmt.Sprintf("❌ تم رفض طلبيتك رقم %d\n", order.ID))
		b.WriteString(fmt.Sprintf("Votre commande n°%d a été rejetée\n", order.ID))
		if order.RejectionReason != nil && *order.RejectionReason != "" {
			b.WriteString(fmt.Sprintf("السبب / Motif: %s\n", *order.RejectionReason))
		}
	case models.OrderStatusPending:
		b.WriteString(fmt.Sprintf("🔄 طلبيتك رقم %d قيد المعالجة من جديد\n", order.ID))
		b.WriteString(fmt.Sprintf("Votre commande n°%d est de nouveau en traitement\n", order.ID))
	default:
		return ""
	}

	b.WriteString(fmt.Sprintf("المبلغ / Montant: %.2f DZD", order.Amount))

	// Multi-item orders list their patterns by title
	if order.IsMultiItem() {
		b.WriteString("\nالرشمات / Rachmat:")
		for _, rachma := range order.Rachmat() {
			b.WriteString(fmt.Sprintf("\n• %s", rachma.DisplayTitle()))
		}
	}

	return b.String()
}
