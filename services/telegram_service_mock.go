package services

import (
	"sync"

	"github.com/rachmati-dz/rachmati-api/models"
)

// SentNotification records one notification sent through the mock
type SentNotification struct {
	ChatID string
	Text   string
}

// MockTelegramService is a scriptable TelegramInterface for testing
type MockTelegramService struct {
	// FailDelivery makes SendRachmaFileWithRetry return false
	FailDelivery bool
	// FailNotifications makes SendNotification return false
	FailNotifications bool

	deliveredOrders []uint
	notifications   []SentNotification
	mu              sync.Mutex
}

// NewMockTelegramService creates a new mock Telegram service
func NewMockTelegramService() *MockTelegramService {
	return &MockTelegramService{}
}

// SetAsMockForTesting sets this mock as the global Telegram instance for testing
func (m *MockTelegramService) SetAsMockForTesting() {
	SetTelegramService(m)
}

// SendRachmaFileWithRetry records the delivery attempt
func (m *MockTelegramService) SendRachmaFileWithRetry(order *models.Order) bool {
	if m.FailDelivery {
		return false
	}
	m.mu.Lock()
	m.deliveredOrders = append(m.deliveredOrders, order.ID)
	m.mu.Unlock()
	return true
}

// SendNotification records the notification
func (m *MockTelegramService) SendNotification(chatID, text string) bool {
	if m.FailNotifications {
		return false
	}
	m.mu.Lock()
	m.notifications = append(m.notifications, SentNotification{ChatID: chatID, Text: text})
	m.mu.Unlock()
	return true
}

// DeliveredOrders returns the ids of orders delivered through the mock
func (m *MockTelegramService) DeliveredOrders() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint, len(m.deliveredOrders))
	copy(out, m.deliveredOrders)
	return out
}

// Notifications returns the notifications sent through the mock
func (m *MockTelegramService) Notifications() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentNotification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Clear resets recorded deliveries and notifications
func (m *MockTelegramService) Clear() {
	m.mu.Lock()
	m.deliveredOrders = nil
	m.notifications = nil
	m.mu.Unlock()
}
