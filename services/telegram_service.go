package services

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

// TelegramInterface defines the notification gateway operations used by
// the order pipeline
type TelegramInterface interface {
	// SendRachmaFileWithRetry pushes the order's pattern files to the
	// buyer's Telegram chat, bundling multi-file orders into a zip.
	// Returns false on any failure; never panics outward.
	SendRachmaFileWithRetry(order *models.Order) bool

	// SendNotification sends a plain text message to a chat
	SendNotification(chatID, text string) bool
}

// TelegramService talks to the Telegram Bot API over HTTP
type TelegramService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

var telegramInstance TelegramInterface

// InitTelegramService initializes the Telegram service from configuration
func InitTelegramService(cfg *config.Config) TelegramInterface {
	telegramInstance = &TelegramService{
		baseURL: cfg.TelegramAPIBaseURL,
		token:   cfg.TelegramBotToken,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // document uploads can be slow
		},
		attempts: 3,
		backoff:  2 * time.Second,
	}
	return telegramInstance
}

// GetTelegramService returns the initialized Telegram service instance
func GetTelegramService() TelegramInterface {
	return telegramInstance
}

// SetTelegramService sets the Telegram service instance (primarily for testing)
func SetTelegramService(s TelegramInterface) {
	telegramInstance = s
}

func (s *TelegramService) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.token, method)
}

// apiResponse is the envelope every Bot API call returns
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendNotification sends a plain text message to a chat
func (s *TelegramService) SendNotification(chatID, text string) bool {
	payload, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return false
	}

	resp, err := s.httpClient.Post(s.methodURL("sendMessage"), "application/json", bytes.NewReader(payload))
	if err != nil {
		config.GetLogger().Warn("telegram sendMessage failed",
			zap.String("chat_id", chatID),
			zap.Error(err))
		return false
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			config.GetLogger().Warn("failed to close telegram response body", zap.Error(closeErr))
		}
	}()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return false
	}
	if !apiResp.OK {
		config.GetLogger().Warn("telegram sendMessage rejected",
			zap.String("chat_id", chatID),
			zap.String("description", apiResp.Description))
	}
	return apiResp.OK
}

// SendRachmaFileWithRetry pushes the order's pattern files to the buyer.
// A single file is sent as-is; multiple files are bundled into one zip
// archive first. The upload is retried with a fixed backoff.
func (s *TelegramService) SendRachmaFileWithRetry(order *models.Order) bool {
	if order.Client.TelegramChatID == nil || *order.Client.TelegramChatID == "" {
		return false
	}
	chatID := *order.Client.TelegramChatID

	filename, content, err := buildDeliveryPayload(order)
	if err != nil {
		config.GetLogger().Error("failed to build delivery payload",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return false
	}

	caption := deliveryCaption(order)

	for attempt := 1; attempt <= s.attempts; attempt++ {
		if s.sendDocument(chatID, filename, caption, content) {
			return true
		}
		if attempt < s.attempts {
			time.Sleep(s.backoff)
		}
	}

	config.GetLogger().Warn("telegram file delivery exhausted retries",
		zap.Uint("order_id", order.ID),
		zap.String("chat_id", chatID),
		zap.Int("attempts", s.attempts))
	return false
}

// sendDocument uploads one document via multipart form data
func (s *TelegramService) sendDocument(chatID, filename, caption string, content []byte) bool {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", chatID); err != nil {
		return false
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return false
		}
	}
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return false
	}
	if _, err := part.Write(content); err != nil {
		return false
	}
	if err := writer.Close(); err != nil {
		return false
	}

	resp, err := s.httpClient.Post(s.methodURL("sendDocument"), writer.FormDataContentType(), &body)
	if err != nil {
		config.GetLogger().Warn("telegram sendDocument failed",
			zap.String("chat_id", chatID),
			zap.Error(err))
		return false
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			config.GetLogger().Warn("failed to close telegram response body", zap.Error(closeErr))
		}
	}()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return false
	}
	return apiResp.OK
}

// buildDeliveryPayload collects the order's files from storage. One file
// is delivered raw; several are zipped into a single archive.
func buildDeliveryPayload(order *models.Order) (string, []byte, error) {
	storage := GetStorage()

	type deliverable struct {
		name    string
		content []byte
	}
	var files []deliverable

	for _, rachma := range order.Rachmat() {
		for _, f := range rachma.Files {
			reader, err := storage.Open(f.Path)
			if err != nil {
				return "", nil, err
			}
			content, err := io.ReadAll(reader)
			if closeErr := reader.Close(); closeErr != nil {
				config.GetLogger().Warn("failed to close storage reader", zap.Error(closeErr))
			}
			if err != nil {
				return "", nil, err
			}
			files = append(files, deliverable{name: f.OriginalName, content: content})
		}
	}

	if len(files) == 0 {
		return "", nil, fmt.Errorf("order %d has no deliverable files", order.ID)
	}

	if len(files) == 1 {
		return files[0].name, files[0].content, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return "", nil, err
		}
		if _, err := w.Write(f.content); err != nil {
			return "", nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("order_%d_rachmat.zip", order.ID), buf.Bytes(), nil
}

// deliveryCaption labels the document with the order and its patterns
func deliveryCaption(order *models.Order) string {
	rachmat := order.Rachmat()
	if len(rachmat) == 1 {
		return fmt.Sprintf("طلبية #%d — %s", order.ID, rachmat[0].DisplayTitle())
	}
	return fmt.Sprintf("طلبية #%d — %d رشمات", order.ID, len(rachmat))
}
