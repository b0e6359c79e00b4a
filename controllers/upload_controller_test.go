package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
	"github.com/rachmati-dz/rachmati-api/services"
)

func setupProofServices() *services.MockS3Service {
	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	services.InitProofService(mockS3)
	return mockS3
}

func proofUploadRequest(t *testing.T, router http.Handler, orderID, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("proof", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/orders/"+orderID+"/payment-proof", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadPaymentProof(t *testing.T) {
	db := setupOrderTestDB(t)
	config.SetDB(db)
	mockS3 := setupProofServices()

	client := models.Client{Name: "Amina", Email: "amina@example.com"}
	db.Create(&client)
	order := models.Order{Status: models.OrderStatusPending, Amount: 1000, ClientID: client.ID}
	db.Create(&order)

	router := setupTestRouter()
	router.POST("/orders/:id/payment-proof", UploadPaymentProof)

	t.Run("uploads proof and stores the key", func(t *testing.T) {
		w := proofUploadRequest(t, router, "1", "receipt.png", []byte("png bytes"))

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		s3Key := data["payment_proof_s3_key"].(string)
		assert.True(t, mockS3.FileExists(s3Key))

		var updated models.Order
		db.First(&updated, order.ID)
		assert.Equal(t, s3Key, *updated.PaymentProofS3Key)
	})

	t.Run("replacing a proof deletes the old one", func(t *testing.T) {
		var before models.Order
		db.First(&before, order.ID)
		oldKey := *before.PaymentProofS3Key

		w := proofUploadRequest(t, router, "1", "receipt2.jpg", []byte("jpg bytes"))
		assert.Equal(t, http.StatusOK, w.Code)

		assert.False(t, mockS3.FileExists(oldKey))
	})

	t.Run("rejects disallowed format", func(t *testing.T) {
		w := proofUploadRequest(t, router, "1", "receipt.pdf", []byte("pdf bytes"))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])
	})

	t.Run("missing file part", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/orders/1/payment-proof", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order not found", func(t *testing.T) {
		w := proofUploadRequest(t, router, "999", "receipt.png", []byte("png bytes"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects non-pending order", func(t *testing.T) {
		db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderStatusCompleted)

		w := proofUploadRequest(t, router, "1", "receipt.png", []byte("png bytes"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "ORDER_NOT_PENDING", errorData["code"])
	})
}
