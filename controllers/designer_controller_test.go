package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rachmati-dz/rachmati-api/config"
	"github.com/rachmati-dz/rachmati-api/models"
)

func TestListDesigners(t *testing.T) {
	db := setupOrderTestDB(t)
	config.SetDB(db)

	db.Create(&models.Designer{StoreName: "Atelier Zohra", Email: "zohra@example.com", Earnings: 3000})
	db.Create(&models.Designer{StoreName: "Atelier Amel", Email: "amel@example.com", Earnings: 1200})

	router := setupTestRouter()
	router.GET("/designers", ListDesigners)

	req, _ := http.NewRequest(http.MethodGet, "/designers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	// Sorted by store name
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Atelier Amel", first["store_name"])
}

func TestGetDesignerEarnings(t *testing.T) {
	db := setupOrderTestDB(t)
	config.SetDB(db)

	designer := models.Designer{StoreName: "Atelier Zohra", Email: "zohra@example.com", Earnings: 3000, PaidEarnings: 1000}
	db.Create(&designer)

	client := models.Client{Name: "Amina", Email: "amina@example.com"}
	db.Create(&client)

	rachma := models.Rachma{TitleAr: "وردة", DesignerID: designer.ID}
	db.Create(&rachma)

	// One completed legacy order and one completed multi-item order
	legacy := models.Order{Status: models.OrderStatusCompleted, Amount: 1500, ClientID: client.ID, RachmaID: &rachma.ID}
	db.Create(&legacy)

	multi := models.Order{Status: models.OrderStatusCompleted, Amount: 1500, ClientID: client.ID}
	db.Create(&multi)
	db.Create(&models.OrderItem{OrderID: multi.ID, RachmaID: rachma.ID, Price: 1500})

	// A pending order must not count as a sale
	pending := models.Order{Status: models.OrderStatusPending, Amount: 500, ClientID: client.ID, RachmaID: &rachma.ID}
	db.Create(&pending)

	router := setupTestRouter()
	router.GET("/designers/:id/earnings", GetDesignerEarnings)

	t.Run("returns earnings summary", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/designers/1/earnings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(3000), data["earnings"])
		assert.Equal(t, float64(1000), data["paid_earnings"])
		assert.Equal(t, float64(2000), data["unpaid_earnings"])
		assert.Equal(t, float64(2), data["completed_sales"])
	})

	t.Run("designer not found", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/designers/999/earnings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
