package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rachmati-dz/rachmati-api/models"
)

func setupEarningsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Designer{},
		&models.Rachma{},
		&models.RachmaFile{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreditDesignerEarnings_LegacySingleOrder(t *testing.T) {
	db := setupEarningsTestDB(t)

	designer := models.Designer{StoreName: "Atelier Fatima", Email: "fatima@example.com", Earnings: 500}
	db.Create(&designer)

	rachma := models.Rachma{TitleAr: "وردة", DesignerID: designer.ID}
	db.Create(&rachma)

	order := &models.Order{
		Amount:   2000,
		RachmaID: &rachma.ID,
		Rachma:   &rachma,
	}

	err := CreditDesignerEarnings(db, order)
	assert.NoError(t, err)

	var updated models.Designer
	db.First(&updated, designer.ID)
	assert.Equal(t, 2500.0, updated.Earnings)
}

func TestCreditDesignerEarnings_MultiItemSplitByDesigner(t *testing.T) {
	db := setupEarningsTestDB(t)

	designerA := models.Designer{StoreName: "Atelier A", Email: "a@example.com"}
	designerB := models.Designer{StoreName: "Atelier B", Email: "b@example.com"}
	db.Create(&designerA)
	db.Create(&designerB)

	rachmaA := models.Rachma{TitleAr: "رشمة أ", DesignerID: designerA.ID}
	rachmaB := models.Rachma{TitleAr: "رشمة ب", DesignerID: designerB.ID}
	db.Create(&rachmaA)
	db.Create(&rachmaB)

	order := &models.Order{
		Amount: 2500,
		Items: []models.OrderItem{
			{RachmaID: rachmaA.ID, Price: 1000, Rachma: &rachmaA},
			{RachmaID: rachmaB.ID, Price: 1500, Rachma: &rachmaB},
		},
	}

	err := CreditDesignerEarnings(db, order)
	assert.NoError(t, err)

	// Each designer gets exactly their own line subtotal, not a split of the total
	var updatedA, updatedB models.Designer
	db.First(&updatedA, designerA.ID)
	db.First(&updatedB, designerB.ID)
	assert.Equal(t, 1000.0, updatedA.Earnings)
	assert.Equal(t, 1500.0, updatedB.Earnings)
}

func TestCreditDesignerEarnings_MultipleItemsSameDesigner(t *testing.T) {
	db := setupEarningsTestDB(t)

	designer := models.Designer{StoreName: "Atelier C", Email: "c@example.com"}
	db.Create(&designer)

	rachma1 := models.Rachma{TitleAr: "رشمة 1", DesignerID: designer.ID}
	rachma2 := models.Rachma{TitleAr: "رشمة 2", DesignerID: designer.ID}
	db.Create(&rachma1)
	db.Create(&rachma2)

	order := &models.Order{
		Amount: 1800,
		Items: []models.OrderItem{
			{RachmaID: rachma1.ID, Price: 800, Rachma: &rachma1},
			{RachmaID: rachma2.ID, Price: 1000, Rachma: &rachma2},
		},
	}

	err := CreditDesignerEarnings(db, order)
	assert.NoError(t, err)

	var updated models.Designer
	db.First(&updated, designer.ID)
	assert.Equal(t, 1800.0, updated.Earnings)
}

func TestCreditDesignerEarnings_SkipsDanglingItems(t *testing.T) {
	db := setupEarningsTestDB(t)

	designer := models.Designer{StoreName: "Atelier D", Email: "d@example.com"}
	db.Create(&designer)

	rachma := models.Rachma{TitleAr: "رشمة", DesignerID: designer.ID}
	db.Create(&rachma)

	order := &models.Order{
		Amount: 1500,
		Items: []models.OrderItem{
			{RachmaID: rachma.ID, Price: 1000, Rachma: &rachma},
			{RachmaID: 999, Price: 500, Rachma: nil}, // pattern deleted
		},
	}

	err := CreditDesignerEarnings(db, order)
	assert.NoError(t, err)

	var updated models.Designer
	db.First(&updated, designer.ID)
	assert.Equal(t, 1000.0, updated.Earnings)
}
