package jobs

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)
	return db
}

func seedGatewayPayment(t *testing.T, db *gorm.DB, ref string, status models.PaymentStatus, age time.Duration) models.Payment {
	t.Helper()
	payment := models.Payment{
		OrderID:        uuid.New(),
		Amount:         450000,
		Method:         "midtrans",
		PaymentDate:    time.Now().Add(-age),
		GatewayOrderID: &ref,
		Status:         status,
		CreatedAt:      time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func TestExpireStalePayments(t *testing.T) {
	db := testDB(t)

	stale := seedGatewayPayment(t, db, "ORDER-STALE001", models.PaymentPending, 48*time.Hour)
	fresh := seedGatewayPayment(t, db, "ORDER-FRESH001", models.PaymentPending, time.Hour)
	settled := seedGatewayPayment(t, db, "ORDER-DONE0001", models.PaymentSuccess, 48*time.Hour)

	manual := models.Payment{
		OrderID:     uuid.New(),
		Amount:      450000,
		Method:      "transfer",
		PaymentDate: time.Now().Add(-48 * time.Hour),
		Status:      models.PaymentPending,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(&manual).Error)

	ExpireStalePayments(db)

	reload := func(id uuid.UUID) models.PaymentStatus {
		var p models.Payment
		require.NoError(t, db.First(&p, "id = ?", id).Error)
		return p.Status
	}

	assert.Equal(t, models.PaymentFailed, reload(stale.ID))
	assert.Equal(t, models.PaymentPending, reload(fresh.ID))
	assert.Equal(t, models.PaymentSuccess, reload(settled.ID))
	// Manual transfers wait for staff verification, not the gateway clock.
	assert.Equal(t, models.PaymentPending, reload(manual.ID))

	var n int64
	require.NoError(t, db.Model(&models.TransactionLog{}).
		Where("order_id = ? AND event = ?", stale.OrderID, "pembayaran_kedaluwarsa").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
