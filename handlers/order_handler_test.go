package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createOrderPayload(unitID string) map[string]any {
	return map[string]any{
		"unit_id":           unitID,
		"start_date":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"end_date":          time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"delivery_location": "Kawasan Industri Pulogadung",
		"company_name":      "PT Maju Jaya",
	}
}

func TestCreateOrderReservesUnit(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitAvailable)

	resp, body := env.doJSON(t, "POST", "/api/v1/orders", env.userToken, createOrderPayload(unit.ID.String()))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, string(models.OrderAwaitingPayment), data["status"])

	var reloaded models.Unit
	require.NoError(t, env.db.First(&reloaded, "id = ?", unit.ID).Error)
	assert.Equal(t, models.UnitRented, reloaded.Status)

	var order models.Order
	require.NoError(t, env.db.First(&order, "id = ?", data["id"]).Error)
	assert.Equal(t, env.customer.ID, order.CustomerID)
	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "pemesanan_dibuat"))
}

func TestCreateOrderRejectsRentedUnit(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)

	resp, body := env.doJSON(t, "POST", "/api/v1/orders", env.userToken, createOrderPayload(unit.ID.String()))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["status"])
}

func TestCreateOrderRejectsInvertedDates(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitAvailable)

	payload := createOrderPayload(unit.ID.String())
	payload["start_date"] = time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	payload["end_date"] = time.Now().Add(24 * time.Hour).Format(time.RFC3339)

	resp, _ := env.doJSON(t, "POST", "/api/v1/orders", env.userToken, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The failed order must not have reserved the unit.
	var reloaded models.Unit
	require.NoError(t, env.db.First(&reloaded, "id = ?", unit.ID).Error)
	assert.Equal(t, models.UnitAvailable, reloaded.Status)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)

	resp, body := env.doJSON(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/status", env.adminToken,
		map[string]any{"status": "diproses"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Status tidak valid", body["message"])

	var reloaded models.Order
	require.NoError(t, env.db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingPayment, reloaded.Status)
}

func TestUpdateOrderStatusRejectsIllegalTransition(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)

	resp, _ := env.doJSON(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/status", env.adminToken,
		map[string]any{"status": string(models.OrderDispatched)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var reloaded models.Order
	require.NoError(t, env.db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingPayment, reloaded.Status)
}

func TestUpdateOrderStatusForbiddenForCustomers(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingConfirmation)

	resp, _ := env.doJSON(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/status", env.userToken,
		map[string]any{"status": string(models.OrderDispatched)})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompletingOrderReleasesUnit(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderDispatched)

	resp, body := env.doJSON(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/status", env.adminToken,
		map[string]any{"status": string(models.OrderCompleted)})
	require.Equal(t, http.StatusOK, resp.StatusCode, body["message"])

	var reloadedOrder models.Order
	require.NoError(t, env.db.First(&reloadedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderCompleted, reloadedOrder.Status)

	var reloadedUnit models.Unit
	require.NoError(t, env.db.First(&reloadedUnit, "id = ?", unit.ID).Error)
	assert.Equal(t, models.UnitAvailable, reloadedUnit.Status)

	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "status_selesai"))
}

func TestRepeatedCompletionChangesNothing(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderDispatched)

	for i := 0; i < 2; i++ {
		resp, body := env.doJSON(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/status", env.adminToken,
			map[string]any{"status": string(models.OrderCompleted)})
		require.Equal(t, http.StatusOK, resp.StatusCode, body["message"])
	}

	// The re-delivered completion must not append a second audit row.
	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "status_selesai"))
}

func TestGetOrderOwnership(t *testing.T) {
	env := setupTestEnv(t)
	other := seedUser(t, env.db, "tetangga", "user")
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, other.ID, unit, models.OrderAwaitingPayment)

	resp, _ := env.doJSON(t, "GET", "/api/v1/orders/"+order.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins see every order.
	resp, _ = env.doJSON(t, "GET", "/api/v1/orders/"+order.ID.String(), env.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCancelOrderFreesUnitAndKeepsAuditTrail(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)

	resp, body := env.doJSON(t, "DELETE", "/api/v1/orders/"+order.ID.String(), env.userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["message"])

	err := env.db.First(&models.Order{}, "id = ?", order.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var reloadedUnit models.Unit
	require.NoError(t, env.db.First(&reloadedUnit, "id = ?", unit.ID).Error)
	assert.Equal(t, models.UnitAvailable, reloadedUnit.Status)

	// The log has no FK to orders, so the trail survives the delete.
	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "pemesanan_dibatalkan"))
}

func TestCancelOrderRefusedOncePaid(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingConfirmation)

	resp, _ := env.doJSON(t, "DELETE", "/api/v1/orders/"+order.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var reloaded models.Order
	require.NoError(t, env.db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingConfirmation, reloaded.Status)
}

func TestCancelOtherCustomersOrderForbidden(t *testing.T) {
	env := setupTestEnv(t)
	other := seedUser(t, env.db, "tetangga", "user")
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, other.ID, unit, models.OrderAwaitingPayment)

	resp, _ := env.doJSON(t, "DELETE", "/api/v1/orders/"+order.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
