package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/database"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/prasetyodwi/forklift_rental/payments"
	"github.com/prasetyodwi/forklift_rental/routes"
	"github.com/prasetyodwi/forklift_rental/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	admin      models.User
	customer   models.User
	adminToken string
	userToken  string
}

// setupTestEnv builds a full application against an isolated in-memory
// database, with one seeded admin and one seeded customer.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("MIDTRANS_SERVER_KEY", "")
	t.Setenv("PROOF_UPLOAD_DIR", t.TempDir())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)

	env := &testEnv{
		app:      fiber.New(),
		db:       db,
		admin:    seedUser(t, db, "admin", "admin"),
		customer: seedUser(t, db, "budi", "user"),
	}
	env.adminToken = tokenFor(t, env.admin)
	env.userToken = tokenFor(t, env.customer)

	hub := websocket.NewHub()
	midtransService := payments.NewMidtransService()

	routes.AuthRoutes(env.app, handlers.NewAuthHandler(db))
	routes.ProfileRoutes(env.app, handlers.NewProfileHandler(db))
	routes.UnitRoutes(env.app, handlers.NewUnitHandler(db))
	routes.OperatorRoutes(env.app, handlers.NewOperatorHandler(db))
	orderHandler := handlers.NewOrderHandler(db, hub)
	paymentHandler := handlers.NewPaymentHandler(db, hub, midtransService)
	logHandler := handlers.NewTransactionLogHandler(db)
	routes.OrderRoutes(env.app, orderHandler, logHandler, paymentHandler)
	routes.PaymentRoutes(env.app, paymentHandler)
	routes.TransferProofRoutes(env.app, handlers.NewTransferProofHandler(db, hub))
	routes.FeedbackRoutes(env.app, handlers.NewFeedbackHandler(db))
	routes.AdminRoutes(env.app, handlers.NewAdminHandler(db), orderHandler, paymentHandler, logHandler)

	return env
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Username: username,
		FullName: "Test " + username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) seedUnit(t *testing.T, status models.UnitStatus) models.Unit {
	t.Helper()
	unit := models.Unit{
		Name:       "Toyota 8FD30",
		Capacity:   "3",
		HourlyRate: 150000,
		Status:     status,
	}
	require.NoError(t, e.db.Create(&unit).Error)
	return unit
}

func (e *testEnv) seedOrder(t *testing.T, customerID uuid.UUID, unit models.Unit, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		CustomerID:       customerID,
		UnitID:           unit.ID,
		StartDate:        time.Now().Add(24 * time.Hour),
		EndDate:          time.Now().Add(72 * time.Hour),
		DeliveryLocation: "Kawasan Industri Pulogadung",
		CompanyName:      "PT Maju Jaya",
		Status:           status,
	}
	require.NoError(t, e.db.Create(&order).Error)
	return order
}

func (e *testEnv) seedPayment(t *testing.T, orderID uuid.UUID, gatewayRef *string, status models.PaymentStatus) models.Payment {
	t.Helper()
	method := "transfer"
	if gatewayRef != nil {
		method = "midtrans"
	}
	payment := models.Payment{
		OrderID:        orderID,
		Amount:         450000,
		Method:         method,
		PaymentDate:    time.Now(),
		GatewayOrderID: gatewayRef,
		Status:         status,
	}
	require.NoError(t, e.db.Create(&payment).Error)
	return payment
}

// doJSON performs a request and decodes the envelope.
func (e *testEnv) doJSON(t *testing.T, method, target, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	return envelope
}

func (e *testEnv) countLogs(t *testing.T, orderID uuid.UUID, event string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.TransactionLog{}).
		Where("order_id = ? AND event = ?", orderID, event).Count(&n).Error)
	return n
}
