package handlers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/prasetyodwi/forklift_rental/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedProof(t *testing.T, paymentID uuid.UUID, status models.VerificationStatus) models.TransferProof {
	t.Helper()
	name := "proof.png"
	proof := models.TransferProof{
		PaymentID:  paymentID,
		ProofImage: &name,
		Status:     status,
	}
	require.NoError(t, e.db.Create(&proof).Error)
	return proof
}

func (e *testEnv) uploadProof(t *testing.T, token, paymentID, field, filename, contentType string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("payment_id", paymentID))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("bukti-transfer-palsu"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/transfer-proofs", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func TestUploadProofAdvancesOrder(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	resp, body := env.uploadProof(t, env.userToken, payment.ID.String(), "gambar_bukti", "bukti.png", "image/png")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, string(models.VerificationPending), data["status"])

	var reloadedOrder models.Order
	require.NoError(t, env.db.First(&reloadedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingConfirmation, reloadedOrder.Status)

	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "bukti_transfer_diunggah"))
}

func TestUploadProofRejectsUnsupportedType(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	resp, _ := env.uploadProof(t, env.userToken, payment.ID.String(), "file_bukti", "bukti.exe", "application/octet-stream")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var reloadedOrder models.Order
	require.NoError(t, env.db.First(&reloadedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingPayment, reloadedOrder.Status)
}

func TestUploadProofRequiresAFile(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("payment_id", payment.ID.String()))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/transfer-proofs", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.userToken)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadProofCleansUpFilesWhenStoringFails(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	// Break the proof table so the transaction fails after the file hits disk.
	require.NoError(t, env.db.Migrator().DropTable(&models.TransferProof{}))

	resp, _ := env.uploadProof(t, env.userToken, payment.ID.String(), "gambar_bukti", "bukti.png", "image/png")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	entries, err := os.ReadDir(os.Getenv("PROOF_UPLOAD_DIR"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadProofForOthersPaymentForbidden(t *testing.T) {
	env := setupTestEnv(t)
	other := seedUser(t, env.db, "tetangga", "user")
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, other.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	resp, _ := env.uploadProof(t, env.userToken, payment.ID.String(), "gambar_bukti", "bukti.png", "image/png")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestVerifyProofAcceptAdvancesOrder(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)
	proof := env.seedProof(t, payment.ID, models.VerificationPending)

	resp, body := env.doJSON(t, "PUT", "/api/v1/transfer-proofs/"+proof.ID.String()+"/verification", env.adminToken,
		map[string]any{"status": "diterima", "note": "Nominal sesuai"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body["message"])

	var reloadedProof models.TransferProof
	require.NoError(t, env.db.First(&reloadedProof, "id = ?", proof.ID).Error)
	assert.Equal(t, models.VerificationAccepted, reloadedProof.Status)

	var reloadedOrder models.Order
	require.NoError(t, env.db.First(&reloadedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingConfirmation, reloadedOrder.Status)

	assert.EqualValues(t, 1, env.countLogs(t, order.ID, "verifikasi_diterima"))
}

func TestVerifyProofRejectSendsOrderBack(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingConfirmation)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)
	proof := env.seedProof(t, payment.ID, models.VerificationPending)

	resp, _ := env.doJSON(t, "PUT", "/api/v1/transfer-proofs/"+proof.ID.String()+"/verification", env.adminToken,
		map[string]any{"status": "ditolak", "note": "Bukti tidak terbaca"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloadedProof models.TransferProof
	require.NoError(t, env.db.First(&reloadedProof, "id = ?", proof.ID).Error)
	assert.Equal(t, models.VerificationRejected, reloadedProof.Status)

	// The customer has to pay again.
	var reloadedOrder models.Order
	require.NoError(t, env.db.First(&reloadedOrder, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderAwaitingPayment, reloadedOrder.Status)
}

func TestVerifyProofRejectsPendingAsDecision(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)
	proof := env.seedProof(t, payment.ID, models.VerificationPending)

	resp, body := env.doJSON(t, "PUT", "/api/v1/transfer-proofs/"+proof.ID.String()+"/verification", env.adminToken,
		map[string]any{"status": "menunggu"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Status verifikasi tidak valid", body["message"])
}

func TestVerifyProofForbiddenForCustomers(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingPayment)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)
	proof := env.seedProof(t, payment.ID, models.VerificationPending)

	resp, _ := env.doJSON(t, "PUT", "/api/v1/transfer-proofs/"+proof.ID.String()+"/verification", env.userToken,
		map[string]any{"status": "diterima"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeleteProofOnlyWhenPending(t *testing.T) {
	env := setupTestEnv(t)
	unit := env.seedUnit(t, models.UnitRented)
	order := env.seedOrder(t, env.customer.ID, unit, models.OrderAwaitingConfirmation)
	payment := env.seedPayment(t, order.ID, nil, models.PaymentPending)

	verified := env.seedProof(t, payment.ID, models.VerificationAccepted)
	resp, _ := env.doJSON(t, "DELETE", "/api/v1/transfer-proofs/"+verified.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	pending := env.seedProof(t, payment.ID, models.VerificationPending)
	resp, _ = env.doJSON(t, "DELETE", "/api/v1/transfer-proofs/"+pending.ID.String(), env.userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var n int64
	require.NoError(t, env.db.Model(&models.TransferProof{}).Where("id = ?", pending.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
