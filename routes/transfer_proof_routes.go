package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasetyodwi/forklift_rental/handlers"
	"github.com/prasetyodwi/forklift_rental/middleware"
)

func TransferProofRoutes(app *fiber.App, h *handlers.TransferProofHandler) {
	api := app.Group("/api/v1")

	proofs := api.Group("/transfer-proofs", middleware.Protected())
	proofs.Post("", middleware.UserRequired(), h.UploadProof)
	proofs.Get("/:proofId", h.GetProof)
	proofs.Put("/:proofId/verification", middleware.AdminRequired(), h.VerifyProof)
	proofs.Delete("/:proofId", h.DeleteProof)

	api.Get("/payments/:paymentId/transfer-proofs", middleware.Protected(), h.ListPaymentProofs)
}
