package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/prasetyodwi/forklift_rental/configs"
	"github.com/prasetyodwi/forklift_rental/models"
	"gorm.io/gorm"
)

// GenerateRentalInvoice renders the invoice template to PDF and uploads it.
// Runs async after an order completes; failures are logged, never surfaced
// to the completing request.
func GenerateRentalInvoice(db *gorm.DB, orderID uuid.UUID) {
	var order models.Order
	if err := db.Preload("Customer").Preload("Unit").First(&order, "id = ?", orderID).Error; err != nil {
		log.Printf("🔥 Invoice: order %s not found: %v", orderID, err)
		return
	}

	var paidTotal float64
	db.Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", order.ID, models.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&paidTotal)

	htmlData, err := renderInvoiceHTML(order, paidTotal)
	if err != nil {
		log.Printf("🔥 Invoice: failed to render HTML for order %s: %v", orderID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Invoice: failed to generate PDF for order %s: %v", orderID, err)
		return
	}

	uploadURL, err := uploadInvoice(pdfBytes, order.ID.String())
	if err != nil {
		log.Printf("🔥 Invoice: failed to upload PDF for order %s: %v", orderID, err)
		return
	}

	RecordTransactionLog(db, order.ID, "invoice", fmt.Sprintf("Invoice sewa diterbitkan: %s", uploadURL))
	log.Printf("✅ Invoice generated for order %s", order.ID)
}

func renderInvoiceHTML(order models.Order, paidTotal float64) (string, error) {
	tmpl, err := template.ParseFiles("templates/invoice.html")
	if err != nil {
		return "", err
	}

	data := struct {
		OrderID          string
		CustomerName     string
		CompanyName      string
		UnitName         string
		Capacity         string
		DeliveryLocation string
		StartDate        string
		EndDate          string
		PaidTotal        float64
		IssuedAt         string
	}{
		OrderID:          order.ID.String(),
		CustomerName:     order.Customer.FullName,
		CompanyName:      order.CompanyName,
		UnitName:         order.Unit.Name,
		Capacity:         order.Unit.Capacity,
		DeliveryLocation: order.DeliveryLocation,
		StartDate:        order.StartDate.Format("2 January 2006 15:04"),
		EndDate:          order.EndDate.Format("2 January 2006 15:04"),
		PaidTotal:        paidTotal,
		IssuedAt:         time.Now().Format("2 January 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadInvoice(fileBytes []byte, orderID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     fmt.Sprintf("invoices/%s_%s", orderID, uuid.New().String()),
		Folder:       "forklift_rental_invoices",
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
