package notifications

import (
	"fmt"
	"time"

	"github.com/prasetyodwi/forklift_rental/models"
)

// SendOrderReceivedEmail confirms a freshly placed rental order.
func SendOrderReceivedEmail(customer models.User) {
	SendEmail(customer.FullName, customer.Email,
		"Pemesanan Diterima",
		"<h1>Pemesanan Diterima</h1><p>Pemesanan Anda telah dibuat dan menunggu pembayaran.</p>")
}

// SendRentalOverdueEmail reminds a customer whose rental period has ended
// while the unit is still out.
func SendRentalOverdueEmail(customer models.User, unitName string, endDate time.Time) {
	body := fmt.Sprintf(
		"<p>Halo %s,</p><p>Masa sewa forklift <b>%s</b> telah berakhir pada %s. Mohon hubungi kami untuk pengembalian unit.</p>",
		customer.FullName, unitName, endDate.Format("02 Jan 2006"),
	)
	SendEmail(customer.FullName, customer.Email, "Masa Sewa Forklift Telah Berakhir", body)
}
