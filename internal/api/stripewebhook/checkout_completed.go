package stripewebhook

import (
	"errors"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"
)

// handleCheckoutCompleted marks the paid invoice. Two correlation paths exist:
// the invoice id in the session metadata and the payment token. Both may fire
// for the same event; markInvoicePaid is a no-op on an already-paid invoice,
// so the double hit (and any redelivery) changes nothing.
func (h *Handler) handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil
	}

	if session.Metadata != nil {
		if raw := session.Metadata["invoice_id"]; raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				if err := h.markInvoicePaid(uint(id)); err != nil {
					return err
				}
			}
		}

		if token := session.Metadata["payment_token"]; token != "" {
			var inv invoices.Invoice
			err := h.DB.Where("payment_token = ?", token).First(&inv).Error
			if err == nil {
				if err := h.markInvoicePaid(inv.ID); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
	}

	return nil
}

func (h *Handler) markInvoicePaid(invoiceID uint) error {
	var inv invoices.Invoice
	err := h.DB.Where("id = ?", invoiceID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown invoice id in a Stripe event is not retryable
			return nil
		}
		return err
	}
	if inv.Status == invoices.StatusBetaald {
		return nil
	}

	now := time.Now()
	return h.DB.Model(&invoices.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"status":     invoices.StatusBetaald,
			"betaald_op": now,
		}).Error
}
