package stripepay

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/money"
)

// Client creates hosted Stripe checkout sessions. Everything that talks to
// Stripe outside the webhook lives here so handlers and tests can swap it out.
type Client struct {
	appURL string
}

func New(secretKey, appURL string) *Client {
	stripe.Key = secretKey
	return &Client{appURL: appURL}
}

// CreateIdealPaymentLink opens a one-off iDEAL/card checkout for an invoice
// and returns its hosted URL. The invoice id and payment token ride along as
// session metadata so the webhook can correlate the payment back to the row.
func (cl *Client) CreateIdealPaymentLink(ctx context.Context, bedrag money.Cents, omschrijving string, invoiceID uint, paymentToken string, klantEmail string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"ideal", "card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(omschrijving),
						Description: stripe.String("Factuur van VakmanApp"),
					},
					UnitAmount: stripe.Int64(int64(bedrag)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/betaald?token=%s&session_id={CHECKOUT_SESSION_ID}", cl.appURL, paymentToken)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/betaling-geannuleerd?token=%s", cl.appURL, paymentToken)),
		Locale:     stripe.String("nl"),
	}
	params.Context = ctx
	params.AddMetadata("invoice_id", fmt.Sprint(invoiceID))
	params.AddMetadata("payment_token", paymentToken)
	if klantEmail != "" {
		params.CustomerEmail = stripe.String(klantEmail)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// CreateSubscriptionCheckout opens a subscription-mode checkout for a plan
// upgrade. The company id is attached to the subscription metadata because
// that is what the subscription webhook events carry.
func (cl *Client) CreateSubscriptionCheckout(ctx context.Context, priceID string, companyID uint, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"ideal", "card", "sepa_debit"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(cl.appURL + "/dashboard?upgrade=success"),
		CancelURL:         stripe.String(cl.appURL + "/prijzen"),
		Locale:            stripe.String("nl"),
		ClientReferenceID: stripe.String(fmt.Sprint(companyID)),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"company_id": fmt.Sprint(companyID),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("company_id", fmt.Sprint(companyID))
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
