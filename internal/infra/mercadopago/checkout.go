package mercadopago

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/barbershop-api/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-api/internal/models"
)

const ProviderName = "mercadopago"

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// Gateway opens Mercado Pago checkout preferences for payments.
type Gateway struct {
	client preferenceCreator
}

func NewGateway(accessToken string) (*Gateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &Gateway{client: preference.NewClient(cfg)}, nil
}

func (g *Gateway) CreateCheckout(
	ctx context.Context,
	p *models.Payment,
	title string,
) (*payment.Checkout, error) {

	price, _ := p.Amount.Float64()

	res, err := g.client.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         strconv.FormatUint(uint64(p.AppointmentID), 10),
				Title:      title,
				Quantity:   1,
				UnitPrice:  price,
				CurrencyID: p.Currency,
			},
		},
		ExternalReference: ExternalReference(p.ID),
	})
	if err != nil {
		return nil, err
	}

	return &payment.Checkout{
		PreferenceID: res.ID,
		URL:          res.InitPoint,
	}, nil
}

func ExternalReference(paymentID uint) string {
	return "payment-" + strconv.FormatUint(uint64(paymentID), 10)
}

var _ payment.Gateway = (*Gateway)(nil)
