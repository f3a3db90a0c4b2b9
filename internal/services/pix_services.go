package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/israelbalbino/backend-fastprint/external/efi"
	"github.com/israelbalbino/backend-fastprint/internal/model"
	"github.com/israelbalbino/backend-fastprint/internal/repository"
)

const (
	chargeExpirySeconds = 3600
	defaultDescription  = "Impressão de arquivo"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

type PixGateway interface {
	CreateImmediateCharge(ctx context.Context, req efi.ChargeRequest) (*efi.Charge, error)
	GenerateQRCode(ctx context.Context, locID int64) (*efi.QRCode, error)
	ConfigWebhook(ctx context.Context, pixKey, webhookURL string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order model.Order) error
	FindOrderByTxid(ctx context.Context, txid string) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, st model.OrderStatus, confirmed bool) error
}

type PixCharge struct {
	OrderID string `json:"orderId"`
	Txid    string `json:"txid"`
	Qrcode  string `json:"qrcode"`
	QrImage string `json:"qrImage"`
}

// PixNotification is one entry of the "pix" list Efí posts to the webhook.
type PixNotification struct {
	Txid       string `json:"txid"`
	EndToEndID string `json:"endToEndId"`
	Valor      string `json:"valor"`
	Horario    string `json:"horario"`
}

type PixService struct {
	Orders  OrderStore
	Gateway PixGateway
	PixKey  string
}

func NewPixService(orders OrderStore, gateway PixGateway, pixKey string) *PixService {
	return &PixService{
		Orders:  orders,
		Gateway: gateway,
		PixKey:  pixKey,
	}
}

func (s *PixService) CreateCharge(
	ctx context.Context,
	orderID string,
	amount string,
	description string,
) (*PixCharge, error) {

	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if description == "" {
		description = defaultDescription
	}

	charge, err := s.Gateway.CreateImmediateCharge(ctx, efi.ChargeRequest{
		Calendario:         efi.Calendario{Expiracao: chargeExpirySeconds},
		Valor:              efi.Valor{Original: value.StringFixed(2)},
		Chave:              s.PixKey,
		SolicitacaoPagador: description,
	})
	if err != nil {
		return nil, err
	}

	qr, err := s.Gateway.GenerateQRCode(ctx, charge.Loc.ID)
	if err != nil {
		return nil, err
	}

	// Persist the amount the gateway echoed back, not the raw input.
	order := model.Order{
		OrderID:          orderID,
		Txid:             charge.Txid,
		Amount:           charge.Valor.Original,
		Description:      description,
		Status:           model.StatusAwaitingPayment,
		PaymentConfirmed: false,
		CreatedAt:        time.Now(),
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	slog.Info("pix charge created", "orderId", orderID, "txid", charge.Txid)

	return &PixCharge{
		OrderID: orderID,
		Txid:    charge.Txid,
		Qrcode:  qr.Qrcode,
		QrImage: qr.ImagemQrcode,
	}, nil
}

func (s *PixService) ConfirmPayments(ctx context.Context, events []PixNotification) error {
	var errs []error

	for _, ev := range events {
		order, err := s.Orders.FindOrderByTxid(ctx, ev.Txid)
		if errors.Is(err, repository.ErrOrderNotFound) {
			// Payment for something we never sold, or for an order
			// overwritten by a resubmission. Nothing to update.
			slog.Warn("pix notification without matching order", "txid", ev.Txid)
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		// Idempotency guard: redelivered notifications are no-ops.
		if order.PaymentConfirmed {
			continue
		}

		if err := s.Orders.UpdateOrderStatus(ctx, order.OrderID, model.StatusPreparing, true); err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Info("payment confirmed", "orderId", order.OrderID, "txid", ev.Txid)
	}

	// One bad event must not swallow the rest; report them all at once so
	// the provider redelivers the batch.
	return errors.Join(errs...)
}

func (s *PixService) RegisterWebhook(ctx context.Context, callbackURL string) error {
	return s.Gateway.ConfigWebhook(ctx, s.PixKey, callbackURL)
}
