package main

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/israelbalbino/backend-fastprint/external/efi"
	"github.com/israelbalbino/backend-fastprint/internal/model"
	"github.com/israelbalbino/backend-fastprint/internal/services"
)

type orderStoreMock struct{ mock.Mock }

func (m *orderStoreMock) CreateOrder(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *orderStoreMock) FindOrderByTxid(ctx context.Context, txid string) (model.Order, error) {
	args := m.Called(ctx, txid)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *orderStoreMock) UpdateOrderStatus(ctx context.Context, orderID string, st model.OrderStatus, confirmed bool) error {
	args := m.Called(ctx, orderID, st, confirmed)
	return args.Error(0)
}

type pixGatewayMock struct{ mock.Mock }

func (m *pixGatewayMock) CreateImmediateCharge(ctx context.Context, req efi.ChargeRequest) (*efi.Charge, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*efi.Charge)
	return c, args.Error(1)
}

func (m *pixGatewayMock) GenerateQRCode(ctx context.Context, locID int64) (*efi.QRCode, error) {
	args := m.Called(ctx, locID)
	qr, _ := args.Get(0).(*efi.QRCode)
	return qr, args.Error(1)
}

func (m *pixGatewayMock) ConfigWebhook(ctx context.Context, pixKey, webhookURL string) error {
	args := m.Called(ctx, pixKey, webhookURL)
	return args.Error(0)
}

func newTestApp() (*echo.Echo, *orderStoreMock, *pixGatewayMock) {
	orders := new(orderStoreMock)
	gateway := new(pixGatewayMock)
	svc := services.NewPixService(orders, gateway, "chave-pix")

	e := echo.New()
	registerPixRoutes(e, svc)
	registerWebhookRoutes(e, svc)
	return e, orders, gateway
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
