package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/israelbalbino/backend-fastprint/internal/model"
	"github.com/israelbalbino/backend-fastprint/internal/repository"
)

func TestWebhookEmptyPayloadAcknowledged(t *testing.T) {
	e, orders, _ := newTestApp()

	for _, body := range []string{`{}`, `{"pix":[]}`} {
		rec := doJSON(e, http.MethodPost, "/webhook/efi/pix/pix", body)
		assert.Equal(t, http.StatusOK, rec.Code, "body %s", body)
	}

	orders.AssertNotCalled(t, "FindOrderByTxid", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookMalformedPayload(t *testing.T) {
	e, _, _ := newTestApp()

	rec := doJSON(e, http.MethodPost, "/webhook/efi/pix/pix", `{"pix":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookConfirmsMatchingOrder(t *testing.T) {
	e, orders, _ := newTestApp()

	orders.On("FindOrderByTxid", mock.Anything, "TX1").
		Return(model.Order{OrderID: "ORD1", Txid: "TX1", Status: model.StatusAwaitingPayment}, nil)
	orders.On("UpdateOrderStatus", mock.Anything, "ORD1", model.StatusPreparing, true).Return(nil)

	rec := doJSON(e, http.MethodPost, "/webhook/efi/pix/pix",
		`{"pix":[{"txid":"TX1","endToEndId":"E123","valor":"10.50"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestWebhookUnknownTxidStillAcknowledged(t *testing.T) {
	e, orders, _ := newTestApp()

	orders.On("FindOrderByTxid", mock.Anything, "TX-unknown").
		Return(model.Order{}, repository.ErrOrderNotFound)

	rec := doJSON(e, http.MethodPost, "/webhook/efi/pix/pix", `{"pix":[{"txid":"TX-unknown"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookStoreFailureTriggersRedelivery(t *testing.T) {
	e, orders, _ := newTestApp()

	orders.On("FindOrderByTxid", mock.Anything, "TX1").
		Return(model.Order{}, errors.New("firestore unavailable"))

	rec := doJSON(e, http.MethodPost, "/webhook/efi/pix/pix", `{"pix":[{"txid":"TX1"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookRegistrationProbe(t *testing.T) {
	e, _, _ := newTestApp()

	rec := doJSON(e, http.MethodPost, "/webhook/efi/pix", `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}
