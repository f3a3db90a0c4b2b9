package model

import "time"

type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusPreparing       OrderStatus = "preparing"
)

type Order struct {
	OrderID          string      `firestore:"orderId" json:"orderId"`
	Txid             string      `firestore:"txid" json:"txid"`
	Amount           string      `firestore:"amount" json:"amount"`
	Description      string      `firestore:"description" json:"description"`
	Status           OrderStatus `firestore:"status" json:"status"`
	PaymentConfirmed bool        `firestore:"paymentConfirmed" json:"payment_confirmed"`
	CreatedAt        time.Time   `firestore:"createdAt" json:"created_at"`
	UpdatedAt        time.Time   `firestore:"updatedAt" json:"updated_at"`
}
