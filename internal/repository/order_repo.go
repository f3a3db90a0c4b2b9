package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/israelbalbino/backend-fastprint/internal/model"
)

const ordersCollection = "orders"

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrTxidConflict means more than one order document carries the same
	// txid, which breaks the webhook correlation invariant.
	ErrTxidConflict = errors.New("multiple orders share the same txid")
)

type OrderRepository struct {
	DB *firestore.Client
}

func NewOrderRepository(db *firestore.Client) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order model.Order) error {
	// Document id is the orderId, so resubmitting the same order
	// overwrites the previous record (last writer wins).
	_, err := r.DB.Collection(ordersCollection).Doc(order.OrderID).Set(ctx, order)
	if err != nil {
		return fmt.Errorf("repository: create order %s: %w", order.OrderID, err)
	}
	return nil
}

func (r *OrderRepository) FindOrderByTxid(ctx context.Context, txid string) (model.Order, error) {
	iter := r.DB.Collection(ordersCollection).
		Where("txid", "==", txid).
		Limit(2).
		Documents(ctx)
	defer iter.Stop()

	docs, err := iter.GetAll()
	if err != nil {
		return model.Order{}, fmt.Errorf("repository: query txid %s: %w", txid, err)
	}

	switch len(docs) {
	case 0:
		return model.Order{}, ErrOrderNotFound
	case 1:
		// ok
	default:
		return model.Order{}, fmt.Errorf("repository: txid %s: %w", txid, ErrTxidConflict)
	}

	var order model.Order
	if err := docs[0].DataTo(&order); err != nil {
		return model.Order{}, fmt.Errorf("repository: decode order %s: %w", docs[0].Ref.ID, err)
	}
	return order, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, st model.OrderStatus, confirmed bool) error {
	_, err := r.DB.Collection(ordersCollection).Doc(orderID).Update(ctx, []firestore.Update{
		{Path: "status", Value: st},
		{Path: "paymentConfirmed", Value: confirmed},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("repository: update order %s: %w", orderID, ErrOrderNotFound)
		}
		return fmt.Errorf("repository: update order %s: %w", orderID, err)
	}
	return nil
}
