package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

var (
	ErrBasketNotFound  = errors.New("basket not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNotSaved        = errors.New("basket was not saved")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

type BasketStore interface {
	// FindByBuyerID returns nil, nil when the buyer has no basket.
	FindByBuyerID(ctx context.Context, buyerID string) (*domain.Basket, error)
	// Save returns the number of rows it touched.
	Save(ctx context.Context, b *domain.Basket) (int64, error)
}

type ProductStore interface {
	// Get returns nil, nil for an unknown id.
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type BasketService struct {
	Baskets  BasketStore
	Products ProductStore
	// NewToken mints anonymous buyer tokens.
	NewToken func() string
}

func NewBasketService(baskets BasketStore, products ProductStore) *BasketService {
	return &BasketService{Baskets: baskets, Products: products, NewToken: uuid.NewString}
}

// AddResult carries the saved basket and, when an anonymous basket was just
// created, the token the caller must keep to find it again.
type AddResult struct {
	Basket      *domain.Basket
	IssuedToken string
}

func (s *BasketService) Get(ctx context.Context, caller Caller) (*domain.Basket, error) {
	b, err := s.find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBasketNotFound
	}
	return b, nil
}

func (s *BasketService) AddItem(ctx context.Context, caller Caller, productID int64, qty int) (AddResult, error) {
	if qty < 1 {
		return AddResult{}, ErrInvalidQuantity
	}
	// Product first, so an unknown id never leaves a basket or token behind.
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return AddResult{}, fmt.Errorf("get product %d: %w", productID, err)
	}
	if p == nil {
		return AddResult{}, ErrProductNotFound
	}

	b, err := s.find(ctx, caller)
	if err != nil {
		return AddResult{}, err
	}
	var issued string
	if b == nil {
		key := caller.UserName
		if !caller.Authenticated() {
			issued = s.NewToken()
			key = issued
		}
		b = domain.NewBasket(key)
	}

	b.AddItem(*p, qty)
	if err := s.save(ctx, b); err != nil {
		return AddResult{}, err
	}
	return AddResult{Basket: b, IssuedToken: issued}, nil
}

// RemoveItem takes qty of the product out of the caller's basket. A product
// that is not in the basket is left alone and is not an error.
func (s *BasketService) RemoveItem(ctx context.Context, caller Caller, productID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	b, err := s.Get(ctx, caller)
	if err != nil {
		return err
	}
	if !b.RemoveItem(productID, qty) {
		return nil
	}
	return s.save(ctx, b)
}

func (s *BasketService) find(ctx context.Context, caller Caller) (*domain.Basket, error) {
	key, ok := caller.BuyerKey()
	if !ok {
		return nil, nil
	}
	b, err := s.Baskets.FindByBuyerID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find basket: %w", err)
	}
	return b, nil
}

func (s *BasketService) save(ctx context.Context, b *domain.Basket) error {
	n, err := s.Baskets.Save(ctx, b)
	if err != nil {
		return fmt.Errorf("save basket: %w", err)
	}
	if n == 0 {
		return ErrNotSaved
	}
	return nil
}
