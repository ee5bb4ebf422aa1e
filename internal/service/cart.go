package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartService keeps a customer's cart and the stock ledger consistent: every
// add/update reserves stock by decrementing it, every remove releases the
// reservation. A cart line's price is snapshotted at add-time.
type CartService struct {
	Repo  *repo.GormRepo
	Stock *StockService
}

// GetCart returns the user's cart. A user who never added anything gets an
// empty cart, not an error.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{UserID: userID, Items: items}
	for _, item := range items {
		cart.TotalAmount += float64(item.Quantity) * item.Price
	}
	return cart, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s is inactive", ErrUnavailable, productID)
	}

	if _, err := s.Stock.Adjust(ctx, productID, -quantity); err != nil {
		return nil, err
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     product.Price,
	}
	if err := s.Repo.UpsertCartItem(ctx, &item); err != nil {
		// The reservation was taken; give it back before failing.
		if _, relErr := s.Stock.Adjust(ctx, productID, quantity); relErr != nil {
			return nil, errors.Join(err, relErr)
		}
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart releases the line's reservation and deletes it. Removing a
// product that is not in the cart is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	empty, err := s.Repo.CartIsEmpty(ctx, userID)
	if err != nil {
		return err
	}
	if empty {
		return fmt.Errorf("%w: cart for user %s", ErrNotFound, userID)
	}

	item, err := s.Repo.GetCartItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.Stock.Adjust(ctx, productID, item.Quantity); err != nil {
		return err
	}
	_, err = s.Repo.DeleteCartItem(ctx, userID, productID)
	return err
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, newQuantity int) (*models.CartItem, error) {
	if newQuantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}

	empty, err := s.Repo.CartIsEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, fmt.Errorf("%w: cart for user %s", ErrNotFound, userID)
	}

	item, err := s.Repo.GetCartItem(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s is not in the cart", ErrNotFound, productID)
	}
	if err != nil {
		return nil, err
	}

	// A growing line reserves the difference, a shrinking line releases it.
	diff := newQuantity - item.Quantity
	if diff != 0 {
		if _, err := s.Stock.Adjust(ctx, productID, -diff); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.UpdateCartItemQuantity(ctx, userID, productID, newQuantity); err != nil {
		// The diff was already reserved or released; undo it before failing.
		if diff != 0 {
			if _, relErr := s.Stock.Adjust(ctx, productID, diff); relErr != nil {
				return nil, errors.Join(err, relErr)
			}
		}
		return nil, err
	}
	item.Quantity = newQuantity
	return item, nil
}

// ClearCart abandons the cart: every line's reservation is released and the
// lines are deleted.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if _, err := s.Stock.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		if _, err := s.Repo.DeleteCartItem(ctx, userID, item.ProductID); err != nil {
			return err
		}
	}
	return nil
}
