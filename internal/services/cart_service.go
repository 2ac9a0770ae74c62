package services

import (
	"errors"
	"fmt"

	"kitab/internal/models"
	"kitab/internal/repositories"
)

// CartService handles business logic for shopping carts.
type CartService struct {
	cartRepo repositories.CartRepository
	bookRepo repositories.BookRepository
	userRepo repositories.UserRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, bookRepo repositories.BookRepository, userRepo repositories.UserRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
	}
}

// GetCart resolves the caller's cart and returns it with recalculated
// totals.
func (s *CartService) GetCart(id Identity) (*models.Cart, error) {
	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

// AddItem upserts a line: a new book gets a fresh line, a repeated add
// increments the existing one. The stock ceiling applies to the combined
// quantity, so a cart can never ask for more than is on the shelf.
func (s *CartService) AddItem(id Identity, bookID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}

	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItemByBook(cart.ID, bookID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > book.StockQuantity {
		return nil, &models.OutOfStockError{BookTitle: book.Title, Available: book.StockQuantity}
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, newQuantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{CartID: cart.ID, BookID: bookID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	return s.refresh(cart.ID)
}

// UpdateItem sets the absolute quantity of a line. A quantity of zero or
// less removes the line; that is treated as removal, not an error.
func (s *CartService) UpdateItem(id Identity, itemID string, quantity int) (*models.Cart, error) {
	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
		return s.refresh(cart.ID)
	}

	book, err := s.bookRepo.GetByID(item.BookID)
	if err != nil {
		return nil, err
	}
	if quantity > book.StockQuantity {
		return nil, &models.OutOfStockError{BookTitle: book.Title, Available: book.StockQuantity}
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

// RemoveItem deletes a line. Removing a line that does not exist is not an
// error.
func (s *CartService) RemoveItem(id Identity, itemID string) (*models.Cart, error) {
	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, itemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return s.refresh(cart.ID)
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

// ClearCart removes every line at once. Clearing an already empty cart is
// fine.
func (s *CartService) ClearCart(id Identity) (*models.Cart, error) {
	cart, err := resolveCart(s.cartRepo, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.refresh(cart.ID)
}

func (s *CartService) refresh(cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.Reload(cartID)
	if err != nil {
		return nil, err
	}
	cart.Recalculate()
	return cart, nil
}
