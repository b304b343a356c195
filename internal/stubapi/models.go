// Package stubapi is a reference implementation of the storefront backend
// contracts: auth, bag and favorite id sets, and the product catalog. The
// demo binary and the end-to-end tests run the client engine against it.
package stubapi

import (
	"context"

	"atelier/internal/storefront/models"
)

// User is a registered account. PasswordHash is bcrypt.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	LastDevice   string
}

// UserStore persists accounts. Create returns ErrAlreadyUsed when the
// email is taken.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// BagStore holds each user's bag as a product-id set. All mutating calls
// return the updated authoritative set.
type BagStore interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) ([]string, error)
	Remove(ctx context.Context, userID, productID string) ([]string, error)
	Replace(ctx context.Context, userID string, productIDs []string) ([]string, error)
}

// FavoriteStore holds each user's favorite product ids.
type FavoriteStore interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

// ProductStore is the catalog read/write surface. List order is the seed
// order, which the shop views rely on.
type ProductStore interface {
	Get(ctx context.Context, productID string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Put(ctx context.Context, p models.Product) error
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type productIDRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type replaceBagRequest struct {
	ProductIDs []string `json:"productIds"`
}

type authResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Token  string `json:"token,omitempty"`
}

type productIDsResponse struct {
	ProductIDs []string `json:"productIds"`
}
