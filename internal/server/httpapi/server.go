// Package httpapi exposes the marketplace over REST. Handlers translate
// between the JSON wire contract and the service layer; all business rules
// live below this package.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/thriftedhq/thrifted/internal/logging"
	"github.com/thriftedhq/thrifted/internal/server/models"
	"github.com/thriftedhq/thrifted/internal/server/repositories/users"
	"github.com/thriftedhq/thrifted/internal/server/sessions"
	"github.com/thriftedhq/thrifted/internal/server/uploads"
)

// sessionCookie is the only thing the client holds; it carries the opaque
// session token and nothing else.
const sessionCookie = "thrifted_session"

// UserProvider is the slice of the user service the handlers need.
type UserProvider interface {
	Signup(ctx context.Context, username, handle, email, password string) (*models.User, error)
	Login(ctx context.Context, source, handleOrEmail, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	IsAdmin(ctx context.Context, handle string) (bool, error)
	UpdateProfile(ctx context.Context, handle string, update users.ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ProductProvider is the slice of the product service the handlers need.
type ProductProvider interface {
	Create(ctx context.Context, sellerHandle string, product *models.Product) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	ListAll(ctx context.Context) ([]*models.Product, error)
	ListBySeller(ctx context.Context, sellerHandle string) ([]*models.Product, error)
	Update(ctx context.Context, callerHandle, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, callerHandle, id string) error
}

// CartProvider is the slice of the cart service the handlers need.
type CartProvider interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, qty int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
}

// OrderProvider is the slice of the order service the handlers need.
type OrderProvider interface {
	PlaceOrder(ctx context.Context, userID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*models.Order, error)
}

// Server wires the HTTP surface to the services.
type Server struct {
	users    UserProvider
	products ProductProvider
	carts    CartProvider
	orders   OrderProvider

	sessions   sessions.Store
	files      uploads.FileStore
	ws         http.Handler
	logger     logging.Logger
	sessionTTL time.Duration
	rateWindow time.Duration
}

func NewServer(users UserProvider, products ProductProvider, carts CartProvider,
	orders OrderProvider, store sessions.Store, files uploads.FileStore,
	ws http.Handler, logger logging.Logger, sessionTTL, rateWindow time.Duration) *Server {
	return &Server{
		users:      users,
		products:   products,
		carts:      carts,
		orders:     orders,
		sessions:   store,
		files:      files,
		ws:         ws,
		logger:     logger,
		sessionTTL: sessionTTL,
		rateWindow: rateWindow,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withSession)

	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPost)

	if s.ws != nil {
		r.Handle("/ws", s.ws).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.Handle("/products", s.requireSession(s.handleCreateProduct)).Methods(http.MethodPost)
	api.Handle("/products/{id}", s.requireSession(s.handleGetProduct)).Methods(http.MethodGet)
	api.Handle("/products/{id}", s.requireSession(s.handleUpdateProduct)).Methods(http.MethodPut)
	api.Handle("/products/{id}", s.requireSession(s.handleDeleteProduct)).Methods(http.MethodDelete)
	api.Handle("/myproducts", s.requireSession(s.handleMyProducts)).Methods(http.MethodGet)

	api.HandleFunc("/users/{handle}", s.handleGetUser).Methods(http.MethodGet)

	api.Handle("/cart", s.requireSession(s.handleGetCart)).Methods(http.MethodGet)
	api.Handle("/cart", s.requireSession(s.handleAddToCart)).Methods(http.MethodPost)
	api.Handle("/cart/{productId}", s.requireSession(s.handleSetCartQuantity)).Methods(http.MethodPut)
	api.Handle("/cart/{productId}", s.requireSession(s.handleRemoveFromCart)).Methods(http.MethodDelete)

	api.Handle("/orders", s.requireSession(s.handlePlaceOrder)).Methods(http.MethodPost)
	api.Handle("/orders", s.requireSession(s.handleListOrders)).Methods(http.MethodGet)

	api.Handle("/profile/upload", s.requireSession(s.handleProfileUpload)).Methods(http.MethodPost)
	api.Handle("/profile/clear-images", s.requireSession(s.handleClearProfileImages)).Methods(http.MethodPost)

	api.Handle("/admin/users", s.requireAdmin(s.handleAdminListUsers)).Methods(http.MethodGet)

	return r
}
