package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/hub"
	"github.com/thriftedhq/thrifted/internal/server/models"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
)

// EventBroadcaster pushes catalog events to connected clients. Broadcasts
// are best-effort; a failed or missing listener never fails the operation.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, ev hub.Event)
}

// ProductService manages catalog listings. Mutations are restricted to the
// listing's seller.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	events      EventBroadcaster
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, events EventBroadcaster) *ProductService {
	return &ProductService{db: db, repomanager: m, events: events}
}

// Create publishes a new listing owned by sellerHandle and announces it to
// connected clients.
func (s *ProductService) Create(ctx context.Context, sellerHandle string, product *models.Product) (*models.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorInvalidArgument)
	}
	if product.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", common.ErrorInvalidArgument)
	}

	product.SellerHandle = sellerHandle

	created, err := s.repomanager.Products(s.db).Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	if s.events != nil {
		s.events.Broadcast(ctx, hub.Event{Type: "newProduct", Data: created})
	}
	return created, nil
}

// Get returns a single listing.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

// ListAll returns the full catalog, newest listings first.
func (s *ProductService) ListAll(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).ListAll(ctx)
}

// ListBySeller returns the listings owned by sellerHandle.
func (s *ProductService) ListBySeller(ctx context.Context, sellerHandle string) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).ListBySeller(ctx, sellerHandle)
}

// Update applies a partial edit to a listing. Only the owner may edit;
// anyone else gets ErrorForbidden regardless of admin status.
func (s *ProductService) Update(ctx context.Context, callerHandle, id string, update models.ProductUpdate) (*models.Product, error) {
	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(product.SellerHandle, callerHandle) {
		return nil, common.ErrorForbidden
	}
	if update.Price != nil && *update.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", common.ErrorInvalidArgument)
	}

	return repo.Update(ctx, id, update)
}

// Delete removes a listing. Only the owner may delete.
func (s *ProductService) Delete(ctx context.Context, callerHandle, id string) error {
	repo := s.repomanager.Products(s.db)

	product, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(product.SellerHandle, callerHandle) {
		return common.ErrorForbidden
	}

	return repo.Delete(ctx, id)
}
