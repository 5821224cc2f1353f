package services

import (
	"context"
	"errors"
	"testing"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/models"
)

func newCartFixture(t *testing.T) (*CartService, *fakeProductsRepo, *fakeCartsRepo) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	products := newFakeProductsRepo()
	carts := newFakeCartsRepo(products)
	s := NewCartService(db, &fakeRepoManager{p: products, c: carts})
	return s, products, carts
}

func seedProduct(t *testing.T, repo *fakeProductsRepo, name string, price float64) *models.Product {
	t.Helper()
	p, err := repo.Create(context.Background(), &models.Product{Name: name, Price: price, SellerHandle: "seller"})
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return p
}

func TestGetCart_CreatesLazily(t *testing.T) {
	s, _, _ := newCartFixture(t)

	cart, err := s.GetCart(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if cart.ID == "" || cart.UserID != "u-1" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("fresh cart not empty: %+v", cart.Items)
	}
}

func TestAddItem_MergesByProduct(t *testing.T) {
	s, products, _ := newCartFixture(t)
	p := seedProduct(t, products, "Jacket", 45)

	if _, err := s.AddItem(context.Background(), "u-1", p.ID, 1); err != nil {
		t.Fatalf("first add error: %v", err)
	}
	cart, err := s.AddItem(context.Background(), "u-1", p.ID, 2)
	if err != nil {
		t.Fatalf("second add error: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}
	if cart.Items[0].Product == nil || cart.Items[0].Product.Name != "Jacket" {
		t.Fatalf("listing not populated: %+v", cart.Items[0])
	}
}

func TestAddItem_Validation(t *testing.T) {
	s, products, _ := newCartFixture(t)
	p := seedProduct(t, products, "Jacket", 45)

	if _, err := s.AddItem(context.Background(), "u-1", p.ID, 0); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("qty 0: expected ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.AddItem(context.Background(), "u-1", p.ID, -1); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("negative qty: expected ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.AddItem(context.Background(), "u-1", "p-404", 1); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown product: expected ErrorNotFound, got %v", err)
	}
}

func TestSetQuantity_Absolute(t *testing.T) {
	s, products, _ := newCartFixture(t)
	p := seedProduct(t, products, "Jacket", 45)

	s.AddItem(context.Background(), "u-1", p.ID, 5)
	cart, err := s.SetQuantity(context.Background(), "u-1", p.ID, 2)
	if err != nil {
		t.Fatalf("SetQuantity error: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected absolute quantity 2, got %d", cart.Items[0].Quantity)
	}
}

func TestRemoveItem(t *testing.T) {
	s, products, _ := newCartFixture(t)
	p := seedProduct(t, products, "Jacket", 45)

	s.AddItem(context.Background(), "u-1", p.ID, 2)
	cart, err := s.RemoveItem(context.Background(), "u-1", p.ID)
	if err != nil {
		t.Fatalf("RemoveItem error: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("line still present: %+v", cart.Items)
	}

	if _, err := s.RemoveItem(context.Background(), "u-1", p.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("removing absent line: expected ErrorNotFound, got %v", err)
	}
}

func TestCarts_AreIndependentPerUser(t *testing.T) {
	s, products, _ := newCartFixture(t)
	p := seedProduct(t, products, "Jacket", 45)

	s.AddItem(context.Background(), "u-1", p.ID, 1)
	cart2, err := s.GetCart(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if len(cart2.Items) != 0 {
		t.Fatalf("second user's cart not empty: %+v", cart2.Items)
	}
}
