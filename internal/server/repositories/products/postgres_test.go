package products

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func productRows(id string, price float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "category",
		"clothing_type", "brand", "price", "condition", "likes",
		"cover_photo_url", "seller_handle", "created_at"}).
		AddRow(id, "Denim Jacket", "lightly worn", "outerwear", "jacket",
			"Levis", price, "Good", 0, "", "alice", time.Now())
}

func TestCreate_ReturnsGeneratedFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "likes", "created_at"}).
		AddRow("p-1", 0, time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+products`).
		WithArgs("Denim Jacket", "lightly worn", "outerwear", "jacket", "Levis",
			120.0, "Good", "", "alice").
		WillReturnRows(rows)

	p := &models.Product{
		Name: "Denim Jacket", Description: "lightly worn", Category: "outerwear",
		ClothingType: "jacket", Brand: "Levis", Price: 120.0, Condition: "Good",
		SellerHandle: "alice",
	}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "p-1" || got.Likes != 0 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+products\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("p-404").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p-404")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListAll_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := productRows("p-2", 80).
		AddRow("p-1", "Silk Scarf", "", "", "", "", 25.0, "New", 3, "", "bob", time.Now())
	mock.ExpectQuery(`SELECT\s+.*FROM\s+products\s+ORDER\s+BY\s+created_at\s+DESC`).
		WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	newPrice := 150.0
	mock.ExpectQuery(`UPDATE\s+products\s+SET\s+name\s*=\s*COALESCE`).
		WithArgs("p-1", nil, nil, nil, nil, nil, newPrice, nil, nil).
		WillReturnRows(productRows("p-1", newPrice))

	got, err := repo.Update(context.Background(), "p-1", models.ProductUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Price != newPrice {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+products\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("p-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "p-404")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
