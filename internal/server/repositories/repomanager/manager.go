package repomanager

import (
	"context"
	"database/sql"

	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/repositories/carts"
	"github.com/thriftedhq/thrifted/internal/server/repositories/orders"
	"github.com/thriftedhq/thrifted/internal/server/repositories/products"
	"github.com/thriftedhq/thrifted/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a plain connection
// or an open transaction, so services can choose the consistency scope per
// operation.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Carts(db dbx.DBTX) carts.Repository
	Orders(db dbx.DBTX) orders.Repository
}
