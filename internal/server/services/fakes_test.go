package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/dbx"
	"github.com/thriftedhq/thrifted/internal/server/hub"
	"github.com/thriftedhq/thrifted/internal/server/mail"
	"github.com/thriftedhq/thrifted/internal/server/models"
	cartsrepo "github.com/thriftedhq/thrifted/internal/server/repositories/carts"
	ordersrepo "github.com/thriftedhq/thrifted/internal/server/repositories/orders"
	productsrepo "github.com/thriftedhq/thrifted/internal/server/repositories/products"
	usersrepo "github.com/thriftedhq/thrifted/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake users repository ---

type fakeUsersRepo struct {
	users     []*models.User
	createErr error
	findErr   error

	resetUser *models.User // returned by FindByResetToken when token matches lastResetToken

	lastResetToken   string
	lastResetExpires time.Time
	clearedReset     []string
	updatedHashes    map[string]string
	adminFlags       map[string]bool
	profileUpdates   map[string]usersrepo.ProfileUpdate
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	u.CreatedAt = time.Now()
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (f *fakeUsersRepo) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Handle, handle) })
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsersRepo) FindByHandleOrEmail(ctx context.Context, v string) (*models.User, error) {
	return f.find(func(u *models.User) bool {
		return strings.EqualFold(u.Handle, v) || strings.EqualFold(u.Email, v)
	})
}

func (f *fakeUsersRepo) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	if f.resetUser != nil && token == f.lastResetToken {
		copied := *f.resetUser
		return &copied, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, userID string, hash string) error {
	if f.updatedHashes == nil {
		f.updatedHashes = make(map[string]string)
	}
	f.updatedHashes[userID] = hash
	return nil
}

func (f *fakeUsersRepo) SetResetToken(ctx context.Context, userID string, token string, expires time.Time) error {
	f.lastResetToken = token
	f.lastResetExpires = expires
	return nil
}

func (f *fakeUsersRepo) ClearResetToken(ctx context.Context, userID string) error {
	f.clearedReset = append(f.clearedReset, userID)
	return nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, userID string, update usersrepo.ProfileUpdate) error {
	if f.profileUpdates == nil {
		f.profileUpdates = make(map[string]usersrepo.ProfileUpdate)
	}
	f.profileUpdates[userID] = update
	for _, u := range f.users {
		if u.ID == userID {
			if update.Bio != nil {
				u.Bio = *update.Bio
			}
			if update.ProfilePictureURL != nil {
				u.ProfilePictureURL = *update.ProfilePictureURL
			}
			if update.CoverPhotoURL != nil {
				u.CoverPhotoURL = *update.CoverPhotoURL
			}
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if f.adminFlags == nil {
		f.adminFlags = make(map[string]bool)
	}
	f.adminFlags[userID] = isAdmin
	for _, u := range f.users {
		if u.ID == userID {
			u.IsAdmin = isAdmin
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	return f.users, nil
}

// --- fake products repository ---

type fakeProductsRepo struct {
	products  map[string]*models.Product
	createErr error
	nextID    int
}

func newFakeProductsRepo() *fakeProductsRepo {
	return &fakeProductsRepo{products: make(map[string]*models.Product)}
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	p.CreatedAt = time.Now()
	f.products[p.ID] = p
	copied := *p
	return &copied, nil
}

func (f *fakeProductsRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductsRepo) ListAll(ctx context.Context) ([]*models.Product, error) {
	var result []*models.Product
	for _, p := range f.products {
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeProductsRepo) ListBySeller(ctx context.Context, sellerHandle string) ([]*models.Product, error) {
	var result []*models.Product
	for _, p := range f.products {
		if strings.EqualFold(p.SellerHandle, sellerHandle) {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeProductsRepo) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.ClothingType != nil {
		p.ClothingType = *update.ClothingType
	}
	if update.Brand != nil {
		p.Brand = *update.Brand
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Condition != nil {
		p.Condition = *update.Condition
	}
	if update.CoverPhotoURL != nil {
		p.CoverPhotoURL = *update.CoverPhotoURL
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.products, id)
	return nil
}

// --- fake carts repository ---

type fakeCartsRepo struct {
	carts    map[string]string         // userID -> cartID
	items    map[string]map[string]int // cartID -> productID -> qty
	listings *fakeProductsRepo         // source for ListItems joins

	lockErr  error
	clearErr error
	cleared  []string
}

func newFakeCartsRepo(listings *fakeProductsRepo) *fakeCartsRepo {
	return &fakeCartsRepo{
		carts:    make(map[string]string),
		items:    make(map[string]map[string]int),
		listings: listings,
	}
}

func (f *fakeCartsRepo) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	id, ok := f.carts[userID]
	if !ok {
		id = "cart-" + userID
		f.carts[userID] = id
		f.items[id] = make(map[string]int)
	}
	return &models.Cart{ID: id, UserID: userID}, nil
}

func (f *fakeCartsRepo) LockByUserID(ctx context.Context, userID string) (string, error) {
	if f.lockErr != nil {
		return "", f.lockErr
	}
	id, ok := f.carts[userID]
	if !ok {
		return "", common.ErrorNotFound
	}
	return id, nil
}

func (f *fakeCartsRepo) AddItem(ctx context.Context, cartID, productID string, qty int) error {
	f.items[cartID][productID] += qty
	return nil
}

func (f *fakeCartsRepo) SetQuantity(ctx context.Context, cartID, productID string, qty int) error {
	f.items[cartID][productID] = qty
	return nil
}

func (f *fakeCartsRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	if _, ok := f.items[cartID][productID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items[cartID], productID)
	return nil
}

func (f *fakeCartsRepo) ListItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var result []models.CartItem
	for productID, qty := range f.items[cartID] {
		p, err := f.listings.GetByID(ctx, productID)
		if err != nil {
			continue
		}
		result = append(result, models.CartItem{ProductID: productID, Quantity: qty, Product: p})
	}
	return result, nil
}

func (f *fakeCartsRepo) ClearItems(ctx context.Context, cartID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, cartID)
	f.items[cartID] = make(map[string]int)
	return nil
}

// --- fake orders repository ---

type fakeOrdersRepo struct {
	orders    []*models.Order
	createErr error
}

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	order.ID = fmt.Sprintf("o-%d", len(f.orders)+1)
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeOrdersRepo) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	var result []*models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProductsRepo
	c *fakeCartsRepo
	o *fakeOrdersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Products(db dbx.DBTX) productsrepo.Repository { return m.p }
func (m *fakeRepoManager) Carts(db dbx.DBTX) cartsrepo.Repository       { return m.c }
func (m *fakeRepoManager) Orders(db dbx.DBTX) ordersrepo.Repository     { return m.o }

// --- fake collaborators ---

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeBroadcaster struct {
	events []hub.Event
}

func (f *fakeBroadcaster) Broadcast(ctx context.Context, ev hub.Event) {
	f.events = append(f.events, ev)
}
