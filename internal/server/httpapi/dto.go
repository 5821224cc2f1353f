package httpapi

import (
	"time"

	"github.com/thriftedhq/thrifted/internal/server/models"
)

// Wire DTOs. Field names follow the contract the frontend consumes; models
// stay free of transport tags.

type userJSON struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Handle            string `json:"handle"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	CoverPhotoURL     string `json:"coverPhotoUrl"`
	Bio               string `json:"bio"`
	IsAdmin           bool   `json:"isAdmin"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{
		ID:                u.ID,
		Username:          u.Username,
		Handle:            u.Handle,
		Email:             u.Email,
		ProfilePictureURL: u.ProfilePictureURL,
		CoverPhotoURL:     u.CoverPhotoURL,
		Bio:               u.Bio,
		IsAdmin:           u.IsAdmin,
	}
}

// publicUserJSON is the profile anyone may see; no email, no admin flag.
type publicUserJSON struct {
	Username          string `json:"username"`
	Handle            string `json:"handle"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	CoverPhotoURL     string `json:"coverPhotoUrl"`
	Bio               string `json:"bio"`
}

type adminUserJSON struct {
	Username string `json:"username"`
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

type productJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ClothingType  string    `json:"clothingType"`
	Brand         string    `json:"brand"`
	Price         float64   `json:"price"`
	Condition     string    `json:"condition"`
	Likes         int       `json:"likes"`
	CoverPhotoURL string    `json:"coverPhotoUrl"`
	SellerHandle  string    `json:"sellerHandle"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toProductJSON(p *models.Product) productJSON {
	return productJSON{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		ClothingType:  p.ClothingType,
		Brand:         p.Brand,
		Price:         p.Price,
		Condition:     p.Condition,
		Likes:         p.Likes,
		CoverPhotoURL: p.CoverPhotoURL,
		SellerHandle:  p.SellerHandle,
		CreatedAt:     p.CreatedAt,
	}
}

func toProductListJSON(products []*models.Product) []productJSON {
	result := make([]productJSON, 0, len(products))
	for _, p := range products {
		result = append(result, toProductJSON(p))
	}
	return result
}

type cartItemJSON struct {
	Product  productJSON `json:"product"`
	Quantity int         `json:"quantity"`
}

type cartJSON struct {
	ID     string         `json:"id"`
	UserID string         `json:"userId"`
	Items  []cartItemJSON `json:"items"`
}

func toCartJSON(c *models.Cart) cartJSON {
	items := make([]cartItemJSON, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		items = append(items, cartItemJSON{
			Product:  toProductJSON(item.Product),
			Quantity: item.Quantity,
		})
	}
	return cartJSON{ID: c.ID, UserID: c.UserID, Items: items}
}

type orderItemJSON struct {
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

type orderJSON struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []orderItemJSON `json:"items"`
	TotalAmount float64         `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toOrderJSON(o *models.Order) orderJSON {
	items := make([]orderItemJSON, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemJSON{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return orderJSON{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}
