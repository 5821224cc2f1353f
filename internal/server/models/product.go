package models

import "time"

// Product is a listing offered for sale by one seller. SellerHandle is
// immutable after creation; only the owner may update or delete the
// listing.
type Product struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Category      string    `db:"category"`
	ClothingType  string    `db:"clothing_type"`
	Brand         string    `db:"brand"`
	Price         float64   `db:"price"`
	Condition     string    `db:"condition"`
	Likes         int       `db:"likes"`
	CoverPhotoURL string    `db:"cover_photo_url"`
	SellerHandle  string    `db:"seller_handle"`
	CreatedAt     time.Time `db:"created_at"`
}

// ProductUpdate carries a partial update for a listing. Nil fields are
// left unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Category      *string
	ClothingType  *string
	Brand         *string
	Price         *float64
	Condition     *string
	CoverPhotoURL *string
}
