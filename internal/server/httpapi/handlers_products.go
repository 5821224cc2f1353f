package httpapi

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/models"
)

// maxUploadBytes bounds multipart request memory usage.
const maxUploadBytes = 10 << 20

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListJSON(products))
}

func (s *Server) handleMyProducts(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	products, err := s.products.ListBySeller(r.Context(), snap.Handle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListJSON(products))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(product))
}

// handleCreateProduct accepts either a JSON body or a multipart form with an
// optional cover photo under the "coverPhoto" field.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	var product models.Product

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: malformed multipart form", common.ErrorInvalidArgument))
			return
		}

		price, err := strconv.ParseFloat(r.FormValue("price"), 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: price must be a number", common.ErrorInvalidArgument))
			return
		}

		product = models.Product{
			Name:         r.FormValue("name"),
			Description:  r.FormValue("description"),
			Category:     r.FormValue("category"),
			ClothingType: r.FormValue("clothingType"),
			Brand:        r.FormValue("brand"),
			Price:        price,
			Condition:    r.FormValue("condition"),
		}

		if file, header, err := r.FormFile("coverPhoto"); err == nil {
			defer file.Close()
			url, err := s.files.Save(r.Context(), header.Filename,
				header.Header.Get("Content-Type"), file)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			product.CoverPhotoURL = url
		}
	} else {
		var req struct {
			Name          string  `json:"name"`
			Description   string  `json:"description"`
			Category      string  `json:"category"`
			ClothingType  string  `json:"clothingType"`
			Brand         string  `json:"brand"`
			Price         float64 `json:"price"`
			Condition     string  `json:"condition"`
			CoverPhotoURL string  `json:"coverPhotoUrl"`
		}
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		product = models.Product{
			Name:          req.Name,
			Description:   req.Description,
			Category:      req.Category,
			ClothingType:  req.ClothingType,
			Brand:         req.Brand,
			Price:         req.Price,
			Condition:     req.Condition,
			CoverPhotoURL: req.CoverPhotoURL,
		}
	}

	if product.Condition == "" {
		product.Condition = "New"
	}

	created, err := s.products.Create(r.Context(), snap.Handle, &product)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product added successfully",
		"product": toProductJSON(created),
	})
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	var req struct {
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Category      *string  `json:"category"`
		ClothingType  *string  `json:"clothingType"`
		Brand         *string  `json:"brand"`
		Price         *float64 `json:"price"`
		Condition     *string  `json:"condition"`
		CoverPhotoURL *string  `json:"coverPhotoUrl"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.products.Update(r.Context(), snap.Handle, mux.Vars(r)["id"], models.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		ClothingType:  req.ClothingType,
		Brand:         req.Brand,
		Price:         req.Price,
		Condition:     req.Condition,
		CoverPhotoURL: req.CoverPhotoURL,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": toProductJSON(updated),
	})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	if err := s.products.Delete(r.Context(), snap.Handle, mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
