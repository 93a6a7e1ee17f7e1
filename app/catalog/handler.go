package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/hryucha/protein-catalog/app/query"
	"github.com/hryucha/protein-catalog/app/respond"
	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/hryucha/protein-catalog/app/urlstate"
	"github.com/hryucha/protein-catalog/models"
	"go.uber.org/zap"
)

const (
	defaultLimit = 500
	maxLimit     = 500
)

type Response struct {
	Total         int         `json:"total"`
	Filtered      int         `json:"filtered"`
	ActiveFilters int         `json:"activeFilters"`
	Query         string      `json:"query"`
	Stats         query.Stats `json:"stats"`
	Products      []Product   `json:"products"`
}

type Product struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Price             *float64 `json:"price"`
	Taste             float64  `json:"taste"`
	Similarity        *float64 `json:"similarity"`
	Calories          float64  `json:"calories"`
	Protein           float64  `json:"protein"`
	Fat               float64  `json:"fat"`
	Carbs             float64  `json:"carbs"`
	TotalMacros       string   `json:"totalMacros"`
	LabTested         bool     `json:"labTested"`
	Links             []string `json:"links"`
	Tag               string   `json:"tag"`
	ProteinPerCalorie float64  `json:"proteinPerCalorie"`
	ProteinRatio      int      `json:"proteinRatio"`
	FatRatio          int      `json:"fatRatio"`
	CarbsRatio        int      `json:"carbsRatio"`
	IsLowCarb         bool     `json:"isLowCarb"`
	IsHighProtein     bool     `json:"isHighProtein"`
}

type ProductProvider interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id string) (models.Product, error)
	Refresh(ctx context.Context) ([]models.Product, error)
}

type CatalogHandler struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewCatalogHandler(r ProductProvider, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		repo:   r,
		logger: logger,
	}
}

// HandleGet lists the products matching the filter parameters of the URL.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Parse pagination query params
	offset := 0
	limit := defaultLimit

	if oStr := q.Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := q.Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > maxLimit {
				limit = maxLimit
			} else {
				limit = l
			}
		}
	}

	filters := urlstate.Decode(q).Merged()

	all, err := h.repo.Products(r.Context())
	if err != nil {
		h.logger.Error("failed to get products", zap.Error(err))
		respond.Error(w, statusFor(err), "failed to get products")
		return
	}

	result := query.Apply(all, filters)

	start := min(offset, len(result))
	end := min(start+limit, len(result))
	page := result[start:end]

	products := make([]Product, len(page))
	for i, p := range page {
		products[i] = toProduct(p)
	}

	respond.JSON(w, http.StatusOK, Response{
		Total:         len(all),
		Filtered:      len(result),
		ActiveFilters: models.ActiveFilterCount(filters),
		Query:         urlstate.EncodeQuery(filters),
		Stats:         query.ComputeStats(len(all), result),
		Products:      products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.repo.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respond.Error(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("failed to get product", zap.String("id", id), zap.Error(err))
		respond.Error(w, statusFor(err), "failed to get product")
		return
	}

	respond.JSON(w, http.StatusOK, toProduct(product))
}

// HandleRefresh reloads the sheet on demand; it is the manual retry for a
// failed load.
func (h *CatalogHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.Refresh(r.Context())
	if err != nil {
		h.logger.Error("refresh failed", zap.Error(err))
		respond.Error(w, statusFor(err), err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"total": len(products)})
}

// statusFor maps load errors: the sheet being unreachable is a bad gateway,
// anything else an internal error.
func statusFor(err error) int {
	if errors.Is(err, sheet.ErrFetch) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func toProduct(p models.Product) Product {
	out := Product{
		ID:                p.ID,
		Name:              p.Name,
		Taste:             p.Taste,
		Calories:          p.Calories,
		Protein:           p.Protein,
		Fat:               p.Fat,
		Carbs:             p.Carbs,
		TotalMacros:       p.TotalMacros,
		LabTested:         p.LabTested,
		Links:             p.Links,
		Tag:               string(p.Tag),
		ProteinPerCalorie: p.ProteinPerCalorie,
		ProteinRatio:      p.ProteinRatio,
		FatRatio:          p.FatRatio,
		CarbsRatio:        p.CarbsRatio,
		IsLowCarb:         p.IsLowCarb,
		IsHighProtein:     p.IsHighProtein,
	}
	if p.Price.Valid {
		price := p.Price.Decimal.InexactFloat64()
		out.Price = &price
	}
	if p.Similarity != nil {
		s := *p.Similarity
		out.Similarity = &s
	}
	if out.Links == nil {
		out.Links = []string{}
	}
	return out
}
