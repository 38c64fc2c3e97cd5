package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/filter"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/infra/imaging"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/report"
	ucInventory "github.com/plushify/plushify-api/internal/usecase/inventory"
)

type ProductHandler struct {
	products *ucInventory.Products
	exporter *Exporter
}

func NewProductHandler(products *ucInventory.Products, exporter *Exporter) *ProductHandler {
	return &ProductHandler{products: products, exporter: exporter}
}

// --------- Requests ---------

type ProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
	Barcode  *string         `json:"barcode"`
	Price    decimal.Decimal `json:"price"`
}

func (r ProductRequest) input() ucInventory.ProductInput {
	return ucInventory.ProductInput{
		Name:     r.Name,
		Category: r.Category,
		Stock:    r.Stock,
		MinStock: r.MinStock,
		Barcode:  r.Barcode,
		Price:    r.Price,
	}
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	products, ok := h.filtered(c, boolQuery(c, "low_stock"))
	if !ok {
		return
	}
	httpresp.List(c, products)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	products, ok := h.filtered(c, true)
	if !ok {
		return
	}
	httpresp.List(c, products)
}

func (h *ProductHandler) Export(c *gin.Context) {
	products, ok := h.filtered(c, boolQuery(c, "low_stock"))
	if !ok {
		return
	}

	sendExport(c, h.exporter, "produtos", "Produtos", products, export.Options{
		Groups: []report.Grouping{report.SubtotalsByCategory(products)},
	})
}

func (h *ProductHandler) filtered(c *gin.Context, lowOnly bool) ([]models.Product, bool) {
	opts, err := filter.ParseOptions(c, nil)
	if err != nil {
		respondError(c, err, "invalid_filter")
		return nil, false
	}

	products, err := h.products.List(c.Request.Context(), middleware.BusinessID(c), opts, lowOnly)
	if err != nil {
		respondError(c, err, "failed_to_list_products")
		return nil, false
	}
	return products, true
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, err := h.products.Create(c.Request.Context(), middleware.BusinessID(c), req.input())
	if err != nil {
		respondError(c, err, "failed_to_create_product")
		return
	}

	httpresp.Created(c, p)
}

// Update never touches stock; use AdjustStock.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, err := h.products.Update(c.Request.Context(), middleware.BusinessID(c), id, req.input())
	if err != nil {
		respondError(c, err, "failed_to_update_product")
		return
	}

	httpresp.OK(c, p)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_quantity", businessMessage("invalid_quantity"))
		return
	}

	p, err := h.products.AdjustStock(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c), id, req.Delta, req.Reason)
	if err != nil {
		respondError(c, err, "failed_to_adjust_stock")
		return
	}

	httpresp.OK(c, p)
}

// UploadImage takes multipart field "image".
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Envie a imagem no campo \"image\".")
		return
	}
	if fh.Size > imaging.MaxUpload {
		respondError(c, httperr.ErrBusiness("image_too_large"), "image_too_large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "failed_to_read_image")
		return
	}
	defer f.Close()

	res, err := h.products.UploadImage(c.Request.Context(), middleware.BusinessID(c), id, f)
	if err != nil {
		respondError(c, err, "failed_to_upload_image")
		return
	}

	httpresp.OK(c, res)
}
