package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/httpresp"
	"github.com/plushify/plushify-api/internal/middleware"
	"github.com/plushify/plushify-api/internal/usecase/importer"
)

const maxImportBytes = 10 << 20

type ImportHandler struct {
	tenants  Tenants
	importer *importer.Importer
}

func NewImportHandler(tenants Tenants, im *importer.Importer) *ImportHandler {
	return &ImportHandler{tenants: tenants, importer: im}
}

// ImportFeature is the plan feature needed to import into :entity.
func ImportFeature(c *gin.Context) domainsub.Feature {
	switch importer.Entity(strings.ToLower(c.Param("entity"))) {
	case importer.EntityProducts:
		return domainsub.FeatureInventory
	case importer.EntityExpenses:
		return domainsub.FeatureFinance
	default:
		return domainsub.FeatureClients
	}
}

// Import: POST /me/import/:entity, multipart field "file" or the raw body.
// The format comes from ?format=, else the file extension, else the
// Content-Type.
func (h *ImportHandler) Import(c *gin.Context) {
	entity, err := importer.ParseEntity(c.Param("entity"))
	if err != nil {
		respondError(c, err, "unknown_entity")
		return
	}

	loc, ok := businessLocation(c, h.tenants)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var (
		body io.Reader = c.Request.Body
		name string
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			httperr.BadRequest(c, "missing_file", "Envie o arquivo no campo \"file\".")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err, "failed_to_read_file")
			return
		}
		defer f.Close()
		body, name = f, fh.Filename
	}

	format, err := importFormat(c, name)
	if err != nil {
		respondError(c, err, "unsupported_format")
		return
	}

	res, err := h.importer.Import(c.Request.Context(), middleware.BusinessID(c), middleware.UserID(c), entity, format, body, loc)
	if err != nil {
		respondError(c, err, "import_failed")
		return
	}

	if len(res.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	httpresp.OK(c, res)
}

func importFormat(c *gin.Context, filename string) (export.Format, error) {
	if s := c.Query("format"); s != "" {
		return export.ParseFormat(s)
	}
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return export.ParseFormat(ext)
	}
	if strings.Contains(c.ContentType(), "json") {
		return export.FormatJSON, nil
	}
	return export.FormatCSV, nil
}
