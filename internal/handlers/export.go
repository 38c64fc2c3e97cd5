package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plushify/plushify-api/internal/audit"
	domainsub "github.com/plushify/plushify-api/internal/domain/subscription"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/infra/storage"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/middleware"
)

// Exporter encodes a record set and either streams it as an attachment or
// archives it in object storage (?archive=true) and answers a download link.
type Exporter struct {
	store   storage.ObjectStore
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

// store may be nil when object storage is not configured.
func NewExporter(store storage.ObjectStore, audit *audit.Dispatcher, m *metrics.Metrics) *Exporter {
	return &Exporter{store: store, audit: audit, metrics: m, now: time.Now}
}

type archivedExport struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Records  int    `json:"records"`
}

// ExportFeature is the plan feature an export request needs.
func ExportFeature(c *gin.Context) domainsub.Feature {
	if boolQuery(c, "archive") {
		return domainsub.FeatureArchive
	}
	if f, err := export.ParseFormat(c.Query("format")); err == nil && f.Rich() {
		return domainsub.FeatureRichExport
	}
	return domainsub.FeatureBasicExport
}

func sendExport[T export.Exportable](
	c *gin.Context,
	ex *Exporter,
	entity string,
	title string,
	records []T,
	opts export.Options,
) {
	f, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, err, "export_failed")
		return
	}

	started := time.Now()
	now := ex.now()
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = now
	}
	opts.BOM = opts.BOM || boolQuery(c, "bom")

	var buf bytes.Buffer
	if err := export.Encode(&buf, f, title, records, opts); err != nil {
		respondError(c, err, "export_failed")
		return
	}

	filename := export.Filename(entity, f, now)
	businessID := middleware.BusinessID(c)
	userID := middleware.UserID(c)
	archive := boolQuery(c, "archive")

	var url string
	if archive {
		if ex.store == nil {
			storageUnavailable(c)
			return
		}
		key := storage.Key("exports", businessID, now, "."+string(f))
		if err := ex.store.Put(c.Request.Context(), key, f.ContentType(), buf.Bytes()); err != nil {
			if errors.Is(err, storage.ErrDisabled) {
				storageUnavailable(c)
				return
			}
			respondError(c, err, "archive_failed")
			return
		}
		if url, err = ex.store.PresignGet(c.Request.Context(), key); err != nil {
			respondError(c, err, "archive_failed")
			return
		}
	}

	ex.metrics.ExportGenerated(entity, string(f), time.Since(started))
	ex.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     audit.ActionExport,
		Entity:     entity,
		Metadata: map[string]any{
			"format":   f,
			"records":  len(records),
			"archived": archive,
		},
	})

	if archive {
		c.JSON(http.StatusOK, archivedExport{Filename: filename, URL: url, Records: len(records)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

func storageUnavailable(c *gin.Context) {
	httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", businessMessage("storage_unavailable"))
}
