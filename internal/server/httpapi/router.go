// Package httpapi serves the ledger over JSON/HTTP with gin.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/backup"
	"github.com/dmitrijs2005/sampleledger/internal/excel"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/gin-gonic/gin"
)

// Archiver stores and lists backup archives. *backup.S3Archiver
// implements it.
type Archiver interface {
	Archive(ctx context.Context, records []ledger.Record, trash []ledger.TrashEntry) (string, error)
	List(ctx context.Context, limit int) ([]backup.Info, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// Deps are the services the routes call. Archiver and Local may be nil.
type Deps struct {
	Ledger      *ledger.Reconciler
	Auth        *auth.Service
	Files       excel.Codec
	Local       backup.LocalInfo
	Archiver    Archiver
	CORSOrigins []string
	Logger      logging.Logger
}

type handlers struct {
	ledger   *ledger.Reconciler
	auth     *auth.Service
	files    excel.Codec
	local    backup.LocalInfo
	archiver Archiver
	logger   logging.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	h := &handlers{
		ledger:   d.Ledger,
		auth:     d.Auth,
		files:    d.Files,
		local:    d.Local,
		archiver: d.Archiver,
		logger:   logger.With("module", "http"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), withRequestID(), h.logRequests())
	useCORS(r, d.CORSOrigins)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.login)

	authed := api.Group("", h.authRequired())
	{
		authed.POST("/logout", h.logout)
		authed.GET("/me", h.me)

		authed.GET("/records", h.listRecords)
		authed.GET("/records/:no", h.getRecord)
		authed.POST("/records", h.submit)
		authed.GET("/summary", h.summary)
		authed.GET("/export", h.export)
		authed.GET("/template", h.template)
	}

	admin := authed.Group("", adminOnly())
	{
		admin.PUT("/records", h.applyEdits)
		admin.POST("/records/delete", h.deleteRecords)
		admin.POST("/records/bulk/ship-date", h.bulkShipDate)
		admin.POST("/records/bulk/material-prep", h.bulkMaterialPrep)
		admin.POST("/records/bulk/status", h.bulkStatus)

		admin.GET("/trash", h.listTrash)
		admin.POST("/trash/:no/restore", h.restore)
		admin.POST("/trash/purge", h.purge)
		admin.DELETE("/trash", h.emptyTrash)

		admin.POST("/refresh", h.refresh)
		admin.POST("/import", h.importFile)

		admin.GET("/backups", h.listBackups)
		admin.POST("/backups", h.createBackup)
		admin.GET("/backups/url", h.backupURL)
	}

	return r
}
