package httpapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/backup"
	"github.com/dmitrijs2005/sampleledger/internal/excel"
	"github.com/gin-gonic/gin"
)

// maxUpload caps import files.
const maxUpload = 20 << 20

func attachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, data)
}

// export downloads the caller's visible records, filtered like the list,
// as xlsx (default) or csv.
func (h *handlers) export(c *gin.Context) {
	records, loaded := h.visible(c)
	if !loaded {
		return
	}
	f, err := parseFilter(c, h.ledger.Vocabulary())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	records = f.Apply(records)
	header := h.ledger.Header(records)
	stamp := h.ledger.Today().Time().Format("20060102")

	switch strings.ToLower(c.DefaultQuery("format", "xlsx")) {
	case "xlsx":
		data, err := h.files.Export(records, header)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		attachment(c, "samples_"+stamp+".xlsx", excel.ContentTypeXLSX, data)
	case "csv":
		data, err := h.files.ExportCSV(records, header)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		attachment(c, "samples_"+stamp+".csv", excel.ContentTypeCSV, data)
	default:
		badRequest(c, "format must be xlsx or csv")
	}
}

func (h *handlers) template(c *gin.Context) {
	data, err := h.files.Template()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	attachment(c, "sample_template.xlsx", excel.ContentTypeXLSX, data)
}

// importFile reads a multipart "file" upload. The extension picks the
// reader: .csv for CSV, anything else is opened as a workbook.
func (h *handlers) importFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	src, err := fh.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer src.Close()

	read := h.files.Import
	if strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		read = h.files.ImportCSV
	}
	rows, err := read(src)
	if err != nil {
		badRequest(c, "cannot read "+fh.Filename+": "+err.Error())
		return
	}

	if !h.requireLoaded(c) {
		return
	}
	res, err := h.ledger.Import(c.Request.Context(), rows, excel.FirstDataRow)
	h.logger.Info(c.Request.Context(), "import", "file", fh.Filename, "rows", res.TotalRows,
		"added", res.SuccessCount, "skipped", res.SkippedCount, "errors", res.ErrorCount)
	h.mutated(c, http.StatusOK, res, err)
}

func (h *handlers) lister() backup.Lister {
	if h.archiver == nil {
		return nil
	}
	return h.archiver
}

func (h *handlers) listBackups(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		badRequest(c, "limit must be a number")
		return
	}
	infos, err := backup.Backups(c.Request.Context(), h.local, h.lister(), limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, infos)
}

type backupResponse struct {
	Key string `json:"key"`
}

func (h *handlers) createBackup(c *gin.Context) {
	if h.archiver == nil {
		h.respondErr(c, backup.ErrDisabled)
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	store := h.ledger.Store()
	key, err := h.archiver.Archive(c.Request.Context(), store.Records(), store.Trash())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	created(c, backupResponse{Key: key})
}

type urlResponse struct {
	URL string `json:"url"`
}

func (h *handlers) backupURL(c *gin.Context) {
	if h.archiver == nil {
		h.respondErr(c, backup.ErrDisabled)
		return
	}
	key := c.Query("key")
	if key == "" {
		badRequest(c, "key is required")
		return
	}
	url, err := h.archiver.PresignGet(c.Request.Context(), key)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, urlResponse{URL: url})
}
