package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

// recordView adds the display label and delay flag to a record.
type recordView struct {
	ledger.Record
	StatusLabel string `json:"statusLabel"`
	Delayed     bool   `json:"delayed"`
}

type listResponse struct {
	Records []recordView `json:"records"`
	Total   int          `json:"total"`
}

type trashView struct {
	ledger.TrashEntry
	StatusLabel string `json:"statusLabel"`
}

type nosRequest struct {
	Nos []int64 `json:"nos" binding:"required,min=1"`
}

type shipDateRequest struct {
	Nos  []int64     `json:"nos" binding:"required,min=1"`
	Date ledger.Date `json:"date"`
}

type materialPrepRequest struct {
	Nos  []int64 `json:"nos" binding:"required,min=1"`
	Text string  `json:"text"`
}

type statusRequest struct {
	Nos    []int64 `json:"nos" binding:"required,min=1"`
	Status string  `json:"status" binding:"required"`
}

type editRequest struct {
	Records []ledger.Record `json:"records"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (h *handlers) ensureLoaded(ctx context.Context) error {
	return h.ledger.EnsureLoaded(ctx)
}

// requireLoaded answers the request with the load error and returns false
// when the table cannot be loaded.
func (h *handlers) requireLoaded(c *gin.Context) bool {
	if err := h.ensureLoaded(c.Request.Context()); err != nil {
		h.respondErr(c, err)
		return false
	}
	return true
}

// visible returns the records the caller may see, after the load check.
func (h *handlers) visible(c *gin.Context) ([]ledger.Record, bool) {
	if !h.requireLoaded(c) {
		return nil, false
	}
	return auth.Visible(h.ledger.Store().Records(), principal(c)), true
}

func (h *handlers) view(r ledger.Record, today ledger.Date) recordView {
	return recordView{
		Record:      r,
		StatusLabel: h.ledger.Vocabulary().Label(r.Status),
		Delayed:     ledger.IsDelayed(r, today),
	}
}

func (h *handlers) listRecords(c *gin.Context) {
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

	today := h.ledger.Today()
	out := make([]recordView, 0, len(records))
	for _, r := range records {
		out = append(out, h.view(r, today))
	}
	ok(c, listResponse{Records: out, Total: len(out)})
}

func parseNo(c *gin.Context) (int64, bool) {
	no, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil || no <= 0 {
		badRequest(c, "invalid record number")
		return 0, false
	}
	return no, true
}

func (h *handlers) getRecord(c *gin.Context) {
	no, valid := parseNo(c)
	if !valid {
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	r, found := h.ledger.Store().Get(no)
	if !found || !auth.CanSee(r, principal(c)) {
		h.respondErr(c, ledger.ErrNotFound)
		return
	}
	ok(c, h.view(r, h.ledger.Today()))
}

// submit files a new request. Customers always file for their own
// company.
func (h *handlers) submit(c *gin.Context) {
	var in ledger.Intake
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	p := principal(c)
	if !p.IsAdmin() && p.Company != "" {
		in.Company = p.Company
	}
	if !h.requireLoaded(c) {
		return
	}
	rec, err := h.ledger.Submit(c.Request.Context(), in)
	h.mutated(c, http.StatusCreated, h.view(rec, h.ledger.Today()), err)
}

func (h *handlers) applyEdits(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	rep, err := h.ledger.ApplyEdits(c.Request.Context(), req.Records)
	h.mutated(c, http.StatusOK, rep, err)
}

func (h *handlers) deleteRecords(c *gin.Context) {
	var req nosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nos is required")
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	rep, err := h.ledger.Delete(c.Request.Context(), req.Nos)
	h.mutated(c, http.StatusOK, rep, err)
}

func (h *handlers) bulkShipDate(c *gin.Context) {
	var req shipDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nos is required")
		return
	}
	d := req.Date
	if d.IsZero() {
		d = h.ledger.Today()
	}
	if !h.requireLoaded(c) {
		return
	}
	n, err := h.ledger.SetShipDate(c.Request.Context(), req.Nos, d)
	h.mutated(c, http.StatusOK, countResponse{Count: n}, err)
}

func (h *handlers) bulkMaterialPrep(c *gin.Context) {
	var req materialPrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nos is required")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = h.ledger.Vocabulary().Marker()
	}
	if !h.requireLoaded(c) {
		return
	}
	n, err := h.ledger.SetMaterialPrep(c.Request.Context(), req.Nos, text)
	h.mutated(c, http.StatusOK, countResponse{Count: n}, err)
}

func (h *handlers) bulkStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nos and status are required")
		return
	}
	s, known := h.ledger.Vocabulary().Parse(req.Status)
	if !known {
		s = ledger.Status(req.Status)
	}
	if !h.requireLoaded(c) {
		return
	}
	n, err := h.ledger.ChangeStatus(c.Request.Context(), req.Nos, s)
	h.mutated(c, http.StatusOK, countResponse{Count: n}, err)
}

func (h *handlers) listTrash(c *gin.Context) {
	if !h.requireLoaded(c) {
		return
	}
	trash := h.ledger.Store().Trash()
	out := make([]trashView, 0, len(trash))
	for _, t := range trash {
		out = append(out, trashView{TrashEntry: t, StatusLabel: h.ledger.Vocabulary().Label(t.Status)})
	}
	ok(c, out)
}

func (h *handlers) restore(c *gin.Context) {
	no, valid := parseNo(c)
	if !valid {
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	rec, err := h.ledger.Restore(c.Request.Context(), no)
	h.mutated(c, http.StatusOK, h.view(rec, h.ledger.Today()), err)
}

func (h *handlers) purge(c *gin.Context) {
	var req nosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nos is required")
		return
	}
	if !h.requireLoaded(c) {
		return
	}
	n, err := h.ledger.Purge(c.Request.Context(), req.Nos)
	h.mutated(c, http.StatusOK, countResponse{Count: n}, err)
}

func (h *handlers) emptyTrash(c *gin.Context) {
	if !h.requireLoaded(c) {
		return
	}
	n, err := h.ledger.EmptyTrash(c.Request.Context())
	h.mutated(c, http.StatusOK, countResponse{Count: n}, err)
}

func (h *handlers) summary(c *gin.Context) {
	records, loaded := h.visible(c)
	if !loaded {
		return
	}
	ok(c, ledger.Summarize(records, h.ledger.Today()))
}

type refreshResponse struct {
	ledger.LoadReport
	RemoteError string `json:"remoteError,omitempty"`
	BackupError string `json:"backupError,omitempty"`
}

func (h *handlers) refresh(c *gin.Context) {
	rep, err := h.ledger.Load(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	out := refreshResponse{LoadReport: rep}
	if rep.RemoteErr != nil {
		out.RemoteError = rep.RemoteErr.Error()
	}
	if rep.BackupErr != nil {
		out.BackupError = rep.BackupErr.Error()
	}
	ok(c, out)
}
