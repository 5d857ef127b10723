/*
handlers.go - HTTP API handlers for the cooperative's books

PURPOSE:
  Exposes the dairy engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Farmers:
    GET    /api/farmers              List all farmers (by farmerNo)
    POST   /api/farmers              Create farmer
    GET    /api/farmers/next-no      Advisory next farmer number
    GET    /api/farmers/{id}         Get farmer
    PUT    /api/farmers/{id}         Update farmer
    DELETE /api/farmers/{id}         Delete farmer (no cascade)
    GET    /api/farmers/{id}/logs    Farmer's logs in ?start=&end=

  Daily logs:
    GET    /api/logs                 All logs, or one date via ?date=
    POST   /api/logs                 Upsert one shift observation
    DELETE /api/logs/{id}            Delete a log

  Advances:
    GET    /api/advances             All advances, or ?farmer_id=
    POST   /api/advances             Record advance (reconciles balance)
    DELETE /api/advances/{id}        Strike advance (reconciles balance)

  Reports:
    GET    /api/reports/statements        JSON statements + grand total
    GET    /api/reports/statements/print  text/plain printable layout

  Calendar:
    GET    /api/calendar/months      BS month names + fixed today

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Duplicate farmer number
  - 500: Store errors
  A failed write claims no partial persistence; the client may retry.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/panchamrit/milkbook/dairy"
	"github.com/panchamrit/milkbook/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      dairy.Store
	Cal        dairy.Calendar
	Reconciler *dairy.Reconciler
	Logger     *zap.Logger
}

// NewHandler creates a new handler with the given store and calendar.
func NewHandler(store dairy.Store, cal dairy.Calendar, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:      store,
		Cal:        cal,
		Reconciler: dairy.NewReconciler(store, logger),
		Logger:     logger,
	}
}

// =============================================================================
// FARMER HANDLERS
// =============================================================================

// ListFarmers returns all farmers ordered by farmer number.
func (h *Handler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.Store.ListFarmers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list farmers", err)
		return
	}

	dtos := make([]FarmerDTO, len(farmers))
	for i, f := range farmers {
		dtos[i] = toFarmerDTO(f)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetFarmer returns a single farmer.
func (h *Handler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	id := dairy.FarmerID(chi.URLParam(r, "id"))
	f, err := h.Store.GetFarmer(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get farmer", err)
		return
	}
	writeJSON(w, http.StatusOK, toFarmerDTO(f))
}

// CreateFarmer creates a farmer, allocating the next farmer number when the
// request leaves it at zero.
func (h *Handler) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	var req SaveFarmerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Farmer name is required", nil)
		return
	}
	if req.FarmerNo < 0 {
		writeError(w, http.StatusBadRequest, "Farmer number must be positive", nil)
		return
	}

	ctx := r.Context()
	farmerNo := req.FarmerNo
	if farmerNo == 0 {
		next, err := dairy.NextFarmerNo(ctx, h.Store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to allocate farmer number", err)
			return
		}
		farmerNo = next
	}

	rate := dairy.DefaultRate
	if req.FixedRate > 0 {
		rate = dairy.Qty(req.FixedRate)
	}

	f := dairy.Farmer{
		FarmerNo:  farmerNo,
		Name:      req.Name,
		FixedRate: rate,
	}
	if err := h.Store.UpsertFarmer(ctx, f); err != nil {
		writeDomainError(w, "Failed to save farmer", err)
		return
	}

	// Read back through the list so the generated id and timestamps are
	// included in the response.
	farmers, err := h.Store.ListFarmers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back farmer", err)
		return
	}
	for _, stored := range farmers {
		if stored.FarmerNo == farmerNo {
			writeJSON(w, http.StatusCreated, toFarmerDTO(stored))
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "Saved farmer missing on read back", nil)
}

// UpdateFarmer replaces a farmer record.
func (h *Handler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id := dairy.FarmerID(chi.URLParam(r, "id"))

	var req SaveFarmerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Farmer name is required", nil)
		return
	}
	if req.FarmerNo <= 0 {
		writeError(w, http.StatusBadRequest, "Farmer number must be positive", nil)
		return
	}

	ctx := r.Context()
	existing, err := h.Store.GetFarmer(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to get farmer", err)
		return
	}

	existing.FarmerNo = req.FarmerNo
	existing.Name = req.Name
	if req.FixedRate > 0 {
		existing.FixedRate = dairy.Qty(req.FixedRate)
	}
	if err := h.Store.UpsertFarmer(ctx, existing); err != nil {
		writeDomainError(w, "Failed to update farmer", err)
		return
	}
	writeJSON(w, http.StatusOK, toFarmerDTO(existing))
}

// DeleteFarmer removes a farmer. The farmer's logs and advances are kept.
func (h *Handler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id := dairy.FarmerID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteFarmer(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete farmer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NextFarmerNo returns the advisory next farmer number.
func (h *Handler) NextFarmerNo(w http.ResponseWriter, r *http.Request) {
	next, err := dairy.NextFarmerNo(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute next farmer number", err)
		return
	}
	writeJSON(w, http.StatusOK, NextFarmerNoDTO{NextFarmerNo: next})
}

// =============================================================================
// DAILY LOG HANDLERS
// =============================================================================

// ListLogs returns all logs, or one date's logs via ?date=.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		logs []dairy.DailyLog
		err  error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		logs, err = h.Store.ListLogsByDate(ctx, date)
	} else {
		logs, err = h.Store.ListLogs(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs", err)
		return
	}

	dtos := make([]LogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = toLogDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListFarmerLogs returns one farmer's logs within ?start=&end=.
func (h *Handler) ListFarmerLogs(w http.ResponseWriter, r *http.Request) {
	id := dairy.FarmerID(chi.URLParam(r, "id"))
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return
	}
	if end < start {
		writeError(w, http.StatusBadRequest, "Invalid range", dairy.ErrInvalidRange)
		return
	}

	logs, err := h.Store.ListLogsByFarmerAndRange(r.Context(), id, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs", err)
		return
	}

	dtos := make([]LogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = toLogDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveLog upserts one shift observation for (date, farmer, shift).
func (h *Handler) SaveLog(w http.ResponseWriter, r *http.Request) {
	var req SaveLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FarmerID == "" {
		writeError(w, http.StatusBadRequest, "Farmer is required", nil)
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "Date is required", nil)
		return
	}
	if !dairy.Shift(req.Shift).Valid() {
		writeError(w, http.StatusBadRequest, "Shift must be morning or evening", nil)
		return
	}
	if req.Milk < 0 || req.Fat < 0 {
		writeError(w, http.StatusBadRequest, "Milk and fat must be non-negative", nil)
		return
	}

	ctx := r.Context()
	farmer, err := h.Store.GetFarmer(ctx, dairy.FarmerID(req.FarmerID))
	if err != nil {
		writeDomainError(w, "Failed to resolve farmer", err)
		return
	}

	stored, err := h.Store.UpsertLog(ctx, dairy.DailyLog{
		Date:     req.Date,
		FarmerID: farmer.ID,
		FarmerNo: farmer.FarmerNo,
		Shift:    dairy.Shift(req.Shift),
		Milk:     dairy.Qty(req.Milk),
		Fat:      dairy.Qty(req.Fat),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save log", err)
		return
	}
	writeJSON(w, http.StatusOK, toLogDTO(stored))
}

// DeleteLog removes one shift observation.
func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id := dairy.LogID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteLog(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete log", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADVANCE HANDLERS
// =============================================================================

// ListAdvances returns all advances, or one farmer's via ?farmer_id=.
func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		advances []dairy.Advance
		err      error
	)
	if farmerID := r.URL.Query().Get("farmer_id"); farmerID != "" {
		advances, err = h.Store.ListAdvancesByFarmer(ctx, dairy.FarmerID(farmerID))
	} else {
		advances, err = h.Store.ListAdvances(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advances", err)
		return
	}

	dtos := make([]AdvanceDTO, len(advances))
	for i, a := range advances {
		dtos[i] = toAdvanceDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdvance records an advance and reconciles the farmer's balance.
func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var req CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FarmerID == "" {
		writeError(w, http.StatusBadRequest, "Farmer is required", nil)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}

	ctx := r.Context()
	farmer, err := h.Store.GetFarmer(ctx, dairy.FarmerID(req.FarmerID))
	if err != nil {
		writeDomainError(w, "Failed to resolve farmer", err)
		return
	}

	date := req.Date
	if date == "" {
		date = h.Cal.Today()
	}

	stored, err := h.Store.InsertAdvance(ctx, dairy.Advance{
		FarmerID: farmer.ID,
		FarmerNo: farmer.FarmerNo,
		Date:     date,
		Amount:   dairy.Qty(req.Amount),
		Remarks:  req.Remarks,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save advance", err)
		return
	}

	// The advance is in; a failed balance persist is logged and healed by
	// the next reconcile, so it does not fail the request.
	balance, _ := h.Reconciler.ReconcileAdvance(ctx, farmer.ID)

	writeJSON(w, http.StatusCreated, AdvanceResponse{
		Advance:    toAdvanceDTO(stored),
		NewBalance: balance.InexactFloat64(),
	})
}

// DeleteAdvance strikes an advance and reconciles the farmer's balance.
func (h *Handler) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id := dairy.AdvanceID(chi.URLParam(r, "id"))
	ctx := r.Context()

	// Resolve the owning farmer before the row disappears.
	advances, err := h.Store.ListAdvances(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve advance", err)
		return
	}
	var farmerID dairy.FarmerID
	for _, a := range advances {
		if a.ID == id {
			farmerID = a.FarmerID
			break
		}
	}
	if farmerID == "" {
		writeError(w, http.StatusNotFound, "Advance not found", dairy.ErrAdvanceNotFound)
		return
	}

	if err := h.Store.DeleteAdvance(ctx, id); err != nil {
		writeDomainError(w, "Failed to delete advance", err)
		return
	}
	h.Reconciler.ReconcileAdvance(ctx, farmerID)

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetStatements builds statements for ?start=&end=&farmer_id=.
func (h *Handler) GetStatements(w http.ResponseWriter, r *http.Request) {
	statements, start, end, ok := h.buildStatements(w, r)
	if !ok {
		return
	}

	dtos := make([]StatementDTO, len(statements))
	for i, s := range statements {
		dtos[i] = toStatementDTO(s)
	}
	writeJSON(w, http.StatusOK, StatementsResponse{
		Start:      start,
		End:        end,
		Statements: dtos,
		GrandTotal: dairy.GrandTotal(statements).InexactFloat64(),
	})
}

// PrintStatements renders the printable text layout of the same report.
func (h *Handler) PrintStatements(w http.ResponseWriter, r *http.Request) {
	statements, start, end, ok := h.buildStatements(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	printer := report.NewPrinter(w)
	if err := printer.PrintAll(statements, start, end); err != nil {
		h.Logger.Error("failed to render printable statements", zap.Error(err))
	}
}

// buildStatements handles the shared fetch+build for both report endpoints.
// On failure it writes the error response and returns ok=false.
func (h *Handler) buildStatements(w http.ResponseWriter, r *http.Request) (statements []dairy.FarmerStatement, start, end string, ok bool) {
	start = r.URL.Query().Get("start")
	end = r.URL.Query().Get("end")
	farmerID := r.URL.Query().Get("farmer_id")

	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return nil, "", "", false
	}
	if end < start {
		writeError(w, http.StatusBadRequest, "Invalid range", dairy.ErrInvalidRange)
		return nil, "", "", false
	}

	ctx := r.Context()

	var farmers []dairy.Farmer
	if farmerID == "" || farmerID == "all" {
		all, err := h.Store.ListFarmers(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list farmers", err)
			return nil, "", "", false
		}
		farmers = all
	} else {
		f, err := h.Store.GetFarmer(ctx, dairy.FarmerID(farmerID))
		if err != nil {
			writeDomainError(w, "Failed to get farmer", err)
			return nil, "", "", false
		}
		farmers = []dairy.Farmer{f}
	}

	logs, err := h.Store.ListLogs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs", err)
		return nil, "", "", false
	}

	return dairy.BuildStatements(farmers, logs, h.Cal, start, end), start, end, true
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns the BS month tables and today's fixed date.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	months := make([]MonthDTO, 12)
	for m := 1; m <= 12; m++ {
		months[m-1] = MonthDTO{
			Index:      m,
			Name:       h.Cal.MonthName(m, false),
			NameNepali: h.Cal.MonthName(m, true),
		}
	}
	writeJSON(w, http.StatusOK, CalendarDTO{Today: h.Cal.Today(), Months: months})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case dairy.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, dairy.ErrDuplicateFarmerNo):
		writeError(w, http.StatusConflict, message, err)
	case dairy.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
