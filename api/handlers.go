/*
handlers.go - HTTP API handlers for the allowance request service

PURPOSE:
  Exposes the per-diem calculation engine and the request workflow via
  REST. Handles HTTP request/response, JSON serialization, and delegates
  to domain logic.

ENDPOINTS:
  Config:
    GET  /api/config                      Calculation parameters + capitals
    PUT  /api/admin/parametros            Update UPM / fuel price (admin)

  Holidays:
    GET    /api/feriados                  List
    POST   /api/feriados                  Create or rename
    POST   /api/feriados/defaults         Seed national holidays for a year
    DELETE /api/feriados/{data}           Remove

  Profile:
    GET  /api/profile                     Caller's profile
    PUT  /api/profile                     Save profile + roles
    GET  /api/roles                       Assignable roles

  Processes:
    POST /api/processos/calcular-preview  Authoritative calculation
    POST /api/processos                   Submit a request
    GET  /api/processos                   List (own, or all for reviewers)
    GET  /api/processos/{id}              Detail
    GET  /api/processos/{id}/historico    Audit trail
    GET  /api/processos/{id}/acoes        Allowed next statuses for caller
    POST /api/processos/{id}/transicao    Workflow transition
    GET  /api/processos/{id}/documento    Summary PDF

ERROR HANDLING:
  Uniform ErrorResponse JSON. Validation failures are 400 with a field
  hint in the message, permission failures 403, unknown ids 404. The
  authoritative calculation never fails on a distance lookup error; it
  returns a degraded result instead.

SEE ALSO:
  - dto.go: Request/response types
  - server.go: Route wiring
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/camara-itapoa/diaria-engine/calc"
	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/document"
	"github.com/camara-itapoa/diaria-engine/logging"
	"github.com/camara-itapoa/diaria-engine/notify"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

const dateLayout = "2006-01-02"

// Handler holds the dependencies for all API handlers.
type Handler struct {
	Store    *sqlite.Store
	Calc     *calc.Service
	Mailer   *notify.Mailer
	Capitals *diaria.CapitalSet
	Now      func() time.Time
}

// NewHandler creates a handler. now may be nil for time.Now.
func NewHandler(store *sqlite.Store, svc *calc.Service, mailer *notify.Mailer, capitals *diaria.CapitalSet, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{Store: store, Calc: svc, Mailer: mailer, Capitals: capitals, Now: now}
}

// =============================================================================
// CONFIG
// =============================================================================

// GetConfig returns the calculation parameters the frontend needs.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	params, err := h.Store.GetParameters(r.Context())
	if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to load parameters", err)
		return
	}

	writeJSON(w, http.StatusOK, ConfigDTO{
		UnitValue: params.UnitValue.StringFixed(2),
		FuelPrice: params.FuelPrice.StringFixed(2),
		Capitals:  h.Capitals.Names(),
	})
}

// UpdateParameters replaces the UPM value and fuel price. Admin only.
func (h *Handler) UpdateParameters(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if !user.hasRole(workflow.RoleAdmin) {
		writeError(w, http.StatusForbidden, "Admin role required", nil)
		return
	}

	var req ParametersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	unitValue, err := decimal.NewFromString(req.UnitValue)
	if err != nil || !unitValue.IsPositive() {
		writeError(w, http.StatusBadRequest, "valor_upm must be a positive decimal", nil)
		return
	}
	fuelPrice, err := decimal.NewFromString(req.FuelPrice)
	if err != nil || fuelPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "preco_gasolina must be a non-negative decimal", nil)
		return
	}

	params := sqlite.Parameters{UnitValue: unitValue, FuelPrice: fuelPrice}
	if err := h.Store.SaveParameters(r.Context(), params); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save parameters", err)
		return
	}

	logging.Info("parameters updated",
		zap.String("upm", unitValue.String()), zap.String("fuel", fuelPrice.String()),
		zap.String("by", user.ID))
	writeJSON(w, http.StatusOK, ParametersRequest{
		UnitValue: params.UnitValue.StringFixed(2),
		FuelPrice: params.FuelPrice.StringFixed(2),
	})
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, HolidayDTO{
			Date: holiday.Date.Format(dateLayout),
			Name: holiday.Name,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "data must be YYYY-MM-DD", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "descricao is required", nil)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), sqlite.Holiday{Date: date, Name: req.Name}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{Date: req.Date, Name: req.Name})
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, chi.URLParam(r, "data"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "data must be YYYY-MM-DD", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDefaultHolidays seeds the national holidays for a year (current year
// when the query parameter is absent).
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be numeric", err)
			return
		}
		year = parsed
	}

	added := 0
	for _, holiday := range diaria.NationalHolidays(year) {
		err := h.Store.SaveHoliday(r.Context(), sqlite.Holiday{
			Date: holiday.Date, Name: holiday.Name,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
			return
		}
		added++
	}

	logging.Info("seeded national holidays", zap.Int("year", year), zap.Int("count", added))
	h.ListHolidays(w, r)
}

// =============================================================================
// PROFILE AND ROLES
// =============================================================================

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	profile, err := h.Store.GetProfile(r.Context(), user.ID)
	if errors.Is(err, sqlite.ErrNotFound) {
		// First access: synthesize from the token so the frontend can
		// prompt for completion.
		writeJSON(w, http.StatusOK, ProfileDTO{
			UserID: user.ID, Name: user.Name, Email: user.Email, Roles: []string{},
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile := &sqlite.Profile{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		CPF:      req.CPF,
		Position: req.Position,
	}
	for _, slug := range req.Roles {
		role := workflow.Role(slug)
		if !validRole(role) {
			writeError(w, http.StatusBadRequest, "Unknown role: "+slug, nil)
			return
		}
		profile.Roles = append(profile.Roles, role)
	}

	if err := h.Store.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	dtos := make([]RoleDTO, 0)
	for _, role := range workflow.AllRoles() {
		dtos = append(dtos, RoleDTO{Slug: string(role), Label: roleLabel(role)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CALCULATION PREVIEW
// =============================================================================

// CalculatePreview runs the authoritative calculation without persisting
// anything. The frontend reconciles its local figures against this.
func (h *Handler) CalculatePreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	departure, ret, err := parseTripDates(req.Departure, req.Return)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Calc.Calculate(r.Context(), calc.Request{
		Departure:     departure,
		Return:        ret,
		Destination:   req.Destination,
		Components:    componentsFromDTO(req.Components),
		Transport:     diaria.TransportMode(req.Transport),
		DiemType:      diaria.DiemType(req.DiemType),
		AdvanceTravel: req.AdvanceTravel,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, previewToDTO(departure, ret, req.DiemType, result))
}

// =============================================================================
// PROCESSES
// =============================================================================

// SubmitProcess validates and persists a new allowance request, generates
// its document, and notifies the requester.
func (h *Handler) SubmitProcess(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req SubmitProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Objective == "" {
		writeError(w, http.StatusBadRequest, "objetivo is required", nil)
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "destino is required", nil)
		return
	}
	departure, ret, err := parseTripDates(req.Departure, req.Return)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	transport := diaria.TransportMode(req.Transport)
	if transport == diaria.OwnVehicle && req.VehiclePlate == "" {
		writeError(w, http.StatusBadRequest, "placa_veiculo is required for own vehicle", nil)
		return
	}
	if req.AdvanceTravel && req.AdvanceJustification == "" {
		writeError(w, http.StatusBadRequest, "justificativa_antecipacao is required for advance travel", nil)
		return
	}

	diemType := diaria.DiemType(req.DiemType)
	dates := diaria.TripDates{Departure: departure, Return: ret}
	if diaria.NormalizeChoice(dates.NumberOfDiems(), diemType).Pending() {
		writeError(w, http.StatusBadRequest,
			"tipo_diaria COM_PERNOITE is not valid for a one-day trip", nil)
		return
	}

	result, err := h.Calc.Calculate(r.Context(), calc.Request{
		Departure:     departure,
		Return:        ret,
		Destination:   req.Destination,
		Components:    componentsFromDTO(req.Components),
		Transport:     transport,
		DiemType:      diemType,
		AdvanceTravel: req.AdvanceTravel,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	// Air-ticket trips carry the 10-day requirement even when the
	// transport mode itself is not AEREO.
	deadline := result.Deadline
	if req.AirTickets && transport != diaria.Air {
		calendar, calErr := h.Store.HolidayCalendar(r.Context())
		if calErr != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load calendar", calErr)
			return
		}
		deadline = diaria.AssessDeadline(h.Now(), departure, diaria.Air, calendar)
	}
	if !deadline.Sufficient && req.DeadlineJustification == "" {
		writeError(w, http.StatusBadRequest,
			"justificativa_prazo is required when the notice period is insufficient", nil)
		return
	}

	fee := decimal.Zero
	if req.RegistrationFeeRequested {
		if fee, err = decimal.NewFromString(req.RegistrationFee); err != nil || fee.IsNegative() {
			writeError(w, http.StatusBadRequest, "valor_inscricao must be a non-negative decimal", nil)
			return
		}
	}

	p := &workflow.Process{
		Status:         workflow.StatusAdminReview,
		RequesterID:    user.ID,
		RequesterName:  user.Name,
		RequesterEmail: user.Email,

		Objective:    req.Objective,
		Destination:  req.Destination,
		Region:       result.Region,
		Departure:    departure,
		Return:       ret,
		Transport:    transport,
		VehiclePlate: req.VehiclePlate,
		AirTickets:   req.AirTickets,

		DiemType:      diemType,
		AdvanceTravel: req.AdvanceTravel,

		AdvanceJustification:  req.AdvanceJustification,
		DeadlineJustification: req.DeadlineJustification,

		RegistrationFeeRequested: req.RegistrationFeeRequested,
		DistanceKm:               result.DistanceKm,
		TotalDiemValue:           result.Calculation.TotalDiemValue,
		TravelReimbursement:      result.Calculation.TravelReimbursement,
		RegistrationFee:          fee,
		TotalToCommit:            h.Calc.TotalToCommit(result, fee, req.RegistrationFeeRequested),
	}

	if _, err := h.Store.CreateProcess(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create process", err)
		return
	}

	// Receipt email is best-effort; the submission already succeeded.
	pdf, pdfErr := document.Render(p)
	if pdfErr != nil {
		logging.Warn("failed to render submission PDF", zap.Int64("processo", p.ID), zap.Error(pdfErr))
		pdf = nil
	}
	if err := h.Mailer.SendSubmissionReceipt(p, pdf); err != nil {
		logging.Warn("failed to send submission receipt", zap.Int64("processo", p.ID), zap.Error(err))
	}

	logging.Info("process submitted",
		zap.Int64("processo", p.ID), zap.String("solicitante", user.ID),
		zap.String("destino", p.Destination))
	writeJSON(w, http.StatusCreated, processToDTO(p))
}

// ListProcesses returns the caller's processes, or every process when the
// caller reviews them (internal control, admin, accounting, payment or
// signature roles).
func (h *Handler) ListProcesses(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	requesterFilter := user.ID
	if h.isReviewer(r, user) {
		requesterFilter = ""
	}

	processes, err := h.Store.ListProcesses(r.Context(), requesterFilter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list processes", err)
		return
	}

	dtos := make([]ProcessDTO, 0, len(processes))
	for _, p := range processes {
		dtos = append(dtos, processToDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProcess(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProcess(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, processToDTO(p))
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProcess(w, r)
	if !ok {
		return
	}

	history, err := h.Store.ListHistory(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}

	dtos := make([]HistoryEntryDTO, 0, len(history))
	for _, e := range history {
		dto := HistoryEntryDTO{
			From:       string(e.From),
			To:         string(e.To),
			ToLabel:    e.To.Label(),
			ActorID:    e.ActorID,
			Note:       e.Note,
			OccurredAt: e.OccurredAt,
		}
		if e.From != "" {
			dto.FromLabel = e.From.Label()
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetActions returns the statuses the caller may move the process to.
func (h *Handler) GetActions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProcess(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	actor := h.actorFor(r, user, p)
	dtos := make([]RoleDTO, 0)
	for _, status := range workflow.AllowedTransitions(p.Status, actor) {
		dtos = append(dtos, RoleDTO{Slug: string(status), Label: status.Label()})
	}
	writeJSON(w, http.StatusOK, ActionsDTO{Actions: dtos})
}

// TransitionProcess moves a process through the workflow.
func (h *Handler) TransitionProcess(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProcess(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	target := workflow.Status(req.Target)
	if !target.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown status: "+req.Target, nil)
		return
	}

	actor := h.actorFor(r, user, p)
	entry, err := workflow.Transition(p.Status, target, actor, req.Note, h.Now())
	if err != nil {
		var invalid *workflow.InvalidTransitionError
		var denied *workflow.PermissionError
		switch {
		case errors.As(err, &invalid):
			writeError(w, http.StatusBadRequest, "Invalid transition", err)
		case errors.As(err, &denied):
			writeError(w, http.StatusForbidden, "No permission for this step", err)
		default:
			writeError(w, http.StatusInternalServerError, "Transition failed", err)
		}
		return
	}

	if err := h.Store.UpdateProcessStatus(r.Context(), p.ID, entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist transition", err)
		return
	}
	p.Status = entry.To

	if err := h.Mailer.SendStatusChange(p, entry); err != nil {
		logging.Warn("failed to send status notification",
			zap.Int64("processo", p.ID), zap.Error(err))
	}

	logging.Info("process transitioned",
		zap.Int64("processo", p.ID),
		zap.String("de", string(entry.From)), zap.String("para", string(entry.To)),
		zap.String("por", user.ID))
	writeJSON(w, http.StatusOK, processToDTO(p))
}

// GetDocument streams the summary PDF.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProcess(w, r)
	if !ok {
		return
	}

	pdf, err := document.Render(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render document", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		"attachment; filename=\"processo-"+strconv.FormatInt(p.ID, 10)+".pdf\"")
	w.Write(pdf)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadProcess(w http.ResponseWriter, r *http.Request) (*workflow.Process, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid process id", err)
		return nil, false
	}

	p, err := h.Store.GetProcess(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Process not found", nil)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load process", err)
		return nil, false
	}

	// Requesters only see their own processes; reviewers see all.
	user := UserFromContext(r.Context())
	if p.RequesterID != user.ID && !h.isReviewer(r, user) {
		writeError(w, http.StatusNotFound, "Process not found", nil)
		return nil, false
	}
	return p, true
}

// actorFor merges token roles with stored profile roles.
func (h *Handler) actorFor(r *http.Request, user *AuthenticatedUser, p *workflow.Process) workflow.Actor {
	actor := workflow.Actor{
		UserID:      user.ID,
		Roles:       user.Roles,
		IsRequester: p.RequesterID == user.ID,
	}
	if profile, err := h.Store.GetProfile(r.Context(), user.ID); err == nil {
		actor.Roles = append(actor.Roles, profile.Roles...)
	}
	return actor
}

func (h *Handler) isReviewer(r *http.Request, user *AuthenticatedUser) bool {
	roles := user.Roles
	if profile, err := h.Store.GetProfile(r.Context(), user.ID); err == nil {
		roles = append(roles, profile.Roles...)
	}
	for _, role := range roles {
		if role != workflow.RoleRequester {
			return true
		}
	}
	return false
}

func parseTripDates(departureRaw, returnRaw string) (time.Time, time.Time, error) {
	departure, err := time.Parse(dateLayout, departureRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("data_saida must be YYYY-MM-DD")
	}
	ret, err := time.Parse(dateLayout, returnRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("data_retorno must be YYYY-MM-DD")
	}
	if ret.Before(departure) {
		return time.Time{}, time.Time{}, errors.New("data_retorno must not precede data_saida")
	}
	return departure, ret, nil
}

func previewToDTO(departure, ret time.Time, diemType string, result calc.Result) PreviewResponse {
	dates := diaria.TripDates{Departure: departure, Return: ret}
	pending := diaria.NormalizeChoice(dates.NumberOfDiems(), diaria.DiemType(diemType)).Pending()

	resp := PreviewResponse{
		Region:           string(result.Region),
		NumberOfDiems:    dates.NumberOfDiems(),
		PendingChoice:    pending,
		WithOvernight:    categoryToDTO(result.Calculation.WithOvernight),
		WithoutOvernight: categoryToDTO(result.Calculation.WithoutOvernight),
		HalfDay:          categoryToDTO(result.Calculation.HalfDay),
		TotalDiemValue:   result.Calculation.TotalDiemValue.StringFixed(2),
		DistanceKm:       result.DistanceKm,
		Reimbursement:    result.Calculation.TravelReimbursement.StringFixed(2),
		GrandTotal:       result.Calculation.GrandTotal.StringFixed(2),
		Degraded:         result.Degraded,

		DeadlineSufficient: result.Deadline.Sufficient,
		RequiredDays:       result.Deadline.RequiredBusinessDays,
		AvailableDays:      result.Deadline.BusinessDaysAvailable,

		TotalFormatted: diaria.FormatCurrency(result.Calculation.GrandTotal),
	}
	if !result.Deadline.EarliestAllowed.IsZero() {
		resp.EarliestAllowed = result.Deadline.EarliestAllowed.Format(dateLayout)
	}
	return resp
}

func profileToDTO(p *sqlite.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserID:   p.UserID,
		Name:     p.Name,
		Email:    p.Email,
		CPF:      p.CPF,
		Position: p.Position,
		Roles:    []string{},
	}
	for _, r := range p.Roles {
		dto.Roles = append(dto.Roles, string(r))
	}
	return dto
}

func validRole(role workflow.Role) bool {
	for _, r := range workflow.AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

func roleLabel(role workflow.Role) string {
	switch role {
	case workflow.RoleInternalControl:
		return "Controle Interno"
	case workflow.RoleAdmin:
		return "Administração"
	case workflow.RoleSignature:
		return "Assinatura"
	case workflow.RoleRequester:
		return "Solicitante"
	case workflow.RoleAccounting:
		return "Contabilidade"
	case workflow.RolePayment:
		return "Pagamento"
	default:
		return string(role)
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
