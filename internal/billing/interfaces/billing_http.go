package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"condo-portal/internal/audit"
	"condo-portal/internal/auth"
	"condo-portal/internal/billing/application"
	billing "condo-portal/internal/billing/domain"
	"condo-portal/internal/observability/metrics"
)

// BillingHandler handles fee configuration, batch generation, ledger and
// export APIs under /api/v1/billing.
type BillingHandler struct {
	config      *application.ConfigService
	batch       *application.BatchService
	ledger      *application.LedgerService
	payments    *application.PaymentService
	auditLogger audit.Logger
}

// NewBillingHandler constructs a handler.
func NewBillingHandler(config *application.ConfigService, batch *application.BatchService, ledger *application.LedgerService, payments *application.PaymentService, auditLogger audit.Logger) (*BillingHandler, error) {
	if config == nil || batch == nil || ledger == nil || payments == nil {
		return nil, errors.New("billing handler: nil service")
	}
	return &BillingHandler{
		config:      config,
		batch:       batch,
		ledger:      ledger,
		payments:    payments,
		auditLogger: auditLogger,
	}, nil
}

// ServeHTTP dispatches billing routes.
func (h *BillingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/billing/config":
		if r.Method == http.MethodPost {
			h.handleSetRate(w, r)
			return
		}
	case "/api/v1/billing/config/current":
		if r.Method == http.MethodGet {
			h.handleCurrentRate(w, r)
			return
		}
	case "/api/v1/billing/config/history":
		if r.Method == http.MethodGet {
			h.handleHistory(w, r)
			return
		}
	case "/api/v1/billing/fees":
		if r.Method == http.MethodGet {
			h.handleListFees(w, r)
			return
		}
	case "/api/v1/billing/fees/generate":
		if r.Method == http.MethodPost {
			h.handleGenerate(w, r)
			return
		}
	case "/api/v1/billing/fees/mark-paid":
		if r.Method == http.MethodPost {
			h.handleMarkPaid(w, r)
			return
		}
	case "/api/v1/billing/fees/export.pdf":
		if r.Method == http.MethodGet {
			h.handleExportPDF(w, r)
			return
		}
	case "/api/v1/billing/fees/export.xlsx":
		if r.Method == http.MethodGet {
			h.handleExportXLSX(w, r)
			return
		}
	case "/api/v1/billing/fees/export.csv":
		if r.Method == http.MethodGet {
			h.handleExportCSV(w, r)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *BillingHandler) handleSetRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		EffectiveDate string          `json:"effective_date"`
		Description   string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		http.Error(w, "effective_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	cfg, err := h.config.SetNewRate(r.Context(), req.Amount, effectiveDate, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(cfg)
	h.logAudit(r, "fee_configuration", cfg.ID.String(), "billing.rate.set", map[string]any{
		"amount":         cfg.Amount.StringFixed(2),
		"effective_date": req.EffectiveDate,
	})
}

func (h *BillingHandler) handleCurrentRate(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.CurrentRate(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if cfg == nil {
		http.Error(w, "no active fee configuration", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cfg)
}

func (h *BillingHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.config.History(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history)
}

func (h *BillingHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month   string           `json:"month"`
		DueDate string           `json:"due_date"`
		Amount  *decimal.Decimal `json:"amount,omitempty"`
		Annual  bool             `json:"annual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	month, err := billing.ParseMonth(req.Month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dueDate time.Time
	if req.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	summary, err := h.batch.GenerateBatch(r.Context(), month, dueDate, req.Amount, req.Annual)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
	action := "billing.batch.generate"
	if req.Annual {
		action = "billing.carne.generate"
	}
	h.logAudit(r, "monthly_fees", req.Month, action, map[string]any{
		"inserted": summary.Inserted,
		"skipped":  summary.Skipped,
		"annual":   req.Annual,
	})
}

func (h *BillingHandler) handleListFees(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFeeFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fees, summary, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := struct {
		Fees    []billing.MonthlyFee  `json:"fees"`
		Summary billing.LedgerSummary `json:"summary"`
	}{Fees: fees, Summary: summary}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *BillingHandler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeeIDs      []uuid.UUID `json:"fee_ids"`
		PaymentDate string      `json:"payment_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		http.Error(w, "payment_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	updated, err := h.payments.MarkPaid(r.Context(), req.FeeIDs, paymentDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"updated": updated})
	h.logAudit(r, "monthly_fees", "", "billing.payment.mark", map[string]any{
		"count":        len(req.FeeIDs),
		"payment_date": req.PaymentDate,
	})
}

func (h *BillingHandler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLedgerExport("pdf", result, time.Since(start))
	}()

	fees, ok := h.exportFees(w, r)
	if !ok {
		result = metrics.ResultError
		return
	}
	data, err := BuildCarnePDF("Monthly Fee Receipts", fees)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, "monthly_fees", "", "billing.ledger.export", map[string]any{"format": "pdf"})
}

func (h *BillingHandler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLedgerExport("xlsx", result, time.Since(start))
	}()

	filter, err := parseFeeFilter(r)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fees, summary, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	data, err := BuildLedgerXLSX(fees, summary)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, "monthly_fees", "", "billing.ledger.export", map[string]any{"format": "xlsx"})
}

func (h *BillingHandler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveLedgerExport("csv", result, time.Since(start))
	}()

	filter, err := parseFeeFilter(r)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fees, _, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="monthly_fees.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := WriteLedgerCSV(w, fees); err != nil {
		result = metrics.ResultError
		return
	}
	h.logAudit(r, "monthly_fees", "", "billing.ledger.export", map[string]any{"format": "csv"})
}

// exportFees loads the filtered ledger for the PDF carnê; it writes the
// error response itself and reports failure via the bool.
func (h *BillingHandler) exportFees(w http.ResponseWriter, r *http.Request) ([]billing.MonthlyFee, bool) {
	filter, err := parseFeeFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	fees, _, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}
	if len(fees) == 0 {
		http.Error(w, "no fees match the filter", http.StatusNotFound)
		return nil, false
	}
	return fees, true
}

func parseFeeFilter(r *http.Request) (billing.FeeFilter, error) {
	var filter billing.FeeFilter
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := billing.ParseMonth(month)
		if err != nil {
			return filter, err
		}
		filter.Month = parsed
	}
	filter.Status = r.URL.Query().Get("status")
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return filter, errors.New("user_id must be a uuid")
		}
		filter.UserID = parsed
	}
	return filter, nil
}

func (h *BillingHandler) logAudit(r *http.Request, resourceType, resourceID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, auth.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, billing.ErrNoCurrentRate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, billing.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, billing.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
