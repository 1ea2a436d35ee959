package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-cloud/internal/audit"
	"rental-cloud/internal/auth"
	leasingapp "rental-cloud/internal/leasing/application"
	leasing "rental-cloud/internal/leasing/domain"
	"rental-cloud/internal/money"
	"rental-cloud/internal/observability/metrics"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// LeaseHandler handles lease and ledger APIs.
type LeaseHandler struct {
	leases      *leasingapp.LeaseService
	ledgers     *leasingapp.LedgerService
	currency    string
	auditLogger audit.Logger
}

// NewLeaseHandler constructs a handler.
func NewLeaseHandler(leases *leasingapp.LeaseService, ledgers *leasingapp.LedgerService, currency string, auditLogger audit.Logger) (*LeaseHandler, error) {
	if leases == nil {
		return nil, errors.New("lease handler: nil lease service")
	}
	if ledgers == nil {
		return nil, errors.New("lease handler: nil ledger service")
	}
	return &LeaseHandler{leases: leases, ledgers: ledgers, currency: currency, auditLogger: auditLogger}, nil
}

// ServeHTTP handles lease routes under /api/v1/leases.
func (h *LeaseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/leases" && r.Method == http.MethodPost {
		h.handleCreate(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/leases/") {
		rest := strings.TrimPrefix(path, "/api/v1/leases/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *LeaseHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 2 {
		switch parts[1] {
		case "payments":
			if r.Method == http.MethodPost {
				h.handleRecordPayment(w, r, id)
				return
			}
		case "revisions":
			if r.Method == http.MethodPost {
				h.handleReviseRent(w, r, id)
				return
			}
		case "ledger":
			if r.Method == http.MethodGet {
				h.handleLedger(w, r, id)
				return
			}
		case "receipt.pdf":
			if r.Method == http.MethodGet {
				h.handleReceipt(w, r, id)
				return
			}
		}
	}
	if len(parts) == 3 && parts[1] == "ledger" && r.Method == http.MethodGet {
		switch parts[2] {
		case "export.pdf":
			h.handleLedgerExport(w, r, id, "pdf")
			return
		case "export.xlsx":
			h.handleLedgerExport(w, r, id, "xlsx")
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *LeaseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PropertyID    string      `json:"property_id"`
		TenantIDs     []string    `json:"tenant_ids"`
		StartDate     string      `json:"start_date"`
		EndDate       string      `json:"end_date"`
		RentAmount    money.Money `json:"rent_amount"`
		ChargesAmount money.Money `json:"charges_amount"`
		PaymentDueDay int         `json:"payment_due_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		endDate = &parsed
	}

	lease, err := h.leases.CreateLease(r.Context(), leasingapp.CreateLeaseInput{
		PropertyID:    req.PropertyID,
		TenantIDs:     req.TenantIDs,
		StartDate:     startDate,
		EndDate:       endDate,
		RentAmount:    req.RentAmount,
		ChargesAmount: req.ChargesAmount,
		PaymentDueDay: req.PaymentDueDay,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(leaseResponse(lease))
	h.logAudit(r, lease.PropertyID, lease.ID, "lease.create", map[string]any{
		"property_id": lease.PropertyID,
		"start_date":  lease.StartDate.Format(dateLayout),
	})
}

func (h *LeaseHandler) handleRecordPayment(w http.ResponseWriter, r *http.Request, leaseID string) {
	var req struct {
		Amount      money.Money `json:"amount"`
		PaymentDate string      `json:"payment_date"`
		Notes       string      `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		http.Error(w, "invalid payment_date", http.StatusBadRequest)
		return
	}

	payment, err := h.leases.RecordPayment(r.Context(), leaseID, req.Amount, paymentDate, req.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"payment_id":   payment.ID,
		"lease_id":     payment.LeaseID,
		"amount":       payment.Amount,
		"payment_date": payment.PaymentDate.Format(dateLayout),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, "", leaseID, "payment.record", map[string]any{
		"amount":       payment.Amount.String(),
		"payment_date": req.PaymentDate,
	})
}

func (h *LeaseHandler) handleReviseRent(w http.ResponseWriter, r *http.Request, leaseID string) {
	var req struct {
		EffectiveDate string      `json:"effective_date"`
		RentAmount    money.Money `json:"rent_amount"`
		ChargesAmount money.Money `json:"charges_amount"`
		Reason        string      `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	effectiveDate, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		http.Error(w, "invalid effective_date", http.StatusBadRequest)
		return
	}

	revision, err := h.leases.ReviseRent(r.Context(), leaseID, effectiveDate, req.RentAmount, req.ChargesAmount, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := map[string]any{
		"revision_id":    revision.ID,
		"lease_id":       revision.LeaseID,
		"effective_date": revision.EffectiveDate.Format(dateLayout),
		"rent_amount":    revision.RentAmount,
		"charges_amount": revision.ChargesAmount,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, "", leaseID, "rent.revise", map[string]any{
		"effective_date": req.EffectiveDate,
		"rent_amount":    revision.RentAmount.String(),
	})
}

func (h *LeaseHandler) handleLedger(w http.ResponseWriter, r *http.Request, leaseID string) {
	referenceDate, err := parseDateQuery(r, "reference_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order, err := parseOrderQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	windowMonths := 0
	if value := r.URL.Query().Get("window_months"); value != "" {
		windowMonths, err = strconv.Atoi(value)
		if err != nil || windowMonths <= 0 {
			http.Error(w, "invalid window_months", http.StatusBadRequest)
			return
		}
	}

	lease, rows, err := h.ledgers.BuildLedgerWindow(r.Context(), leaseID, referenceDate, order, windowMonths)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := struct {
		Lease  any `json:"lease"`
		Months any `json:"months"`
	}{Lease: leaseResponse(lease), Months: ledgerRowsResponse(rows)}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *LeaseHandler) handleLedgerExport(w http.ResponseWriter, r *http.Request, leaseID, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("ledger_"+format, result, time.Since(start))
	}()

	referenceDate, err := parseDateQuery(r, "reference_date")
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lease, rows, err := h.ledgers.BuildLedger(r.Context(), leaseID, referenceDate, leasing.OrderOldestFirst)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	var data []byte
	contentType := "application/pdf"
	if format == "xlsx" {
		data, err = BuildLedgerXLSX(lease, rows, h.currency)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		data, err = BuildLedgerPDF(lease, rows, h.currency)
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export "+format+" error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, lease.PropertyID, lease.ID, "ledger.export", map[string]any{"format": format})
}

func (h *LeaseHandler) handleReceipt(w http.ResponseWriter, r *http.Request, leaseID string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("receipt_pdf", result, time.Since(start))
	}()

	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		result = metrics.ResultError
		http.Error(w, "month is required", http.StatusBadRequest)
		return
	}
	month, err := time.Parse(monthLayout, monthParam)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	// Reconcile through the end of the requested month so the receipt
	// reflects every payment dated inside it.
	referenceDate := month.AddDate(0, 1, 0).AddDate(0, 0, -1)
	lease, rows, err := h.ledgers.BuildLedger(r.Context(), leaseID, referenceDate, leasing.OrderOldestFirst)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	row, found := findMonth(rows, month)
	if !found {
		result = metrics.ResultError
		http.Error(w, "month not in ledger", http.StatusNotFound)
		return
	}
	data, err := BuildReceiptPDF(lease, row, h.currency)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, lease.PropertyID, lease.ID, "receipt.export", map[string]any{"month": monthParam})
}

func (h *LeaseHandler) logAudit(r *http.Request, propertyID, leaseID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	landlordID := auth.LandlordIDFromContext(r.Context())
	if landlordID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		LandlordID:   landlordID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "lease",
		ResourceID:   leaseID,
		PropertyID:   propertyID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func leaseResponse(lease *leasing.Lease) map[string]any {
	resp := map[string]any{
		"lease_id":        lease.ID,
		"property_id":     lease.PropertyID,
		"tenant_ids":      lease.TenantIDs,
		"start_date":      lease.StartDate.Format(dateLayout),
		"rent_amount":     lease.RentAmount,
		"charges_amount":  lease.ChargesAmount,
		"payment_due_day": lease.PaymentDueDay,
	}
	if lease.EndDate != nil {
		resp["end_date"] = lease.EndDate.Format(dateLayout)
	}
	return resp
}

func ledgerRowsResponse(rows []leasing.MonthlyLedgerRow) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		payments := make([]map[string]any, 0, len(row.Payments))
		for _, payment := range row.Payments {
			payments = append(payments, map[string]any{
				"payment_id":   payment.ID,
				"amount":       payment.Amount,
				"payment_date": payment.PaymentDate.Format(dateLayout),
				"notes":        payment.Notes,
			})
		}
		out = append(out, map[string]any{
			"month":          row.Month.Format(monthLayout),
			"monthly_rent":   row.MonthlyRent,
			"payments":       payments,
			"total_paid":     row.TotalPaid,
			"balance_before": row.BalanceBefore.StringFixed(2),
			"balance_after":  row.BalanceAfter.StringFixed(2),
			"receipt_type":   string(row.ReceiptType),
		})
	}
	return out
}

func findMonth(rows []leasing.MonthlyLedgerRow, month time.Time) (leasing.MonthlyLedgerRow, bool) {
	target := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, row := range rows {
		if row.Month.Equal(target) {
			return row, true
		}
	}
	return leasing.MonthlyLedgerRow{}, false
}

func parseDateQuery(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New("invalid " + name)
	}
	return parsed, nil
}

func parseOrderQuery(r *http.Request) (leasing.RowOrder, error) {
	value := r.URL.Query().Get("order")
	switch value {
	case "":
		return leasing.OrderOldestFirst, nil
	case string(leasing.OrderOldestFirst):
		return leasing.OrderOldestFirst, nil
	case string(leasing.OrderNewestFirst):
		return leasing.OrderNewestFirst, nil
	default:
		return "", errors.New("invalid order")
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, leasing.ErrLeaseNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
