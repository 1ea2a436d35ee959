package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rental-cloud/internal/audit"
	"rental-cloud/internal/auth"
	chargesapp "rental-cloud/internal/charges/application"
	charges "rental-cloud/internal/charges/domain"
	"rental-cloud/internal/money"
	"rental-cloud/internal/observability/metrics"
)

const dateLayout = "2006-01-02"

// PropertyChargeHandler handles settlement, charge share, and water
// reading routes under /api/v1/properties.
type PropertyChargeHandler struct {
	settlements *chargesapp.SettlementService
	inputs      *chargesapp.ChargeService
	shares      charges.ChargeShareRepository
	readings    charges.WaterReadingRepository
	currency    string
	auditLogger audit.Logger
}

// NewPropertyChargeHandler constructs a handler.
func NewPropertyChargeHandler(
	settlements *chargesapp.SettlementService,
	inputs *chargesapp.ChargeService,
	shares charges.ChargeShareRepository,
	readings charges.WaterReadingRepository,
	currency string,
	auditLogger audit.Logger,
) (*PropertyChargeHandler, error) {
	if settlements == nil {
		return nil, errors.New("property charge handler: nil settlement service")
	}
	if inputs == nil {
		return nil, errors.New("property charge handler: nil charge service")
	}
	if shares == nil {
		return nil, errors.New("property charge handler: nil share repository")
	}
	if readings == nil {
		return nil, errors.New("property charge handler: nil reading repository")
	}
	return &PropertyChargeHandler{
		settlements: settlements,
		inputs:      inputs,
		shares:      shares,
		readings:    readings,
		currency:    currency,
		auditLogger: auditLogger,
	}, nil
}

// ServeHTTP handles property routes under /api/v1/properties.
func (h *PropertyChargeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if !strings.HasPrefix(path, "/api/v1/properties/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rest := strings.TrimPrefix(path, "/api/v1/properties/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		switch parts[1] {
		case "settlement":
			if r.Method == http.MethodPost {
				h.handleSettle(w, r, id)
				return
			}
		case "charge-shares":
			switch r.Method {
			case http.MethodGet:
				h.handleListShares(w, r, id)
				return
			case http.MethodPut, http.MethodPost:
				h.handleUpsertShare(w, r, id)
				return
			}
		case "water-readings":
			switch r.Method {
			case http.MethodGet:
				h.handleListReadings(w, r, id)
				return
			case http.MethodPost:
				h.handleRecordReading(w, r, id)
				return
			}
		}
	}
	if len(parts) == 3 && parts[1] == "settlement" && r.Method == http.MethodGet {
		switch parts[2] {
		case "export.pdf":
			h.handleSettlementExport(w, r, id, "pdf")
			return
		case "export.xlsx":
			h.handleSettlementExport(w, r, id, "xlsx")
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *PropertyChargeHandler) handleSettle(w http.ResponseWriter, r *http.Request, propertyID string) {
	var req struct {
		ProvisionalPaid *money.Money `json:"provisional_paid"`
		ReferenceDate   string       `json:"reference_date"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	var referenceDate time.Time
	if req.ReferenceDate != "" {
		parsed, err := time.Parse(dateLayout, req.ReferenceDate)
		if err != nil {
			http.Error(w, "invalid reference_date", http.StatusBadRequest)
			return
		}
		referenceDate = parsed
	}

	result, err := h.settlements.Settle(r.Context(), propertyID, req.ProvisionalPaid, referenceDate)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settlementResponse(result))
	h.logAudit(r, propertyID, "settlement.run", map[string]any{
		"reference_date": req.ReferenceDate,
		"warnings":       len(result.Warnings),
	})
}

func (h *PropertyChargeHandler) handleSettlementExport(w http.ResponseWriter, r *http.Request, propertyID, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("settlement_"+format, result, time.Since(start))
	}()

	var referenceDate time.Time
	if value := r.URL.Query().Get("reference_date"); value != "" {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			result = metrics.ResultError
			http.Error(w, "invalid reference_date", http.StatusBadRequest)
			return
		}
		referenceDate = parsed
	}
	var provisional *money.Money
	if value := r.URL.Query().Get("provisional_paid"); value != "" {
		parsed, err := money.Parse(value)
		if err != nil {
			result = metrics.ResultError
			http.Error(w, "invalid provisional_paid", http.StatusBadRequest)
			return
		}
		provisional = &parsed
	}

	settlement, err := h.settlements.Settle(r.Context(), propertyID, provisional, referenceDate)
	if err != nil {
		result = metrics.ResultError
		respondChargeError(w, err)
		return
	}

	var data []byte
	contentType := "application/pdf"
	if format == "xlsx" {
		data, err = BuildSettlementXLSX(settlement, h.currency)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		data, err = BuildSettlementPDF(settlement, h.currency)
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export "+format+" error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, propertyID, "settlement.export", map[string]any{"format": format})
}

func (h *PropertyChargeHandler) handleUpsertShare(w http.ResponseWriter, r *http.Request, propertyID string) {
	var req struct {
		Category   string `json:"category"`
		Percentage string `json:"percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	percentage, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		http.Error(w, "invalid percentage", http.StatusBadRequest)
		return
	}

	share, err := h.inputs.UpsertShare(r.Context(), propertyID, charges.Category(req.Category), percentage)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	resp := map[string]any{
		"share_id":    share.ID,
		"property_id": share.PropertyID,
		"category":    string(share.Category),
		"percentage":  share.Percentage.StringFixed(2),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, propertyID, "charge_share.upsert", map[string]any{
		"category":   req.Category,
		"percentage": req.Percentage,
	})
}

func (h *PropertyChargeHandler) handleListShares(w http.ResponseWriter, r *http.Request, propertyID string) {
	shares, err := h.shares.ListForProperty(r.Context(), propertyID)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(shares))
	for _, share := range shares {
		out = append(out, map[string]any{
			"share_id":    share.ID,
			"property_id": share.PropertyID,
			"category":    string(share.Category),
			"percentage":  share.Percentage.StringFixed(2),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *PropertyChargeHandler) handleRecordReading(w http.ResponseWriter, r *http.Request, propertyID string) {
	var req struct {
		ReadingDate  string  `json:"reading_date"`
		MeterReading float64 `json:"meter_reading"`
		DocumentPath string  `json:"document_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	readingDate, err := time.Parse(dateLayout, req.ReadingDate)
	if err != nil {
		http.Error(w, "invalid reading_date", http.StatusBadRequest)
		return
	}

	reading, err := h.inputs.RecordReading(r.Context(), propertyID, readingDate, req.MeterReading, req.DocumentPath)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	resp := map[string]any{
		"reading_id":    reading.ID,
		"property_id":   reading.PropertyID,
		"reading_date":  reading.ReadingDate.Format(dateLayout),
		"meter_reading": reading.MeterReading,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, propertyID, "water_reading.record", map[string]any{
		"reading_date":  req.ReadingDate,
		"meter_reading": req.MeterReading,
	})
}

func (h *PropertyChargeHandler) handleListReadings(w http.ResponseWriter, r *http.Request, propertyID string) {
	readings, err := h.readings.ListForProperty(r.Context(), propertyID)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(readings))
	for _, reading := range readings {
		out = append(out, map[string]any{
			"reading_id":    reading.ID,
			"property_id":   reading.PropertyID,
			"reading_date":  reading.ReadingDate.Format(dateLayout),
			"meter_reading": reading.MeterReading,
			"document_path": reading.DocumentPath,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *PropertyChargeHandler) logAudit(r *http.Request, propertyID, action string, meta map[string]any) {
	logChargeAudit(h.auditLogger, r, "property", propertyID, propertyID, action, meta)
}

func settlementResponse(result charges.SettlementResult) map[string]any {
	categories := make([]map[string]any, 0, len(result.Categories))
	for _, breakdown := range result.Categories {
		entry := map[string]any{
			"category":       string(breakdown.Category),
			"total_amount":   breakdown.TotalAmount,
			"percentage":     breakdown.Percentage.StringFixed(2),
			"property_share": breakdown.PropertyShare.StringFixed(2),
			"method":         string(breakdown.Method),
		}
		if breakdown.Water != nil {
			entry["water"] = map[string]any{
				"property_annual_consumption": breakdown.Water.PropertyAnnualConsumption,
				"building_total_consumption":  breakdown.Water.BuildingTotalConsumption,
				"method":                      string(breakdown.Water.Method),
				"period_start":                breakdown.Water.PeriodStart.Format(dateLayout),
				"period_end":                  breakdown.Water.PeriodEnd.Format(dateLayout),
				"days_between":                breakdown.Water.DaysBetween,
			}
		}
		categories = append(categories, entry)
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return map[string]any{
		"property_id":          result.PropertyID,
		"period_start":         result.PeriodStart.Format(dateLayout),
		"period_end":           result.PeriodEnd.Format(dateLayout),
		"categories":           categories,
		"total_charges_actual": result.TotalChargesActual.StringFixed(2),
		"provisional_paid":     result.ProvisionalPaid,
		"balance":              result.Balance.StringFixed(2),
		"new_monthly_charges":  result.NewMonthlyCharges.StringFixed(2),
		"warnings":             warnings,
	}
}

func respondChargeError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, charges.ErrPropertyNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func logChargeAudit(logger audit.Logger, r *http.Request, resourceType, resourceID, propertyID, action string, meta map[string]any) {
	if logger == nil {
		return
	}
	landlordID := auth.LandlordIDFromContext(r.Context())
	if landlordID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = logger.Log(r.Context(), audit.Entry{
		LandlordID:   landlordID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		PropertyID:   propertyID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}
