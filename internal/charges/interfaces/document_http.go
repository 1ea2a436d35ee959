package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"rental-cloud/internal/audit"
	chargesapp "rental-cloud/internal/charges/application"
	charges "rental-cloud/internal/charges/domain"
	"rental-cloud/internal/money"
)

// BuildingDocumentHandler handles expense document routes under
// /api/v1/buildings.
type BuildingDocumentHandler struct {
	inputs      *chargesapp.ChargeService
	documents   charges.FinancialDocumentRepository
	auditLogger audit.Logger
}

// NewBuildingDocumentHandler constructs a handler.
func NewBuildingDocumentHandler(inputs *chargesapp.ChargeService, documents charges.FinancialDocumentRepository, auditLogger audit.Logger) (*BuildingDocumentHandler, error) {
	if inputs == nil {
		return nil, errors.New("building document handler: nil charge service")
	}
	if documents == nil {
		return nil, errors.New("building document handler: nil document repository")
	}
	return &BuildingDocumentHandler{inputs: inputs, documents: documents, auditLogger: auditLogger}, nil
}

// ServeHTTP handles document routes under /api/v1/buildings.
func (h *BuildingDocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if !strings.HasPrefix(path, "/api/v1/buildings/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rest := strings.TrimPrefix(path, "/api/v1/buildings/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "documents" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodPost:
		h.handleRegister(w, r, id)
	case http.MethodGet:
		h.handleList(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *BuildingDocumentHandler) handleRegister(w http.ResponseWriter, r *http.Request, buildingID string) {
	var req struct {
		Category          string      `json:"category"`
		Date              string      `json:"date"`
		Amount            money.Money `json:"amount"`
		Description       string      `json:"description"`
		DocumentPath      string      `json:"document_path"`
		IncludedInCharges bool        `json:"included_in_charges"`
		WaterConsumption  *float64    `json:"water_consumption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	doc, err := h.inputs.RegisterDocument(r.Context(), chargesapp.RegisterDocumentInput{
		BuildingID:        buildingID,
		Category:          charges.Category(req.Category),
		Date:              date,
		Amount:            req.Amount,
		Description:       req.Description,
		DocumentPath:      req.DocumentPath,
		IncludedInCharges: req.IncludedInCharges,
		WaterConsumption:  req.WaterConsumption,
	})
	if err != nil {
		respondChargeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(documentResponse(doc))
	logChargeAudit(h.auditLogger, r, "financial_document", doc.ID, "", "document.register", map[string]any{
		"building_id": buildingID,
		"category":    req.Category,
		"amount":      doc.Amount.String(),
	})
}

func (h *BuildingDocumentHandler) handleList(w http.ResponseWriter, r *http.Request, buildingID string) {
	docs, err := h.documents.ListForBuilding(r.Context(), buildingID)
	if err != nil {
		respondChargeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(docs))
	for i := range docs {
		out = append(out, documentResponse(&docs[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func documentResponse(doc *charges.FinancialDocument) map[string]any {
	resp := map[string]any{
		"document_id":         doc.ID,
		"building_id":         doc.BuildingID,
		"category":            string(doc.Category),
		"date":                doc.Date.Format(dateLayout),
		"amount":              doc.Amount,
		"description":         doc.Description,
		"document_path":       doc.DocumentPath,
		"included_in_charges": doc.IncludedInCharges,
	}
	if doc.WaterConsumption != nil {
		resp["water_consumption"] = *doc.WaterConsumption
	}
	return resp
}
