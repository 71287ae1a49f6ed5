package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
)

type StatutoryHandler interface {
	// Tax bands
	GetTaxBands(w http.ResponseWriter, r *http.Request)
	ReplaceTaxBands(w http.ResponseWriter, r *http.Request)

	// SSNIT
	ListSsnitRates(w http.ResponseWriter, r *http.Request)
	CreateSsnitRate(w http.ResponseWriter, r *http.Request)
	EffectiveSsnitRate(w http.ResponseWriter, r *http.Request)

	// Withholding tax
	ListWithholdingRates(w http.ResponseWriter, r *http.Request)
	CreateWithholdingRate(w http.ResponseWriter, r *http.Request)
}

type statutoryHandlerImpl struct {
	statutoryService statutory.Service
}

func NewStatutoryHandler(statutoryService statutory.Service) StatutoryHandler {
	return &statutoryHandlerImpl{statutoryService: statutoryService}
}

// ========== TAX BANDS ==========

func (h *statutoryHandlerImpl) GetTaxBands(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Invalid year parameter", map[string]string{"year": "must be a number"})
		return
	}
	annual, _ := strconv.ParseBool(r.URL.Query().Get("annual"))

	result, err := h.statutoryService.ResolveTaxBands(r.Context(), year, annual)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) ReplaceTaxBands(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year parameter", map[string]string{"year": "must be a number"})
		return
	}

	var req statutory.ReplaceTaxBandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.TaxYear = year

	result, err := h.statutoryService.ReplaceTaxBands(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax bands replaced successfully", result)
}

// ========== SSNIT ==========

func (h *statutoryHandlerImpl) ListSsnitRates(w http.ResponseWriter, r *http.Request) {
	result, err := h.statutoryService.ListSsnitRates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) CreateSsnitRate(w http.ResponseWriter, r *http.Request) {
	var req statutory.CreateSsnitRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.CreateSsnitRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "SSNIT rate created successfully", result)
}

// EffectiveSsnitRate defaults to today when no date is given.
func (h *statutoryHandlerImpl) EffectiveSsnitRate(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := statutory.ParseDate(raw)
		if err != nil {
			response.BadRequest(w, "Invalid date parameter", map[string]string{"date": "must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	result, err := h.statutoryService.EffectiveSsnitRate(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WITHHOLDING ==========

func (h *statutoryHandlerImpl) ListWithholdingRates(w http.ResponseWriter, r *http.Request) {
	result, err := h.statutoryService.ListWithholdingRates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) CreateWithholdingRate(w http.ResponseWriter, r *http.Request) {
	var req statutory.CreateWithholdingRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.CreateWithholdingRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Withholding tax rate created successfully", result)
}
