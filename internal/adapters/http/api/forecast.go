package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/skillpulse/internal/domain/forecast"
	"github.com/okian/skillpulse/internal/domain/model"
	"github.com/okian/skillpulse/pkg/logger"
)

const maxBodyBytes = 1 << 16

// ForecastDependencies defines what the forecast handler needs.
type ForecastDependencies interface {
	Forecast(ctx context.Context, skill string, months int) (model.ForecastResult, error)
}

// forecastRequest is the body of POST /v1/skills/forecast.
type forecastRequest struct {
	Skill  string `json:"skill"  validate:"required,max=200"`
	Months int    `json:"months" validate:"min=1,max=24"`
}

// ForecastHandler handles forecast requests.
type ForecastHandler struct {
	deps     ForecastDependencies
	validate *validator.Validate
	logger   logger.Logger
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies, v *validator.Validate, l logger.Logger) *ForecastHandler {
	return &ForecastHandler{deps: deps, validate: v, logger: l}
}

// HandleForecast handles POST and GET /v1/skills/forecast.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast"

	var (
		req forecastRequest
		err error
	)
	switch r.Method {
	case http.MethodPost:
		req, err = decodeForecast(w, r)
	case http.MethodGet:
		req, err = queryForecast(r)
	default:
		http.NotFound(w, r)
		return
	}
	if err == nil {
		req.Skill = strings.TrimSpace(req.Skill)
		err = h.validate.Struct(req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, describe(err)))
		return
	}

	res, err := h.deps.Forecast(r.Context(), req.Skill, req.Months)
	if err != nil {
		fail(r.Context(), w, h.logger, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeForecast(w http.ResponseWriter, r *http.Request) (forecastRequest, error) {
	req := forecastRequest{Months: forecast.DefaultMonths}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid body: %w", err)
	}
	return req, nil
}

func queryForecast(r *http.Request) (forecastRequest, error) {
	months, err := intParam(r, "months", forecast.DefaultMonths, forecast.MinMonths, forecast.MaxMonths)
	if err != nil {
		return forecastRequest{}, err
	}
	return forecastRequest{Skill: r.URL.Query().Get("skill"), Months: months}, nil
}

// describe turns validator errors into a short client message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s violates %s=%s", field, fe.Tag(), fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
