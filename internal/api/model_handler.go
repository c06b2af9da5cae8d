package api

import (
	"net/http"

	"vpaura/backend/internal/interfaces"
	"vpaura/backend/internal/service"
)

// ModelHandler exposes the active model configuration and runtime settings.
type ModelHandler struct {
	models   interfaces.ModelService
	settings interfaces.SettingsService
}

func NewModelHandler(models interfaces.ModelService, settings interfaces.SettingsService) *ModelHandler {
	return &ModelHandler{models: models, settings: settings}
}

// HandleModelInfo godoc
// @Summary      Active model
// @Description  Provider, model, fallback, retry budget and registered workflows.
// @Tags         Models
// @Produce      json
// @Success      200  {object}  service.ModelInfo
// @Router       /v1/models [get]
func (h *ModelHandler) HandleModelInfo(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.models.Info(r.Context()))
}

// HandleGetSettings godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Router       /v1/settings [get]
func (h *ModelHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}

// HandleUpdateSettings godoc
// @Summary      Update settings
// @Description  Stores the settings and applies them to subsequent model calls.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      service.Settings  true  "Settings"
// @Success      200       {object}  service.Settings
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/settings [put]
func (h *ModelHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.Settings
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.settings.Save(r.Context(), &req); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}
