package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/geofence_resolver/internal/config"
	"github.com/shenikar/geofence_resolver/internal/interaction"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/shenikar/geofence_resolver/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	sessionService  service.SessionService
	geofenceService service.GeofenceService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(sessionService service.SessionService, geofenceService service.GeofenceService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		sessionService:  sessionService,
		geofenceService: geofenceService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Create an editing session
// @Description Start a new geofence editing session with the default center and radius. Requires API key.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions [post]
func (h *Handler) createSession(c *gin.Context) {
	log := h.logger.WithField("method", "createSession")

	id, state, err := h.sessionService.CreateSession(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to create session in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{SessionID: id, State: ModelToStateResponse(state)})
}

// @Summary Get session state
// @Description Get the latest published snapshot of a session. Requires API key.
// @Tags Sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id} [get]
func (h *Handler) getSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSession").WithField("id", id)

	state, err := h.sessionService.GetState(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToStateResponse(state))
}

// @Summary Close a session
// @Description Stop a session and release its resources. Requires API key.
// @Tags Sessions
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id} [delete]
func (h *Handler) closeSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "closeSession").WithField("id", id)

	if err := h.sessionService.CloseSession(c.Request.Context(), id); err != nil {
		h.writeError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Edit the address query
// @Description Echo the address text immediately and geocode it after the debounce window. Requires API key.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param address body AddressRequest true "Address text"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/address [put]
func (h *Handler) setAddress(c *gin.Context) {
	var input AddressRequest
	if !h.bind(c, "setAddress", &input) {
		return
	}
	h.apply(c, "setAddress", models.Intent{Kind: models.IntentAddress, Query: input.Query})
}

// @Summary Map click
// @Description Place the marker where the map was clicked. Requires API key.
// @Tags Map
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param pointer body PointerRequest true "Clicked coordinate"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/map/click [post]
func (h *Handler) mapClick(c *gin.Context) {
	h.pointer(c, "mapClick", models.IntentClick)
}

// @Summary Marker drag end
// @Description Move the marker to where the drag ended. Requires API key.
// @Tags Map
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param pointer body PointerRequest true "Drop coordinate"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/map/drag-end [post]
func (h *Handler) mapDragEnd(c *gin.Context) {
	h.pointer(c, "mapDragEnd", models.IntentDragEnd)
}

// @Summary Report a tile load error
// @Description Record a non-fatal map tile failure. Requires API key.
// @Tags Map
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} StateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/map/tile-error [post]
func (h *Handler) mapTileError(c *gin.Context) {
	h.apply(c, "mapTileError", models.Intent{Kind: models.IntentTileLoadError})
}

// @Summary Edit the latitude field
// @Description Set latitude from the numeric field; out-of-range values are clamped, non-numeric text is rejected with a notice. Requires API key.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param value body ValueRequest true "Field text"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/latitude [put]
func (h *Handler) setLatitude(c *gin.Context) {
	h.numeric(c, "setLatitude", models.IntentLatitude)
}

// @Summary Edit the longitude field
// @Description Set longitude from the numeric field; out-of-range values are clamped, non-numeric text is rejected with a notice. Requires API key.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param value body ValueRequest true "Field text"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/longitude [put]
func (h *Handler) setLongitude(c *gin.Context) {
	h.numeric(c, "setLongitude", models.IntentLongitude)
}

// @Summary Edit the radius field
// @Description Set the radius in meters; values outside the configured bounds are clamped. Requires API key.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param value body ValueRequest true "Field text"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/radius [put]
func (h *Handler) setRadius(c *gin.Context) {
	h.numeric(c, "setRadius", models.IntentRadius)
}

// @Summary Move the radius slider
// @Description Set the radius from the slider. Requires API key.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param value body ValueRequest true "Slider value"
// @Success 200 {object} StateResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/radius-slider [put]
func (h *Handler) setRadiusSlider(c *gin.Context) {
	h.numeric(c, "setRadiusSlider", models.IntentRadiusSlider)
}

// @Summary Commit the session as a geofence
// @Description Persist the current center and radius as a named geofence. Requires API key.
// @Tags Geofences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param commit body CommitRequest true "Geofence name"
// @Success 201 {object} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session has no location yet"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id}/commit [post]
func (h *Handler) commitSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var input CommitRequest
	if !h.bind(c, "commitSession", &input) {
		return
	}
	log := h.logger.WithField("method", "commitSession").WithField("id", id)

	geofence, err := h.geofenceService.Commit(c.Request.Context(), id, input.Name)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToGeofenceResponse(geofence))
}

// @Summary Get a list of geofences
// @Description Get a paginated list of committed geofences. Requires API key.
// @Tags Geofences
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} GeofenceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences [get]
func (h *Handler) listGeofences(c *gin.Context) {
	log := h.logger.WithField("method", "listGeofences")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	geofences, err := h.geofenceService.ListGeofences(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list geofences from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToGeofenceResponses(geofences))
}

// @Summary Get geofence by ID
// @Description Get a single committed geofence by its ID. Requires API key.
// @Tags Geofences
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Geofence ID"
// @Success 200 {object} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid geofence ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Geofence not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences/{id} [get]
func (h *Handler) getGeofence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence ID"})
		return
	}
	log := h.logger.WithField("method", "getGeofence").WithField("id", id)

	geofence, err := h.geofenceService.GetGeofence(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToGeofenceResponse(geofence))
}

// @Summary Find geofences containing a point
// @Description Find committed geofences whose radius covers the given location. Requires API key.
// @Tags Geofences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param location body ContainsRequest true "Location"
// @Success 200 {array} GeofenceResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /geofences/contains [post]
func (h *Handler) findContaining(c *gin.Context) {
	var input ContainsRequest
	if !h.bind(c, "findContaining", &input) {
		return
	}
	log := h.logger.WithField("method", "findContaining")

	geofences, err := h.geofenceService.FindContaining(c.Request.Context(), *input.Latitude, *input.Longitude)
	if err != nil {
		log.WithError(err).Error("Failed to find geofences in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToGeofenceResponses(geofences))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) pointer(c *gin.Context, method string, kind models.IntentKind) {
	var input PointerRequest
	if !h.bind(c, method, &input) {
		return
	}
	h.apply(c, method, models.Intent{Kind: kind, Latitude: *input.Latitude, Longitude: *input.Longitude})
}

func (h *Handler) numeric(c *gin.Context, method string, kind models.IntentKind) {
	var input ValueRequest
	if !h.bind(c, method, &input) {
		return
	}
	h.apply(c, method, models.Intent{Kind: kind, Value: ParseNumericField(input.Value)})
}

// apply передаёт намерение в сессию и отвечает полученным снимком
func (h *Handler) apply(c *gin.Context, method string, intent models.Intent) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", method).WithField("id", id)

	state, err := h.sessionService.Apply(c.Request.Context(), id, intent)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToStateResponse(state))
}

func (h *Handler) bind(c *gin.Context, method string, input any) bool {
	log := h.logger.WithField("method", method)
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError отображает ошибки сервисов на HTTP статусы
func (h *Handler) writeError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		log.WithError(err).Warn("Session not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrGeofenceNotFound):
		log.WithError(err).Warn("Geofence not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
	case errors.Is(err, service.ErrNoCoordinate):
		log.WithError(err).Warn("Commit without location")
		c.JSON(http.StatusConflict, gin.H{"error": "session has no location yet"})
	case errors.Is(err, service.ErrUnknownIntent):
		log.WithError(err).Warn("Unknown intent")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown intent"})
	case errors.Is(err, interaction.ErrRouterClosed):
		log.WithError(err).Warn("Session already closed")
		c.JSON(http.StatusGone, gin.H{"error": "session closed"})
	default:
		log.WithError(err).Error("Request failed in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
