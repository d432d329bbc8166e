package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/service"
	"github.com/staylist/staylist-backend/internal/util"
)

const spotNotFoundMessage = "Spot couldn't be found"

type SpotHandler struct {
	spots *service.SpotService
}

func RegisterSpots(e *echo.Echo, auth *service.AuthService, spots *service.SpotService) {
	handler := &SpotHandler{spots: spots}

	public := e.Group("/api/spots")
	public.GET("", handler.listSpots)
	public.GET("/:spotId", handler.getSpot)

	protected := e.Group("/api/spots", RequireAuth(auth))
	protected.GET("/current", handler.listCurrentSpots)
	protected.POST("", handler.createSpot)
	protected.PUT("/:spotId", handler.updateSpot)
	protected.DELETE("/:spotId", handler.deleteSpot)
	protected.POST("/:spotId/images", handler.addImage)
	protected.POST("/:spotId/images/upload", handler.uploadImage)
}

// listSpots handles GET /api/spots
func (h *SpotHandler) listSpots(c echo.Context) error {
	spots, err := h.spots.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("Unable to list spots", http.StatusInternalServerError))
	}
	return c.JSON(http.StatusOK, util.Data("Spots", spots))
}

// listCurrentSpots handles GET /api/spots/current
func (h *SpotHandler) listCurrentSpots(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spots, err := h.spots.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("Unable to list spots", http.StatusInternalServerError))
	}
	return c.JSON(http.StatusOK, util.Data("Spots", spots))
}

// getSpot handles GET /api/spots/:spotId
func (h *SpotHandler) getSpot(c echo.Context) error {
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}
	detail, err := h.spots.GetDetail(c.Request().Context(), spotID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// createSpot handles POST /api/spots
func (h *SpotHandler) createSpot(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}

	var fields domain.SpotFields
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	spot, err := h.spots.Create(c.Request().Context(), user.ID, fields)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, spot)
}

// updateSpot handles PUT /api/spots/:spotId
func (h *SpotHandler) updateSpot(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	var fields domain.SpotFields
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	spot, err := h.spots.Update(c.Request().Context(), user.ID, spotID, fields)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, spot)
}

// deleteSpot handles DELETE /api/spots/:spotId
func (h *SpotHandler) deleteSpot(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}
	if err := h.spots.Delete(c.Request().Context(), user.ID, spotID); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Successfully deleted", "statusCode": http.StatusOK})
}

// addImage handles POST /api/spots/:spotId/images
func (h *SpotHandler) addImage(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	var req struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	image, err := h.spots.AddImage(c.Request().Context(), user.ID, spotID, req.URL, req.Preview)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, image)
}

// uploadImage handles POST /api/spots/:spotId/images/upload
func (h *SpotHandler) uploadImage(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Image file is required", http.StatusBadRequest))
	}
	preview := c.FormValue("preview") == "true"

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Unable to read image file", http.StatusBadRequest))
	}
	defer src.Close()

	image, err := h.spots.UploadImage(c.Request().Context(), user.ID, spotID, service.SpotImageUpload{
		Reader:      src,
		Size:        file.Size,
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
	}, preview)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, image)
}

func (h *SpotHandler) writeError(c echo.Context, err error) error {
	if verr, ok := service.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, util.ValidationFailed(http.StatusBadRequest, verr.Fields))
	}
	switch {
	case errors.Is(err, service.ErrSpotNotFound):
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	case errors.Is(err, service.ErrSpotImageType), errors.Is(err, service.ErrSpotImageSize):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error(), http.StatusBadRequest))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}
}

func parseSpotID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("spotId"), 10, 64)
}
