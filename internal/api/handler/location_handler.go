package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/transferdesk/management-api/internal/core/ports"
)

// LocationHandler handles the administrative location hierarchy.
type LocationHandler struct {
	locationService ports.LocationService
}

func NewLocationHandler(locationService ports.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// Create handles POST /v1/locations.
//
// @Summary      Add a location to the hierarchy
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLocationRequest  true  "Location details"
// @Success      201   {object}  locationResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	var req createLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	l, err := h.locationService.Create(c.Request().Context(), ports.CreateLocationInput{
		Name:     req.Name,
		Code:     req.Code,
		Level:    req.Level,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLocationResponse(l))
}

// Get handles GET /v1/locations/:id.
//
// @Summary      Fetch a location by id
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location id"
// @Success      200  {object}  locationResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/locations/{id} [get]
func (h *LocationHandler) Get(c echo.Context) error {
	l, err := h.locationService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLocationResponse(l))
}

// List handles GET /v1/locations.
//
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        parent_id  query     string  false  "Only direct children of this location"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  locationListResponse
// @Router       /v1/locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}

	locations, total, err := h.locationService.List(c.Request().Context(), c.QueryParam("parent_id"), page, limit)
	if err != nil {
		return err
	}

	out := make([]locationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toLocationResponse(l))
	}
	return c.JSON(http.StatusOK, locationListResponse{Locations: out, Total: total, Page: page})
}

// Update handles PUT /v1/locations/:id.
//
// @Summary      Update a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Location id"
// @Param        body  body      updateLocationRequest  true  "Fields to update"
// @Success      200   {object}  locationResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/locations/{id} [put]
func (h *LocationHandler) Update(c echo.Context) error {
	var req updateLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	l, err := h.locationService.Update(c.Request().Context(), c.Param("id"), ports.UpdateLocationInput{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLocationResponse(l))
}
