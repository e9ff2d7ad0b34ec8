package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService    *service.RouteService
	matchingService *service.MatchingService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService, matchingService *service.MatchingService) *RouteHandler {
	return &RouteHandler{
		routeService:    routeService,
		matchingService: matchingService,
	}
}

// RouteRequest is the HTTP request body for creating or updating a route.
type RouteRequest struct {
	DriverID string  `json:"driverId"`
	Date     string  `json:"date"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Capacity int     `json:"capacity"`
	Cost     float64 `json:"cost"`
}

// FilterRequest is the HTTP request body for searching routes.
type FilterRequest struct {
	Date string `json:"date"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ListByDriver handles GET /routes/:driverId
func (h *RouteHandler) ListByDriver(c *gin.Context) {
	routes, err := h.routeService.ListByDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, routes)
}

// CreateRoute handles POST /routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	fields, ok := h.bindRoute(c)
	if !ok {
		return
	}

	if _, err := h.routeService.Create(c.Request.Context(), fields); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// UpdateRoute handles PUT /routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	fields, ok := h.bindRoute(c)
	if !ok {
		return
	}

	route, err := h.routeService.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, route)
}

// DeleteRoute handles DELETE /routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// FilterRoutes handles POST /routes/filter
func (h *RouteHandler) FilterRoutes(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	routes, err := h.matchingService.Search(c.Request.Context(), domain.RouteQuery{
		Date: date,
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, routes)
}

func (h *RouteHandler) bindRoute(c *gin.Context) (service.RouteFields, bool) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return service.RouteFields{}, false
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return service.RouteFields{}, false
	}

	return service.RouteFields{
		DriverID: req.DriverID,
		Date:     date,
		From:     req.From,
		To:       req.To,
		Capacity: req.Capacity,
		Cost:     req.Cost,
	}, true
}

// parseDate reads a request date in the matching calendar.
func (h *RouteHandler) parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, service.ErrMissingFields
	}
	t, err := domain.ParseDate(value, h.matchingService.Location())
	if err != nil {
		return time.Time{}, service.ErrInvalidDate
	}
	return t, nil
}
