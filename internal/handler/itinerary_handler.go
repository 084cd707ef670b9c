package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/prometheus"
)

// ItineraryRequest is the typed form input for itinerary create/update.
// Times are HH:MM; an empty time leaves (or clears) the timestamp.
type ItineraryRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	StartTime   string `form:"start_time"`
	EndTime     string `form:"end_time"`
}

// AddItinerary creates an itinerary entry on an owned trip. Both the start
// and end time of day are anchored on the trip's start date.
func (h *Handler) AddItinerary(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordItineraryOperation("create")

	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	trip, done, err := h.authorizeTrip(c, tripID, "modify")
	if done {
		return err
	}

	var req ItineraryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse itinerary request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", tripPath(trip.ID))
	}
	if req.Title == "" {
		log.Warn("Missing itinerary title", zap.Uint("trip_id", trip.ID))
		return h.flashRedirect(c, "danger", "Title is required.", tripPath(trip.ID))
	}

	start, err := combineClock(trip.StartDate, req.StartTime)
	if err != nil {
		log.Warn("Invalid start time", zap.String("start_time", req.StartTime))
		return h.flashRedirect(c, "danger", "Invalid time format. Use HH:MM.", tripPath(trip.ID))
	}
	end, err := combineClock(trip.StartDate, req.EndTime)
	if err != nil {
		log.Warn("Invalid end time", zap.String("end_time", req.EndTime))
		return h.flashRedirect(c, "danger", "Invalid time format. Use HH:MM.", tripPath(trip.ID))
	}

	itinerary := model.Itinerary{
		TripID:      trip.ID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.DB.Create(&itinerary); result.Error != nil {
		log.Error("Failed to create itinerary", zap.Error(result.Error))
		return h.flashRedirect(c, "danger", "Failed to add itinerary.", tripPath(trip.ID))
	}

	log.Info("Itinerary created",
		zap.Uint("itinerary_id", itinerary.ID),
		zap.Uint("trip_id", trip.ID))
	return h.flashRedirect(c, "success", "Itinerary added.", tripPath(trip.ID))
}

// loadItinerary fetches an itinerary and authorizes through its parent
// trip's owner. When done is true the response has been written.
func (h *Handler) loadItinerary(c echo.Context, action string) (itinerary *model.Itinerary, trip *model.Trip, done bool, err error) {
	log := logger.FromContext(c)

	id, err := parseID(c, "id")
	if err != nil {
		return nil, nil, true, echo.NewHTTPError(http.StatusNotFound, "itinerary not found")
	}

	var it model.Itinerary
	if err := h.DB.First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Itinerary not found", zap.Uint("itinerary_id", id))
			return nil, nil, true, echo.NewHTTPError(http.StatusNotFound, "itinerary not found")
		}
		log.Error("Failed to load itinerary", zap.Error(err))
		return nil, nil, true, err
	}

	t, done, err := h.authorizeTrip(c, it.TripID, action)
	if done {
		return nil, nil, true, err
	}
	return &it, t, false, nil
}

// EditItineraryForm renders the edit form for an itinerary entry.
func (h *Handler) EditItineraryForm(c echo.Context) error {
	itinerary, trip, done, err := h.loadItinerary(c, "modify")
	if done {
		return err
	}
	return h.render(c, "edit_itinerary", "Edit itinerary", map[string]interface{}{
		"Itinerary": itinerary,
		"Trip":      trip,
	})
}

// EditItinerary updates an itinerary entry. An empty time input clears the
// corresponding timestamp; a present one is re-anchored on the trip's
// start date.
func (h *Handler) EditItinerary(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordItineraryOperation("update")

	itinerary, trip, done, err := h.loadItinerary(c, "modify")
	if done {
		return err
	}

	var req ItineraryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse itinerary request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", tripPath(trip.ID))
	}
	if req.Title == "" {
		log.Warn("Missing itinerary title", zap.Uint("itinerary_id", itinerary.ID))
		return h.flashRedirect(c, "danger", "Title is required.", tripPath(trip.ID))
	}

	start, err := combineClock(trip.StartDate, req.StartTime)
	if err != nil {
		log.Warn("Invalid start time", zap.String("start_time", req.StartTime))
		return h.flashRedirect(c, "danger", "Invalid time format. Use HH:MM.", tripPath(trip.ID))
	}
	end, err := combineClock(trip.StartDate, req.EndTime)
	if err != nil {
		log.Warn("Invalid end time", zap.String("end_time", req.EndTime))
		return h.flashRedirect(c, "danger", "Invalid time format. Use HH:MM.", tripPath(trip.ID))
	}

	itinerary.Title = req.Title
	itinerary.Description = req.Description
	itinerary.StartTime = start
	itinerary.EndTime = end

	defer prometheus.TrackDBOperation("update")(time.Now())
	// Save with Select so cleared times are written back as NULL.
	if err := h.DB.Model(itinerary).
		Select("Title", "Description", "StartTime", "EndTime").
		Updates(itinerary).Error; err != nil {
		log.Error("Failed to update itinerary", zap.Uint("itinerary_id", itinerary.ID), zap.Error(err))
		return h.flashRedirect(c, "danger", "Failed to update itinerary.", tripPath(trip.ID))
	}

	log.Info("Itinerary updated", zap.Uint("itinerary_id", itinerary.ID))
	return h.flashRedirect(c, "success", "Itinerary updated.", tripPath(trip.ID))
}

// DeleteItinerary removes an itinerary entry. Files attached to it are not
// cascaded; their rows keep the dangling itinerary reference.
func (h *Handler) DeleteItinerary(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordItineraryOperation("delete")

	itinerary, trip, done, err := h.loadItinerary(c, "modify")
	if done {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.DB.Delete(itinerary).Error; err != nil {
		log.Error("Failed to delete itinerary", zap.Uint("itinerary_id", itinerary.ID), zap.Error(err))
		return h.flashRedirect(c, "danger", "Failed to delete itinerary.", tripPath(trip.ID))
	}

	log.Info("Itinerary deleted", zap.Uint("itinerary_id", itinerary.ID))
	return h.flashRedirect(c, "success", "Itinerary deleted.", tripPath(trip.ID))
}

func tripPath(id uint) string {
	return fmt.Sprintf("/trip/%d", id)
}
