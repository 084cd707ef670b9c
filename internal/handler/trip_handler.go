package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/tripplanner/internal/middleware"
	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/prometheus"
)

// TripRequest is the typed form input for trip create/update.
type TripRequest struct {
	Destination string `form:"destination"`
	Notes       string `form:"notes"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
}

// AddTrip creates a trip owned by the session user. Either date failing to
// parse aborts the operation with nothing persisted.
func (h *Handler) AddTrip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTripOperation("create")

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse trip request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", "/dashboard")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		log.Warn("Invalid start date", zap.String("start_date", req.StartDate))
		return h.flashRedirect(c, "danger", "Invalid date format. Use YYYY-MM-DD.", "/dashboard")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		log.Warn("Invalid end date", zap.String("end_date", req.EndDate))
		return h.flashRedirect(c, "danger", "Invalid date format. Use YYYY-MM-DD.", "/dashboard")
	}

	user := middleware.CurrentUser(c)
	trip := model.Trip{
		UserID:      user.ID,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		Notes:       req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.DB.Create(&trip); result.Error != nil {
		log.Error("Failed to create trip", zap.Error(result.Error))
		return h.flashRedirect(c, "danger", "Failed to add trip.", "/dashboard")
	}

	log.Info("Trip created",
		zap.Uint("trip_id", trip.ID),
		zap.String("destination", trip.Destination))
	return h.flashRedirect(c, "success", "Trip added.", "/dashboard")
}

// ViewTrip renders a trip with its itineraries and files. Viewing by id is
// deliberately open: no session or ownership is required.
func (h *Handler) ViewTrip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTripOperation("view")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var trip model.Trip
	if err := h.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Trip not found", zap.Uint("trip_id", id))
			return echo.NewHTTPError(http.StatusNotFound, "trip not found")
		}
		log.Error("Failed to load trip", zap.Error(err))
		return err
	}

	var itineraries []model.Itinerary
	if err := h.DB.Where("trip_id = ?", trip.ID).Order("id").Find(&itineraries).Error; err != nil {
		log.Error("Failed to load itineraries", zap.Error(err))
		return err
	}
	var files []model.File
	if err := h.DB.Where("trip_id = ?", trip.ID).Order("id").Find(&files).Error; err != nil {
		log.Error("Failed to load files", zap.Error(err))
		return err
	}

	return h.render(c, "trip_detail", trip.Destination, map[string]interface{}{
		"Trip":        trip,
		"Itineraries": itineraries,
		"Files":       files,
	})
}

// EditTripForm renders the edit form for a trip the session user owns.
func (h *Handler) EditTripForm(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	trip, done, err := h.authorizeTrip(c, id, "edit")
	if done {
		return err
	}

	return h.render(c, "edit_trip", "Edit trip", map[string]interface{}{
		"Trip": trip,
	})
}

// EditTrip overwrites destination, notes, and dates of an owned trip. A
// date parse failure redirects back to the edit form with nothing applied.
func (h *Handler) EditTrip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTripOperation("update")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	trip, done, err := h.authorizeTrip(c, id, "edit")
	if done {
		return err
	}

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse trip request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", editTripPath(trip.ID))
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		log.Warn("Invalid start date", zap.String("start_date", req.StartDate))
		return h.flashRedirect(c, "danger", "Invalid date format. Use YYYY-MM-DD.", editTripPath(trip.ID))
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		log.Warn("Invalid end date", zap.String("end_date", req.EndDate))
		return h.flashRedirect(c, "danger", "Invalid date format. Use YYYY-MM-DD.", editTripPath(trip.ID))
	}

	trip.Destination = req.Destination
	trip.Notes = req.Notes
	trip.StartDate = start
	trip.EndDate = end

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.DB.Save(trip).Error; err != nil {
		log.Error("Failed to update trip", zap.Uint("trip_id", trip.ID), zap.Error(err))
		return h.flashRedirect(c, "danger", "Failed to update trip.", editTripPath(trip.ID))
	}

	log.Info("Trip updated", zap.Uint("trip_id", trip.ID))
	return h.flashRedirect(c, "success", "Trip updated successfully.", "/dashboard")
}

// DeleteTrip removes an owned trip together with its itineraries and file
// metadata in a single transaction.
func (h *Handler) DeleteTrip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTripOperation("delete")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	trip, done, err := h.authorizeTrip(c, id, "delete")
	if done {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.Itinerary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&model.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(trip).Error
	})
	if err != nil {
		log.Error("Failed to delete trip", zap.Uint("trip_id", trip.ID), zap.Error(err))
		return h.flashRedirect(c, "danger", "Failed to delete trip.", "/dashboard")
	}

	log.Info("Trip deleted", zap.Uint("trip_id", trip.ID))
	return h.flashRedirect(c, "success", "Trip deleted successfully.", "/dashboard")
}

func editTripPath(id uint) string {
	return fmt.Sprintf("/trip/%d/edit", id)
}
