package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/pkg/storage"
	"github.com/suteetoe/tripplanner/prometheus"
)

// UploadFile stores an uploaded attachment on an owned trip. The filename
// is sanitized before it reaches the store; a storage failure aborts the
// operation with no metadata written.
func (h *Handler) UploadFile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFileOperation("upload")

	tripID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "trip not found")
	}

	trip, done, err := h.authorizeTrip(c, tripID, "modify")
	if done {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		log.Warn("No file part in upload", zap.Uint("trip_id", trip.ID))
		return h.flashRedirect(c, "danger", "No file part", tripPath(trip.ID))
	}
	if fh.Filename == "" {
		log.Warn("Empty filename in upload", zap.Uint("trip_id", trip.ID))
		return h.flashRedirect(c, "danger", "No selected file", tripPath(trip.ID))
	}

	name := storage.SanitizeFilename(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		log.Error("Failed to open upload", zap.Error(err))
		return h.flashRedirect(c, "danger", "Upload failed.", tripPath(trip.ID))
	}
	defer src.Close()

	location, err := h.Store.Save(c.Request().Context(), name, src, fh.Size,
		fh.Header.Get("Content-Type"))
	if err != nil {
		log.Error("Failed to store upload",
			zap.String("file_name", name),
			zap.Uint("trip_id", trip.ID),
			zap.Error(err))
		prometheus.RecordStorageError("put")
		return h.flashRedirect(c, "danger", "Upload failed.", tripPath(trip.ID))
	}
	prometheus.UploadedBytesCounter.Add(float64(fh.Size))

	file := model.File{
		TripID:   &trip.ID,
		FileName: name,
		FilePath: location,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.DB.Create(&file); result.Error != nil {
		log.Error("Failed to persist file metadata", zap.Error(result.Error))
		return h.flashRedirect(c, "danger", "Upload failed.", tripPath(trip.ID))
	}

	log.Info("File uploaded",
		zap.Uint("file_id", file.ID),
		zap.Uint("trip_id", trip.ID),
		zap.String("file_name", name),
		zap.String("location", location))
	return h.flashRedirect(c, "success", "File uploaded.", tripPath(trip.ID))
}

// DeleteFile removes an attachment from an owned trip. A storage removal
// failure is reported but does not keep the metadata row: the row is
// deleted regardless.
func (h *Handler) DeleteFile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordFileOperation("delete")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	var file model.File
	if err := h.DB.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("File not found", zap.Uint("file_id", id))
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		log.Error("Failed to load file", zap.Error(err))
		return err
	}
	if file.TripID == nil {
		log.Warn("File has no trip association", zap.Uint("file_id", file.ID))
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	trip, done, err := h.authorizeTrip(c, *file.TripID, "modify")
	if done {
		return err
	}

	storageFailed := false
	if err := h.Store.Remove(c.Request().Context(), file.FilePath); err != nil {
		log.Error("Failed to remove stored file",
			zap.Uint("file_id", file.ID),
			zap.String("location", file.FilePath),
			zap.Error(err))
		prometheus.RecordStorageError("delete")
		storageFailed = true
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.DB.Delete(&file).Error; err != nil {
		log.Error("Failed to delete file metadata", zap.Uint("file_id", file.ID), zap.Error(err))
		return h.flashRedirect(c, "danger", "Failed to delete file.", tripPath(trip.ID))
	}

	log.Info("File deleted", zap.Uint("file_id", file.ID), zap.Uint("trip_id", trip.ID))
	if storageFailed {
		return h.flashRedirect(c, "warning",
			"File record deleted, but removing the stored object failed.", tripPath(trip.ID))
	}
	return h.flashRedirect(c, "success", "File deleted.", tripPath(trip.ID))
}
