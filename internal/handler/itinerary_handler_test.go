package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/tripplanner/internal/model"
)

func TestAddItineraryAnchorsTimesOnTripStartDate(t *testing.T) {
	app := newApp(t)
	user := app.register("Ada", "ada@example.com", "secret")
	trip := app.createTrip(user.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))
	app.login("ada@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/trip/%d/itinerary/add", trip.ID), url.Values{
		"title":       {"Castle tour"},
		"description": {"morning walk"},
		"start_time":  {"09:00"},
		"end_time":    {"11:30"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("/trip/%d", trip.ID), rec.Header().Get("Location"))

	var it model.Itinerary
	require.NoError(t, app.db.Where("trip_id = ?", trip.ID).First(&it).Error)
	require.NotNil(t, it.StartTime)
	require.NotNil(t, it.EndTime)
	assert.Equal(t, time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC), it.StartTime.UTC())
	// The end time is anchored on the trip's START date as well.
	assert.Equal(t, time.Date(2024, time.June, 1, 11, 30, 0, 0, time.UTC), it.EndTime.UTC())
}

func TestAddItineraryWithoutTimesLeavesTimestampsNull(t *testing.T) {
	app := newApp(t)
	user := app.register("Ada", "ada@example.com", "secret")
	trip := app.createTrip(user.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))
	app.login("ada@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/trip/%d/itinerary/add", trip.ID), url.Values{
		"title": {"Free day"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	var it model.Itinerary
	require.NoError(t, app.db.Where("trip_id = ?", trip.ID).First(&it).Error)
	assert.Nil(t, it.StartTime)
	assert.Nil(t, it.EndTime)
}

func TestAddItineraryInvalidTimePersistsNothing(t *testing.T) {
	app := newApp(t)
	user := app.register("Ada", "ada@example.com", "secret")
	trip := app.createTrip(user.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))
	app.login("ada@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/trip/%d/itinerary/add", trip.ID), url.Values{
		"title":      {"Bad"},
		"start_time": {"9am"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	var count int64
	app.db.Model(&model.Itinerary{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAddItineraryRequiresOwnership(t *testing.T) {
	app := newApp(t)
	owner := app.register("Ada", "ada@example.com", "secret")
	app.register("Eve", "eve@example.com", "secret")
	trip := app.createTrip(owner.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))

	app.login("eve@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/trip/%d/itinerary/add", trip.ID), url.Values{
		"title": {"Intruder entry"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	var count int64
	app.db.Model(&model.Itinerary{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAddItineraryMissingTripIsNotFound(t *testing.T) {
	app := newApp(t)
	app.register("Ada", "ada@example.com", "secret")
	app.login("ada@example.com", "secret")

	rec := app.postForm("/trip/9999/itinerary/add", url.Values{
		"title": {"Nowhere"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditItineraryClearsTimesOnEmptyInput(t *testing.T) {
	app := newApp(t)
	user := app.register("Ada", "ada@example.com", "secret")
	trip := app.createTrip(user.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))

	start := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	it := model.Itinerary{TripID: trip.ID, Title: "Castle", StartTime: &start}
	require.NoError(t, app.db.Create(&it).Error)

	app.login("ada@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/itinerary/%d/edit", it.ID), url.Values{
		"title":       {"Castle"},
		"description": {"updated"},
		// start_time and end_time intentionally empty
	})
	require.Equal(t, http.StatusFound, rec.Code)

	var updated model.Itinerary
	require.NoError(t, app.db.First(&updated, it.ID).Error)
	assert.Equal(t, "updated", updated.Description)
	assert.Nil(t, updated.StartTime, "empty start time input must clear the timestamp")
	assert.Nil(t, updated.EndTime)
}

func TestEditItineraryByNonOwnerIsRejected(t *testing.T) {
	app := newApp(t)
	owner := app.register("Ada", "ada@example.com", "secret")
	app.register("Eve", "eve@example.com", "secret")
	trip := app.createTrip(owner.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))

	it := model.Itinerary{TripID: trip.ID, Title: "Castle"}
	require.NoError(t, app.db.Create(&it).Error)

	app.login("eve@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/itinerary/%d/edit", it.ID), url.Values{
		"title": {"Hijacked"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	var unchanged model.Itinerary
	require.NoError(t, app.db.First(&unchanged, it.ID).Error)
	assert.Equal(t, "Castle", unchanged.Title)
}

func TestDeleteItineraryDoesNotCascadeFiles(t *testing.T) {
	app := newApp(t)
	user := app.register("Ada", "ada@example.com", "secret")
	trip := app.createTrip(user.ID, "Lisbon", date(2024, time.June, 1), date(2024, time.June, 10))

	it := model.Itinerary{TripID: trip.ID, Title: "Castle"}
	require.NoError(t, app.db.Create(&it).Error)
	file := model.File{TripID: &trip.ID, ItineraryID: &it.ID, FileName: "map.png", FilePath: "/tmp/map.png"}
	require.NoError(t, app.db.Create(&file).Error)

	app.login("ada@example.com", "secret")

	rec := app.postForm(fmt.Sprintf("/itinerary/%d/delete", it.ID), url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)

	assert.ErrorContains(t, app.db.First(&model.Itinerary{}, it.ID).Error, "record not found")
	// The attached file row survives the itinerary delete.
	assert.NoError(t, app.db.First(&model.File{}, file.ID).Error)
}
