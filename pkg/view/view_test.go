package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/session"
)

func TestTemplatesParse(t *testing.T) {
	assert.NotPanics(t, func() { New() })
}

func TestRenderTripDetail(t *testing.T) {
	r := New()

	start := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	data := map[string]interface{}{
		"Title": "Lisbon",
		"User":  (*model.User)(nil),
		"Flashes": []session.Flash{
			{Category: "success", Message: "Trip added."},
		},
		"Trip": model.Trip{
			ID:          1,
			Destination: "Lisbon",
			StartDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			Notes:       "bring sunscreen",
		},
		"Itineraries": []model.Itinerary{
			{ID: 2, Title: "Castle tour", StartTime: &start},
		},
		"Files": []model.File{
			{ID: 3, FileName: "ticket.pdf"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "trip_detail", data, nil))

	html := buf.String()
	assert.Contains(t, html, "Lisbon")
	assert.Contains(t, html, "bring sunscreen")
	assert.Contains(t, html, "2024-06-01")
	assert.Contains(t, html, "Castle tour")
	assert.Contains(t, html, "09:00")
	assert.Contains(t, html, "ticket.pdf")
	assert.Contains(t, html, "Trip added.")
}

func TestRenderDashboard(t *testing.T) {
	r := New()

	data := map[string]interface{}{
		"Title":   "Dashboard",
		"User":    &model.User{FirstName: "Ada"},
		"Flashes": []session.Flash{},
		"Trips": []model.Trip{
			{ID: 1, Destination: "Lisbon",
				StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "dashboard", data, nil))
	assert.Contains(t, buf.String(), "Welcome, Ada")
	assert.Contains(t, buf.String(), "/trip/1")
}
