package popupservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

const popupJSON = `{
	"id": 5,
	"brand_id": 9,
	"name": "Spring Market",
	"status": "SOMETHING_NEW",
	"reservation_enabled": true,
	"start_date": "2025-03-01",
	"end_date": "2025-03-31",
	"operating_hours": [
		{"day_of_week": "MONDAY", "open_time": "10:00", "close_time": "12:00"},
		{"day_of_week": "monday", "open_time": "14:00", "close_time": "16:00"}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	loc := time.FixedZone("KST", 9*60*60)
	return NewClient(srv.URL, time.Second, loc, logger.Nop())
}

func TestClient_GetPopup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/popups/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(popupJSON))
	})

	popup, err := client.GetPopup(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(9), popup.BrandID)
	assert.Equal(t, domain.PopupStatusUnknown, popup.Status)
	assert.True(t, popup.AcceptsReservations())
	assert.Equal(t, 2025, popup.StartDate.Year())
	assert.Equal(t, "KST", popup.StartDate.Location().String())
	require.Len(t, popup.HoursFor(time.Monday), 2)
	assert.Equal(t, "14:00", popup.HoursFor(time.Monday)[1].OpenTime.String())
}

func TestClient_GetPopup_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPopup(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPopupNotFound)
}

func TestClient_GetPopup_MalformedHours(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 5, "operating_hours": [{"day_of_week": "FUNDAY", "open_time": "10:00", "close_time": "12:00"}]}`))
	})

	_, err := client.GetPopup(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_IsBrandMember(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/brands/9/members/1":
			_, _ = w.Write([]byte(`{"is_member": true}`))
		case "/internal/brands/9/members/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	ok, err := client.IsBrandMember(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.IsBrandMember(context.Background(), 9, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.IsBrandMember(context.Background(), 9, 3)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
