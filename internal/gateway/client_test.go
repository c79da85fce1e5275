package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderquest/questbot/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{BaseURL: srv.URL})
}

func TestFindParticipantNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/participants/by-telegram-id/42/", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FindParticipantByTelegramID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindParticipantOK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ParticipantID":7,"FirstName":"Анна","LastName":"Петрова","TelegramUserID":42}`))
	})

	p, err := c.FindParticipantByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ParticipantID)
	assert.Equal(t, "Анна", p.FirstName)
}

func TestListCitiesCountryFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cities/", r.URL.Path)
		assert.Equal(t, "Россия", r.URL.Query().Get("Country"))
		_, _ = w.Write([]byte(`[{"CityID":1,"CityName":"Казань","Country":"Россия","Description":"..."}]`))
	})

	cities, err := c.ListCities(context.Background(), CityFilter{Country: "Россия"})
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Казань", cities[0].CityName)
}

func TestListCitiesNoFilterOmitsParam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("Country"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.ListCities(context.Background(), CityFilter{})
	require.NoError(t, err)
}

func TestListQuestsCityFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quests/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("CityID"))
		_, _ = w.Write([]byte(`[{"QuestID":11,"QuestName":"Ночной город","CityID":3,"Description":"d"}]`))
	})

	quests, err := c.ListQuests(context.Background(), QuestFilter{CityID: 3})
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, int64(11), quests[0].QuestID)
}

func TestCreateBooking(t *testing.T) {
	var gotIdemKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quest-participants/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotIdemKey = r.Header.Get("Idempotency-Key")
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateBooking(context.Background(), domain.BookingRequest{QuestID: 11, ParticipantID: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, gotIdemKey)
}

func TestCreateReviewStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rating out of range", http.StatusUnprocessableEntity)
	})

	err := c.CreateReview(context.Background(), domain.ReviewRequest{QuestID: 1, ParticipantID: 2, Rating: 9})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	assert.Equal(t, "/reviews/", "/"+statusErr.Path)
}

func TestGetQuestDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quests/11/", r.URL.Path)
		_, _ = w.Write([]byte(`{"QuestID":11,"QuestName":"Ночной город","CityID":3,"Description":"Длинное описание"}`))
	})

	quest, err := c.GetQuest(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Ночной город", quest.QuestName)
	assert.Equal(t, "Длинное описание", quest.Description)
}

func TestTransportErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(ClientOptions{BaseURL: srv.URL})
	_, err := c.ListGuides(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
