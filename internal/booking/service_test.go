package booking_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/booking"
	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/house/housetest"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings []booking.Booking
}

func (r *fakeRepo) Create(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = len(r.bookings) + 1
	r.bookings = append(r.bookings, *b)
	return b, nil
}

func (r *fakeRepo) ListForLandlord(ctx context.Context, landlordID int) ([]booking.Booking, error) {
	return nil, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

func setup(t *testing.T) (booking.Service, *fakeRepo, *house.House) {
	t.Helper()
	houses := housetest.NewRepository()
	h, err := houses.Create(context.Background(), &house.House{Title: "Room A", LandlordID: 1})
	require.NoError(t, err)

	houseSvc := house.NewService(houses, photo.NewMemoryStore(), metrics.NewMock(), logger.Discard())
	repo := &fakeRepo{}
	return booking.NewService(repo, houseSvc, metrics.NewMock(), logger.Discard()), repo, h
}

func validInput() booking.Input {
	return booking.Input{
		StudentName:  "Amina",
		StudentEmail: "amina@x.com",
		StudentPhone: "0700000000",
		IDNumber:     "12345678",
		MoveInDate:   "next month",
	}
}

func TestService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesOneRow", func(t *testing.T) {
		svc, repo, h := setup(t)
		b, err := svc.Book(ctx, h.ID, validInput())
		require.NoError(t, err)

		assert.Equal(t, h.ID, b.HouseID)
		assert.Equal(t, "next month", b.MoveInDate)
		assert.Equal(t, 1, repo.count())
	})

	t.Run("RepeatsAllowed", func(t *testing.T) {
		svc, repo, h := setup(t)
		_, err := svc.Book(ctx, h.ID, validInput())
		require.NoError(t, err)
		_, err = svc.Book(ctx, h.ID, validInput())
		require.NoError(t, err)
		assert.Equal(t, 2, repo.count())
	})

	t.Run("UnknownHouse", func(t *testing.T) {
		svc, repo, _ := setup(t)
		_, err := svc.Book(ctx, 999, validInput())
		assert.ErrorIs(t, err, house.ErrHouseNotFound)
		assert.Equal(t, 0, repo.count())
	})
}

func TestHandler_Book(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo, h := setup(t)

	router := gin.New()
	web.LoadTemplates(router)
	booking.NewHandler(svc, web.NewResponder(logger.Discard(), metrics.NewMock())).RegisterRoutes(router)

	post := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	form := url.Values{
		"fullname":     {"Amina"},
		"email":        {"amina@x.com"},
		"phone":        {"0700000000"},
		"id_number":    {"12345678"},
		"move_in_date": {"1st June"},
	}

	t.Run("Success", func(t *testing.T) {
		w := post(fmt.Sprintf("/book_house/%d", h.ID), form)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))
		assert.Equal(t, 1, repo.count())
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := post("/book_house/1", url.Values{"fullname": {"Amina"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/view_house/1", w.Header().Get("Location"))
		assert.Equal(t, 1, repo.count())
	})

	t.Run("UnknownHouse", func(t *testing.T) {
		w := post("/book_house/42", form)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
