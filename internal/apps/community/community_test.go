package community

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify/mocks"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/testutil"
)

func newService(t *testing.T) (*ContentService, *mocks.MockNotifier) {
	t.Helper()
	db := testutil.SetupSQLiteTestDB(t)
	notifier := mocks.NewMockNotifier(gomock.NewController(t))
	svc := NewContentService(db, notifier, &config.Config{MediaBaseURL: "https://cdn.example.com"})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }
	return svc, notifier
}

func TestCreateEvent_BroadcastsAfterCommit(t *testing.T) {
	svc, notifier := newService(t)
	creator := uuid.New()

	var got notify.Draft
	notifier.EXPECT().Broadcast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d notify.Draft) (int, error) {
			got = d
			return 3, nil
		})

	resp, err := svc.CreateEvent(context.Background(), creator, &CreateContentRequest{
		Title:       " Annual Meet ",
		Description: "At the hall",
		Image:       "events/meet.jpg",
		Date:        "2026-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Annual Meet", resp.Title)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://cdn.example.com/events/meet.jpg", *resp.ImageURL)
	require.NotNil(t, resp.Date)
	assert.Equal(t, "2026-04-01", *resp.Date)

	assert.Equal(t, models.NotificationTypeEvent, got.Type)
	assert.Equal(t, "event", got.ReferenceType)
	assert.NotEmpty(t, got.ReferenceID)
	require.NotNil(t, got.ActionDate)
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, uuid.New(), &CreateContentRequest{Description: "x", Date: "2026-04-01"})
	assert.Equal(t, "title", apperr.FieldOf(err))

	_, err = svc.CreateEvent(ctx, uuid.New(), &CreateContentRequest{Title: "x", Date: "2026-04-01"})
	assert.Equal(t, "description", apperr.FieldOf(err))

	_, err = svc.CreateEvent(ctx, uuid.New(), &CreateContentRequest{Title: "x", Description: "y"})
	assert.Equal(t, "date", apperr.FieldOf(err))

	_, err = svc.CreateEvent(ctx, uuid.New(), &CreateContentRequest{Title: "x", Description: "y", Date: "01/04/2026"})
	assert.Equal(t, "date", apperr.FieldOf(err))
}

func TestCreateAdvertisement_RejectsNegativePrice(t *testing.T) {
	svc, _ := newService(t)
	price := -1.0
	_, err := svc.CreateAdvertisement(context.Background(), uuid.New(), &CreateContentRequest{
		Title: "Bike", Description: "For sale", Price: &price,
	})
	assert.Equal(t, "price", apperr.FieldOf(err))
}

func TestCreateNotice_BroadcastFailureKeepsRow(t *testing.T) {
	svc, notifier := newService(t)
	notifier.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(0, assert.AnError)

	_, err := svc.CreateNotice(context.Background(), uuid.New(), &CreateContentRequest{
		Title: "Closed", Description: "Office closed on Friday",
	})
	require.NoError(t, err)

	list, err := svc.ListNotices(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, "Closed", list.Data[0].Title)
}

func TestListEvents_Upcoming(t *testing.T) {
	svc, notifier := newService(t)
	notifier.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(0, nil).Times(3)
	ctx := context.Background()
	creator := uuid.New()

	for _, d := range []string{"2026-03-01", "2026-03-10", "2026-05-01"} {
		_, err := svc.CreateEvent(ctx, creator, &CreateContentRequest{Title: d, Description: "e", Date: d})
		require.NoError(t, err)
	}

	all, err := svc.ListEvents(ctx, false, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)

	upcoming, err := svc.ListEvents(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, upcoming.Total)
	require.Len(t, upcoming.Data, 2)
	assert.Equal(t, "2026-03-10", upcoming.Data[0].Title)
}

func withIdentity(id uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": id.String(), "role": "admin"}))
		return c.Next()
	}
}

func TestContentHandler_CreateAndList(t *testing.T) {
	svc, notifier := newService(t)
	notifier.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(1, nil)
	h := NewContentHandler(svc)

	app := fiber.New()
	app.Use(withIdentity(uuid.New()))
	app.Post("/advertisements", h.CreateAdvertisement)
	app.Get("/advertisements", h.ListAdvertisements)

	req := httptest.NewRequest("POST", "/advertisements",
		strings.NewReader(`{"title":"Flat","description":"2BHK for rent","price":1500}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/advertisements",
		strings.NewReader(`{"description":"missing title"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/advertisements", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body ContentListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	require.NotNil(t, body.Data[0].Price)
	assert.Equal(t, 1500.0, *body.Data[0].Price)
}
