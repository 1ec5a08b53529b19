package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	state     models.LidState
	toggleErr error
	items     []models.Item
	searchErr error
	keyword   string
	limit     int
}

func (f *fakeStore) ToggleLid(ctx context.Context) (models.LidState, error) {
	if f.toggleErr != nil {
		return "", f.toggleErr
	}
	if f.state == models.LidOpen {
		f.state = models.LidClosed
	} else {
		f.state = models.LidOpen
	}
	return f.state, nil
}

func (f *fakeStore) GetLidState(ctx context.Context) (models.LidState, error) {
	if f.state == "" {
		return models.LidClosed, nil
	}
	return f.state, nil
}

func (f *fakeStore) SearchItems(ctx context.Context, keyword string, limit int) ([]models.Item, error) {
	f.keyword, f.limit = keyword, limit
	return f.items, f.searchErr
}

type fakeProcessor struct {
	item  *models.Item
	err   error
	calls int
}

func (f *fakeProcessor) ProcessNewItem(ctx context.Context) (*models.Item, error) {
	f.calls++
	return f.item, f.err
}

type fakeStats struct {
	resp        *models.StatsResponse
	err         error
	periods     []models.Period
	invalidated int
}

func (f *fakeStats) Get(ctx context.Context, period models.Period) (*models.StatsResponse, error) {
	f.periods = append(f.periods, period)
	return f.resp, f.err
}

func (f *fakeStats) Invalidate() { f.invalidated++ }

func setupRouter(t *testing.T, store *fakeStore, proc *fakeProcessor, st *fakeStats, config Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(store, proc, st, config)
	require.NoError(t, h.RegisterRoutes(r))
	return r
}

func doRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestToggle_OpenReturnsItem(t *testing.T) {
	item := &models.Item{ID: 7, Analysis: json.RawMessage(`{"category":"recyclable"}`)}
	store := &fakeStore{state: models.LidClosed}
	proc := &fakeProcessor{item: item}
	st := &fakeStats{}
	r := setupRouter(t, store, proc, st, Config{})

	w := doRequest(r, http.MethodPost, "/toggle")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ToggleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.LidOpen, resp.State)
	require.NotNil(t, resp.Item)
	assert.Equal(t, int64(7), resp.Item.ID)
	assert.JSONEq(t, `{"category":"recyclable"}`, string(resp.Item.Analysis))
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, 1, st.invalidated)
}

func TestToggle_CloseOmitsItem(t *testing.T) {
	store := &fakeStore{state: models.LidOpen}
	proc := &fakeProcessor{}
	r := setupRouter(t, store, proc, &fakeStats{}, Config{})

	w := doRequest(r, http.MethodPost, "/toggle")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"closed"}`, w.Body.String())
	assert.Zero(t, proc.calls)
}

func TestToggle_PipelineFailureStillOpens(t *testing.T) {
	for _, perr := range []error{
		pipeline.ErrNoObjects,
		fmt.Errorf("%w: timeout", pipeline.ErrCaptureFailed),
		errors.New("insert failed"),
	} {
		t.Run(perr.Error(), func(t *testing.T) {
			st := &fakeStats{}
			r := setupRouter(t, &fakeStore{}, &fakeProcessor{err: perr}, st, Config{})

			w := doRequest(r, http.MethodPost, "/toggle")

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"state":"open"}`, w.Body.String())
			assert.Zero(t, st.invalidated)
		})
	}
}

func TestToggle_StoreError(t *testing.T) {
	r := setupRouter(t, &fakeStore{toggleErr: errors.New("db down")}, &fakeProcessor{}, &fakeStats{}, Config{})

	w := doRequest(r, http.MethodPost, "/toggle")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to toggle lid")
}

func TestToggle_RateLimited(t *testing.T) {
	r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, &fakeStats{}, Config{ToggleRatePerSecond: 0.001, ToggleBurst: 1})

	first := doRequest(r, http.MethodPost, "/toggle")
	second := doRequest(r, http.MethodPost, "/toggle")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestGetState(t *testing.T) {
	r := setupRouter(t, &fakeStore{state: models.LidOpen}, &fakeProcessor{}, &fakeStats{}, Config{})

	w := doRequest(r, http.MethodGet, "/state")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"open"}`, w.Body.String())
}

func TestGetStatsData(t *testing.T) {
	st := &fakeStats{resp: &models.StatsResponse{
		TotalDisposed:   3,
		CarbonFootprint: models.NewFootprint(0.25),
		Recyclable:      2,
		GeneralWaste:    1,
		CommonItems:     []models.CommonItem{{Label: "bottle", Count: 2}},
		RecentItems:     []models.RecentItem{},
	}}
	r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, st, Config{})

	w := doRequest(r, http.MethodGet, "/stats-data/week")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.Period{models.PeriodWeek}, st.periods)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["total_disposed"])
	assert.Equal(t, 0.25, body["carbon_footprint"])
	assert.Equal(t, []any{[]any{"bottle", float64(2)}}, body["common_items"])
}

func TestGetStatsData_Errors(t *testing.T) {
	t.Run("unknown period", func(t *testing.T) {
		st := &fakeStats{}
		r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, st, Config{})

		w := doRequest(r, http.MethodGet, "/stats-data/decade")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid period")
		assert.Empty(t, st.periods)
	})

	t.Run("storage failure", func(t *testing.T) {
		r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, &fakeStats{err: errors.New("boom")}, Config{})

		w := doRequest(r, http.MethodGet, "/stats-data/all")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSearch(t *testing.T) {
	store := &fakeStore{items: []models.Item{{ID: 1, DetectedObjects: []string{"Bottle"}}}}
	r := setupRouter(t, store, &fakeProcessor{}, &fakeStats{}, Config{SearchLimit: 20})

	w := doRequest(r, http.MethodGet, "/search?q=+bottle+")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bottle", store.keyword)
	assert.Equal(t, 20, store.limit)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, []string{"Bottle"}, resp.Items[0].DetectedObjects)
}

func TestSearch_MissingQuery(t *testing.T) {
	r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, &fakeStats{}, Config{})

	w := doRequest(r, http.MethodGet, "/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPages(t *testing.T) {
	r := setupRouter(t, &fakeStore{state: models.LidOpen}, &fakeProcessor{}, &fakeStats{}, Config{})

	index := doRequest(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), `<button id="toggleBtn">Close</button>`)

	page := doRequest(r, http.MethodGet, "/stats")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `data-period="today"`)
	assert.Contains(t, page.Body.String(), `id="categoryChart"`)

	script := doRequest(r, http.MethodGet, "/static/stats.js")
	require.Equal(t, http.StatusOK, script.Code)
	assert.True(t, strings.Contains(script.Body.String(), "loadStats"))
}

func TestRequestIDHeader(t *testing.T) {
	r := setupRouter(t, &fakeStore{}, &fakeProcessor{}, &fakeStats{}, Config{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	fresh := doRequest(r, http.MethodGet, "/health")
	assert.Len(t, fresh.Header().Get("X-Request-ID"), 36)
}
