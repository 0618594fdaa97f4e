package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"osplits/internal/api"
	"osplits/internal/config"
	"osplits/internal/database"
	"osplits/internal/db"
	"osplits/internal/domain"
	"osplits/internal/middleware"
	"osplits/internal/repository"
	"osplits/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "races.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{CacheTTL: time.Hour, FetchTimeout: time.Second, MaxUploadBytes: 1 << 20}
	repo := repository.NewRaceRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	svc := service.NewRaceService(repo, api.NewWinSplitsClient(cfg, zerolog.Nop()), service.NewCache(cfg.CacheTTL), zerolog.Nop())

	mux := http.NewServeMux()
	NewRaceServer(svc, cfg, zerolog.Nop()).Register(mux)
	return middleware.RequestID(zerolog.Nop())(mux)
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func importFixture(t *testing.T, h http.Handler) raceResponse {
	t.Helper()
	page, err := os.ReadFile("testdata/wiol7.html")
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/v1/races?course=Brown", "text/html", string(page))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[raceResponse](t, rec)
}

func TestImportAndGetRace(t *testing.T) {
	h := newTestServer(t)
	race := importFixture(t, h)

	require.Equal(t, "WIOL #7 - Brown", race.EventName)
	require.Equal(t, "Brown", race.CourseName)
	require.Equal(t, 3, race.Controls)
	require.Len(t, race.Runners, 3)
	require.Len(t, race.Finishers, 2)
	require.Empty(t, race.Excluded)
	require.Equal(t, "0:12:30", race.Finishers[0].FinishTime.String())

	rec := do(t, h, http.MethodGet, "/api/v1/races/"+race.Slug, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, race.ID, decode[raceResponse](t, rec).ID)

	rec = do(t, h, http.MethodGet, "/api/v1/races", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]repository.RaceSummary](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, 3, list[0].Runners)
}

func TestLegAndControlQueries(t *testing.T) {
	h := newTestServer(t)
	race := importFixture(t, h)
	base := "/api/v1/races/" + race.ID

	rec := do(t, h, http.MethodGet, base+"/legs/1/order", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[orderResponse](t, rec)
	require.Equal(t, []string{"Ann Smith", "Bob Jones", "Cy Brown"}, names(order.Runners))

	rec = do(t, h, http.MethodGet, base+"/legs/1/time-lost", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lost := decode[timeLostResponse](t, rec)
	require.Equal(t, "0:01:00", lost.Losses[1].Lost.String())
	require.Equal(t, "0:02:00", lost.Losses[2].Lost.String())

	rec = do(t, h, http.MethodGet, base+"/controls/2/order", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"Ann Smith", "Bob Jones"}, names(decode[orderResponse](t, rec).Runners))

	rec = do(t, h, http.MethodGet, base+"/behind-leader", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	behind := decode[behindLeaderResponse](t, rec)
	require.Len(t, behind.Leaders, 3)
	require.Len(t, behind.Runners, 3)
	require.Len(t, behind.Runners[2].Points, 1)

	rec = do(t, h, http.MethodGet, base+"/performance-index", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	perf := decode[performanceResponse](t, rec)
	require.Len(t, perf.Baselines, 3)
	require.NotNil(t, perf.Runners[0].Mean)
	require.InDelta(t, 1.0, *perf.Runners[0].Mean, 1e-9)
}

func TestErrorStatuses(t *testing.T) {
	h := newTestServer(t)
	race := importFixture(t, h)
	base := "/api/v1/races/" + race.ID

	tests := []struct {
		name   string
		method string
		path   string
		ctype  string
		body   string
		status int
	}{
		{"unknown race", http.MethodGet, "/api/v1/races/nope", "", "", http.StatusNotFound},
		{"unknown leg", http.MethodGet, base + "/legs/9/order", "", "", http.StatusNotFound},
		{"leg not a number", http.MethodGet, base + "/legs/x/order", "", "", http.StatusBadRequest},
		{"unknown control", http.MethodGet, base + "/controls/0/order", "", "", http.StatusNotFound},
		{"json without url", http.MethodPost, "/api/v1/races", "application/json", `{}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/v1/races", "application/json", `{`, http.StatusBadRequest},
		{"bad url", http.MethodPost, "/api/v1/races", "application/json", `{"url":"file:///etc/passwd"}`, http.StatusBadRequest},
		{"not a results page", http.MethodPost, "/api/v1/races", "text/html", `<p>hi</p>`, http.StatusBadRequest},
		{"no course labels", http.MethodPost, "/api/v1/races", "text/html",
			`<table><tr><td>h</td></tr><tr><td>none</td></tr></table>`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.ctype, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decode[errorResponse](t, rec)
			require.NotEmpty(t, resp.Error)
			require.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestDeleteRace(t *testing.T) {
	h := newTestServer(t)
	race := importFixture(t, h)

	rec := do(t, h, http.MethodDelete, "/api/v1/races/"+race.ID, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/races/"+race.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/races/"+race.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func names(placings []placingDTO) []string {
	out := make([]string, len(placings))
	for i, p := range placings {
		out[i] = p.Name
	}
	return out
}

func TestDeleteRaceBySlug(t *testing.T) {
	h := newTestServer(t)
	race := importFixture(t, h)

	rec := do(t, h, http.MethodDelete, "/api/v1/races/"+race.Slug, "", "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/races/"+race.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/races/"+race.Slug, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyRaceSeriesAreEmptyArrays(t *testing.T) {
	h := newTestServer(t)
	page := `<html><head><title>Empty</title></head><body><table>
		<tr><th>Pl</th></tr>
		<tr><td>S-1 (101)</td><td>1-F</td></tr>
	</table></body></html>`

	rec := do(t, h, http.MethodPost, "/api/v1/races", "text/html", page)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	race := decode[raceResponse](t, rec)
	base := "/api/v1/races/" + race.ID

	for _, path := range []string{base + "/behind-leader", base + "/performance-index"} {
		rec = do(t, h, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"runners":[]`)
		require.NotContains(t, rec.Body.String(), "null")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrapped: %w", domain.ErrRaceNotFound), http.StatusNotFound},
		{domain.ErrEmptyRanking, http.StatusUnprocessableEntity},
		{fmt.Errorf("leg 2: %w", domain.ErrNegativeDuration), http.StatusUnprocessableEntity},
		{api.ErrMalformedTable, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}
