package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"EigenFlow/internal/middleware"
	"EigenFlow/internal/repository"
	"EigenFlow/internal/service/ratelimit"
	"EigenFlow/internal/services/access"
	"EigenFlow/internal/services/loader"
	"EigenFlow/internal/usecase"
	"EigenFlow/pkg/cache"
	xlogger "EigenFlow/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const top10 = `Rank,Symbol,Alpha Score,1D Return,20D Momentum,Size,Liquidity
1,600519,2.31,1.25%,8.4%,Large,High
2,300750,1.92,-0.8%,5.1%,Large,High
3,2594,1.55,0.35%,-2.2%,Large,Mid
`

const historyCSV = `date,shibor_2w,涨跌,rsi_5,risk_on
2026-02-05,1.51,0.4,52.3,1
2026-02-06,1.55,-1.1,44.9,0
2026-02-09,1.52,0.7,51.0,1
`

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("regime_snapshot.json", `{"calculation_date":"2026-02-09","market_regime":"Risk On","action":"Stay invested","shibor_2w":1.52,"rsi_5":51.0,"last_updated":"2026-02-09 18:00:00"}`)
	write("web_top10.csv", top10)
	write("regime_history.csv", historyCSV)

	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })

	ld := loader.New(repository.NewLocalSource(dir), mem, loader.Files{
		Snapshot: "regime_snapshot.json",
		Top10:    "web_top10.csv",
		History:  "regime_history.csv",
	}, loader.TTLs{Snapshot: time.Minute, Signals: time.Minute, History: time.Minute}, nil, nil)

	v := access.NewValidator([]string{"EF-26Q1-A9F4KZ2M"}, 30)
	lim := ratelimit.NewGuard(ratelimit.New(10, 5, time.Hour), ratelimit.New(10, 8, time.Hour))
	uc := usecase.NewDashboardUseCase(ld, v, lim, usecase.Options{PreviewLimit: 2, HistoryLimit: 2}, nil)

	store := repository.NewMemorySessionStore(time.Hour, nil, nil)
	session := middleware.Session(store, middleware.SessionCookie{Name: "ef_session", MaxAge: time.Hour}, xlogger.Nop())

	e := echo.New()
	NewDashboardEchoHandler(xlogger.Nop(), uc, session).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "ef_session" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestUnlockFlow(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/signals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	var locked struct {
		Unlocked bool              `json:"unlocked"`
		Rows     []json.RawMessage `json:"rows"`
		Total    int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &locked))
	assert.False(t, locked.Unlocked)
	assert.Len(t, locked.Rows, 2)
	assert.Equal(t, 3, locked.Total)

	rec, _ = do(t, e, http.MethodGet, "/api/chart", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/access", `{"key":"EF-0000-00000000"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_KEY")

	rec, env = do(t, e, http.MethodPost, "/api/access", `{"key":"ef-26q1-a9f4kz2m"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var status struct {
		Unlocked      bool   `json:"unlocked"`
		KeyMask       string `json:"key_mask"`
		DaysRemaining int    `json:"days_remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Unlocked)
	assert.Equal(t, "EF-26Q1-****KZ2M", status.KeyMask)
	assert.Equal(t, 30, status.DaysRemaining)

	_, env = do(t, e, http.MethodGet, "/api/signals", "", cookie)
	require.NoError(t, json.Unmarshal(env.Data, &locked))
	assert.True(t, locked.Unlocked)
	assert.Len(t, locked.Rows, 3)

	rec, env = do(t, e, http.MethodGet, "/api/chart", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var chart struct {
		Symbol   string `json:"symbol"`
		TVSymbol string `json:"tv_symbol"`
		Options  []struct {
			Symbol string `json:"symbol"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chart))
	assert.Equal(t, "SSE:600519", chart.TVSymbol)
	require.Len(t, chart.Options, 3)
	assert.Equal(t, "002594", chart.Options[2].Symbol)

	rec, _ = do(t, e, http.MethodGet, "/api/chart?symbol=abc", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodDelete, "/api/access", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, e, http.MethodGet, "/api/chart", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	e := newTestServer(t)

	recA, _ := do(t, e, http.MethodGet, "/api/access", "", nil)
	a := sessionCookie(t, recA)
	recB, _ := do(t, e, http.MethodGet, "/api/access", "", nil)
	b := sessionCookie(t, recB)
	require.NotEqual(t, a.Value, b.Value)

	rec, _ := do(t, e, http.MethodPost, "/api/access", `{"key":"EF-26Q1-A9F4KZ2M"}`, a)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/chart", "", a)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, e, http.MethodGet, "/api/chart", "", b)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessValidation(t *testing.T) {
	e := newTestServer(t)
	rec, _ := do(t, e, http.MethodPost, "/api/access", `{"key":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"key"`)
}

func TestRegimeAndHistory(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/regime", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var card struct {
		Available  bool   `json:"available"`
		Regime     string `json:"regime"`
		TargetDate string `json:"target_date"`
		Shibor2W   string `json:"shibor_2w"`
		RSI5       string `json:"rsi_5"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &card))
	assert.True(t, card.Available)
	assert.Equal(t, "risk_on", card.Regime)
	assert.Equal(t, "2026-02-10", card.TargetDate)
	assert.Equal(t, "1.520%", card.Shibor2W)
	assert.Equal(t, "51.0", card.RSI5)

	rec, env = do(t, e, http.MethodGet, "/api/history?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist struct {
		Records []struct {
			CalculationDate string `json:"calculation_date"`
			EffectiveDate   string `json:"effective_date"`
		} `json:"records"`
		Stats struct {
			TotalDays  int `json:"total_days"`
			RiskOnDays int `json:"risk_on_days"`
		} `json:"stats"`
		Current string `json:"current"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	require.Len(t, hist.Records, 2)
	assert.Equal(t, "2026-02-09", hist.Records[0].CalculationDate)
	assert.Equal(t, "2026-02-10", hist.Records[0].EffectiveDate)
	assert.Equal(t, "2026-02-07", hist.Records[1].EffectiveDate)
	assert.Equal(t, 2, hist.Stats.TotalDays)
	assert.Equal(t, 1, hist.Stats.RiskOnDays)
	assert.Equal(t, "risk_on", hist.Current)

	// limits above the configured ceiling are capped
	_, env = do(t, e, http.MethodGet, "/api/history?limit=3", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Len(t, hist.Records, 2)

	rec, _ = do(t, e, http.MethodGet, "/api/history?limit=1000", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnlockThrottlesCookielessClient(t *testing.T) {
	e := newTestServer(t)

	counts := map[int]int{}
	for i := 0; i < 12; i++ {
		rec, _ := do(t, e, http.MethodPost, "/api/access", `{"key":"EF-0000-00000000"}`, nil)
		counts[rec.Code]++
	}
	assert.Equal(t, 8, counts[http.StatusUnauthorized])
	assert.Equal(t, 4, counts[http.StatusTooManyRequests])
}
