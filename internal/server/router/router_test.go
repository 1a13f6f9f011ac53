package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/format"
	"github.com/mamadbah2/assetvista/internal/pipeline"
	"github.com/mamadbah2/assetvista/internal/repository/memory"
	"github.com/mamadbah2/assetvista/internal/repository/sqlite"
	"github.com/mamadbah2/assetvista/internal/server/handlers"
	"github.com/mamadbah2/assetvista/internal/service/assets"
	"github.com/mamadbah2/assetvista/internal/service/audit"
	"github.com/mamadbah2/assetvista/internal/service/notify"
	"github.com/mamadbah2/assetvista/internal/service/reporting"
	"github.com/mamadbah2/assetvista/internal/service/session"
)

type testServer struct {
	handler  http.Handler
	sessions *session.Service
	recorder *notify.Recorder
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	kv, err := sqlite.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	repo := memory.New(models.SampleAssets())
	recorder := notify.NewRecorder(10)
	sessions := session.NewService(kv, nil)
	trail := audit.NewService(kv, sessions, nil)
	store := assets.NewStore(repo, recorder, nil, assets.WithAuditTrail(trail))
	require.NoError(t, store.Load(context.Background()))

	engine, err := pipeline.NewEngine(32)
	require.NoError(t, err)
	reports := reporting.NewService(store, engine, format.NewCurrencyFormatter(format.DefaultUnits()), reporting.Options{
		Snapshots: repo,
		Notifier:  recorder,
		Audit:     trail,
	})

	r := New(Handlers{
		Session: handlers.NewSessionHandler(sessions, nil),
		Assets:  handlers.NewAssetHandler(store, reports, nil),
		Reports: handlers.NewReportHandler(reports, recorder, nil),
		Audit:   handlers.NewAuditHandler(trail, nil),
	}, sessions, nil)
	return testServer{handler: r, sessions: sessions, recorder: recorder}
}

func (s testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s testServer) login(t *testing.T) {
	t.Helper()
	_, err := s.sessions.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "page not found")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"view":"login"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/session/login", `{"email":"","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/session/login", `{"email":"priya@example.com","password":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		User models.User `json:"user"`
	}
	decode(t, w, &login)
	assert.Equal(t, "priya", login.User.Name)
	assert.Equal(t, models.RoleAdmin, login.User.Role)

	w = s.do(t, http.MethodGet, "/api/session", "")
	assert.Contains(t, w.Body.String(), `"view":"dashboard"`)

	w = s.do(t, http.MethodPost, "/api/session/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNavigationMarksCurrent(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/navigation?current=/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []models.NavEntry `json:"items"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Items, len(models.Sidebar))
	assert.False(t, resp.Items[0].Active)
	assert.True(t, resp.Items[1].Active)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var d reporting.Dashboard
	decode(t, w, &d)
	assert.Equal(t, 10, d.TotalAssets)
	assert.Equal(t, "₹2436.68Cr", d.Cards[1].Value)
}

func TestAssetList_SortAndValidation(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/assets?sort=grandTotal&dir=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var table reporting.Table
	decode(t, w, &table)
	assert.Equal(t, "Moulds", table.Rows[0].AssetClass)
	assert.Equal(t, "Showing 10 of 10 assets", table.Summary)

	w = s.do(t, http.MethodGet, "/api/assets?sort=colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/assets?toggle=colour", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/assets?sort=grandTotal&dir=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssetList_ToggleColumn(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/assets?sort=grandTotal&dir=asc&toggle=grandTotal", "")
	require.Equal(t, http.StatusOK, w.Code)
	var table reporting.Table
	decode(t, w, &table)
	assert.Equal(t, pipeline.SortSpec{Field: models.FieldGrandTotal, Direction: pipeline.Descending}, table.Sort)
	assert.Equal(t, "Moulds", table.Rows[0].AssetClass)

	w = s.do(t, http.MethodGet, "/api/assets?sort=grandTotal&dir=desc&toggle=assetName", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &table)
	assert.Equal(t, pipeline.SortSpec{Field: models.FieldAssetName, Direction: pipeline.Ascending}, table.Sort)

	// No explicit sort: the toggle applies to the default asset class sort.
	w = s.do(t, http.MethodGet, "/api/assets?toggle=assetClass", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &table)
	assert.Equal(t, pipeline.SortSpec{Field: models.FieldAssetClass, Direction: pipeline.Descending}, table.Sort)
}

func TestAddAndEditAsset(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodPost, "/api/assets", `{"assetName":"Forklift","assetType":"Plant & Machinery","purchaseValue":250000}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.AssetRecord
	decode(t, w, &created)
	assert.True(t, strings.HasPrefix(created.AssetID, "AST-"))
	assert.Equal(t, "250000", created.GrandTotal.String())
	assert.Equal(t, "225000", created.VerifiedAmount.String())
	assert.Equal(t, models.StatusActive, created.Status)

	w = s.do(t, http.MethodGet, "/api/assets/"+created.AssetID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/assets/"+created.AssetID, `{"assetName":"Forklift 2","status":"On Loan","grandTotal":"1000"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/assets/"+created.AssetID, "")
	var edited models.AssetRecord
	decode(t, w, &edited)
	assert.Equal(t, "Forklift 2", edited.AssetName)
	assert.Equal(t, models.StatusOnLoan, edited.Status)

	w = s.do(t, http.MethodPut, "/api/assets/AST-MISSING", `{"assetName":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/assets", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	titles := []string{}
	for _, n := range s.recorder.Recent() {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Asset added")
	assert.Contains(t, titles, "Asset updated")
}

func TestGroups(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/groups?groupBy=assetClass&measure=sum:grandTotal&order=measure&dir=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Measure string             `json:"measure"`
		Groups  []models.GroupView `json:"groups"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "sum:grandTotal", resp.Measure)
	require.Len(t, resp.Groups, 10)
	assert.Equal(t, "Moulds", resp.Groups[0].Key)

	for _, q := range []string{
		"/api/groups?groupBy=colour",
		"/api/groups?groupBy=assetClass&measure=avg",
		"/api/groups?groupBy=assetClass&measure=sum:assetName",
		"/api/groups?groupBy=assetClass&order=size",
	} {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, q, "").Code, q)
	}
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/reports/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=asset_report.csv", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), `"Asset ID","Asset Name"`))
	assert.Equal(t, 11, strings.Count(w.Body.String(), "\n"))
}

func TestClassPage(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/classes/land", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No Land Found")

	w = s.do(t, http.MethodGet, "/api/classes/spaceships", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiscrepanciesAndSnapshots(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.do(t, http.MethodGet, "/api/discrepancies", "")
	require.Equal(t, http.StatusOK, w.Code)
	var disc struct {
		Discrepancies []models.Discrepancy `json:"discrepancies"`
	}
	decode(t, w, &disc)
	assert.Len(t, disc.Discrepancies, 4)

	w = s.do(t, http.MethodPost, "/api/snapshots", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/snapshots?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalAssets":10`)

	w = s.do(t, http.MethodGet, "/api/snapshots?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Weekly asset report")
}

func TestAuditLog(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/audit-logs", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/session/login", `{"email":"priya@example.com","password":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/assets", `{"assetName":"Forklift","assetClass":"P&M","purchaseValue":250000}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.AssetRecord
	decode(t, w, &created)

	w = s.do(t, http.MethodPut, "/api/assets/"+created.AssetID, `{"assetName":"Forklift 2","status":"On Loan"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/reports/export", "").Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/snapshots", "").Code)

	w = s.do(t, http.MethodGet, "/api/audit-logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var log audit.Log
	decode(t, w, &log)
	require.Len(t, log.Entries, 4)
	assert.Equal(t, "Showing 4 of 4 entries", log.Summary)
	assert.Equal(t, models.AuditSnapshotCaptured, log.Entries[0].Action)
	assert.Equal(t, models.AuditReportExported, log.Entries[1].Action)
	assert.Equal(t, models.AuditAssetUpdated, log.Entries[2].Action)
	assert.Equal(t, models.AuditAssetCreated, log.Entries[3].Action)
	assert.Equal(t, created.AssetID, log.Entries[3].AssetID)
	assert.Equal(t, "Forklift", log.Entries[3].AssetName)
	for _, e := range log.Entries {
		assert.Equal(t, "priya", e.User)
		assert.False(t, e.At.IsZero())
	}

	w = s.do(t, http.MethodGet, "/api/audit-logs?q=forklift&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &log)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "Forklift 2", log.Entries[0].AssetName)
	assert.Equal(t, "Showing 1 of 4 entries", log.Summary)

	w = s.do(t, http.MethodGet, "/api/audit-logs?limit=-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
