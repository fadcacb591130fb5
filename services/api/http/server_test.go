package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/mapview"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error string                 `json:"error"`
}

type snapshotBody struct {
	ID       string       `json:"id"`
	Selected string       `json:"selected"`
	View     session.View `json:"view"`
	Base     string       `json:"base_layer"`
	ShowLine bool         `json:"show_line"`
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: 8080},
		Anchor: config.AnchorConfig{Name: "Loma escondida", Lat: 23.009139, Lon: -109.732472},
		Map: config.MapConfig{
			ClickThresholdKM: catalog.DefaultClickThresholdKM,
			FocusZoom:        14,
			AnchorZoom:       15,
			DefaultLat:       23.0,
			DefaultLon:       -109.73,
			DefaultZoom:      11,
			ShowLine:         true,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := testConfig()
	rows := []catalog.RawRow{
		{catalog.ColName: "Santarena", catalog.ColCategory: "Residencial", catalog.ColLat: "23.0100", catalog.ColLon: "-109.7200"},
		{catalog.ColName: "Dunna", catalog.ColLat: "23.0500", catalog.ColLon: "-109.6900"},
		{catalog.ColName: "Sin Coordenadas"},
	}
	store := catalog.Build(rows, catalog.BuildOptions{Tables: catalog.DefaultTables(), AnchorName: cfg.Anchor.Name})
	layers := mapview.DefaultLayers()
	settings := cfg.SessionSettings(mapview.LayerNames(layers))

	return New(cfg, Deps{
		Catalog:  store,
		Sessions: session.NewRegistry(store, settings, 10),
		Layers:   layers,
	})
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	id, ok := env.Meta["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func snapshotOf(t *testing.T, w *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	var snap snapshotBody
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &snap))
	return snap
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMissingDataSourceBlocksAPI(t *testing.T) {
	srv := New(testConfig(), Deps{CatalogErr: catalog.ErrMissingDataSource})

	w := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w).Error, "CSV")

	w = do(t, srv, http.MethodGet, "/api/v1/developments", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, srv, http.MethodGet, "/healthz", "")
	assert.JSONEq(t, `{"status":"degraded"}`, w.Body.String())
}

func TestListDevelopments(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/developments", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))

	env := decode(t, w)
	var records []catalog.Record
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "Santarena", records[0].Name)
	assert.EqualValues(t, 3, env.Meta["count"])
	assert.EqualValues(t, 2, env.Meta["mappable"])
}

func TestExportDevelopments(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/developments/export.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "competencia_los_cabos.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestGetDevelopment(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/developments/Santarena", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Contains(t, env.Meta["distance_label"], "Distancia a Loma escondida:")

	w = do(t, srv, http.MethodGet, "/api/v1/developments/Sin%20Coordenadas", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w).Meta["distance_label"])

	w = do(t, srv, http.MethodGet, "/api/v1/developments/Nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapLayers(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/map/layers", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.EqualValues(t, 3, env.Meta["count"])
	assert.Equal(t, "Esri World Imagery", env.Meta["default"])
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := snapshotOf(t, w)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "Santarena", snap.Selected)
	assert.Equal(t, 14, snap.View.Zoom)
	assert.Equal(t, "Esri World Imagery", snap.Base)

	w = do(t, srv, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelect(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/select", `{"name":"Dunna"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := snapshotOf(t, w)
	assert.Equal(t, "Dunna", snap.Selected)
	assert.InDelta(t, 23.05, snap.View.Center.Lat, 1e-9)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/select", `{"name":"Nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/unknown/select", `{"name":"Dunna"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNavigateSuppressesNextClick(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/navigate", `{"direction":"prev"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sin Coordenadas", snapshotOf(t, w).Selected)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":23.05,"lon":-109.69}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	click := env.Meta["click"].(map[string]interface{})
	assert.Equal(t, string(session.ClickSuppressed), click["outcome"])

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/navigate", `{"direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClickSelectsNearest(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":23.0501,"lon":-109.6901}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	click := env.Meta["click"].(map[string]interface{})
	assert.Equal(t, string(session.ClickMatched), click["outcome"])
	assert.Equal(t, true, click["changed"])
	assert.Equal(t, "Dunna", snapshotOf(t, w).Selected)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":23.0501,"lon":-109.6901}`)
	click = decode(t, w).Meta["click"].(map[string]interface{})
	assert.Equal(t, string(session.ClickDuplicate), click["outcome"])

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":24.5,"lon":-110.5}`)
	click = decode(t, w).Meta["click"].(map[string]interface{})
	assert.Equal(t, string(session.ClickNoMatch), click["outcome"])

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":23.0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", `{"lat":123.0,"lon":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReturnToAnchorLocksOnce(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/anchor", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := snapshotOf(t, w)
	assert.True(t, snap.View.Locked)
	assert.Equal(t, 15, snap.View.Zoom)

	w = do(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/select", `{"name":"Dunna"}`)
	snap = snapshotOf(t, w)
	assert.Equal(t, "Dunna", snap.Selected)
	assert.False(t, snap.View.Locked)
	assert.Equal(t, 15, snap.View.Zoom)
	assert.InDelta(t, 23.009139, snap.View.Center.Lat, 1e-9)
}

func TestPreferences(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodPut, "/api/v1/sessions/"+id+"/preferences", `{"base_layer":"OpenStreetMap","show_line":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := snapshotOf(t, w)
	assert.Equal(t, "OpenStreetMap", snap.Base)
	assert.False(t, snap.ShowLine)

	w = do(t, srv, http.MethodPut, "/api/v1/sessions/"+id+"/preferences", `{"base_layer":"Stamen"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSessionMap(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodGet, "/api/v1/sessions/"+id+"/map", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Santarena", env.Meta["selected"])
	// anchor, two developments, distance line
	assert.EqualValues(t, 4, env.Meta["features"])

	var surface struct {
		Layer    mapview.TileLayer `json:"layer"`
		Features struct {
			Type string `json:"type"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &surface))
	assert.Equal(t, "FeatureCollection", surface.Features.Type)
	assert.Equal(t, "Esri World Imagery", surface.Layer.Name)
}

func TestSessionCard(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	w := do(t, srv, http.MethodGet, "/api/v1/sessions/"+id+"/card", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Santarena")
	assert.Contains(t, body, "Residencial")
	assert.Contains(t, body, "Distancia a Loma escondida:")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodOptions, "/api/v1/sessions", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
