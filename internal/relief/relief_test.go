package relief

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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/poi"
	"github.com/iReady/iReady-Backend/internal/utils"
)

const sampleFile = `[
  {"adm4_pcode": "PH137504001", "wealth_mean": 0.42, "pop_30min": 15234, "pred_paracetamol": 120, "pred_rice_sacks": 40, "pred_blanket": 75, "pred_drinking_water": 300, "note": "coastal"},
  {"adm4_pcode": "PH137504002", "wealth_mean": 0.51, "pred_canned_goods": 64, "pred_face_mask": 200},
  {"adm4_pcode": "PH137504012", "wealth_mean": null, "pred_tent": 8},
  {"wealth_mean": 0.3}
]`

func mustParse(t *testing.T) *Store {
	t.Helper()
	s, err := Parse([]byte(sampleFile))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	s := mustParse(t)
	require.Len(t, s.Records(), 4)

	p, err := s.Find("PH137504001")
	require.NoError(t, err)
	assert.Equal(t, 0.42, p.Values["wealth_mean"])
	assert.Equal(t, 120.0, p.Values["pred_paracetamol"])
	assert.NotContains(t, p.Values, "note")

	p, err = s.Find("PH137504012")
	require.NoError(t, err)
	assert.NotContains(t, p.Values, "wealth_mean")

	_, err = s.Find("PH000000000")
	assert.True(t, errors.Is(err, ErrPredictionNotFound))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"adm4_pcode": "x"}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ToReceive.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(sampleFile), s.Raw())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCodesSkipsEmpty(t *testing.T) {
	assert.Equal(t, []string{"PH137504001", "PH137504002", "PH137504012"}, mustParse(t).Codes())
}

func TestPredictionMarshalKeepsRecord(t *testing.T) {
	p, err := mustParse(t).Find("PH137504001")
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"note":"coastal"`)

	built := Prediction{Code: "PH1", Values: map[string]float64{"pred_tent": 2}}
	out, err = json.Marshal(built)
	require.NoError(t, err)
	assert.JSONEq(t, `{"adm4_pcode": "PH1", "pred_tent": 2}`, string(out))
}

func TestSearch(t *testing.T) {
	s := mustParse(t)

	assert.Len(t, s.Search(""), 4)

	exact := s.Search("ph137504001")
	require.Len(t, exact, 1)
	assert.Equal(t, "PH137504001", exact[0].Code)

	partial := s.Search("PH1375040")
	assert.Len(t, partial, 3)

	assert.Empty(t, s.Search("PH99"))
}

func TestSearchCapsResults(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 30; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"adm4_pcode": "PH1375040%02d"}`, i)
	}
	b.WriteString("]")
	s, err := Parse([]byte(b.String()))
	require.NoError(t, err)

	assert.Len(t, s.Search(""), MaxSearchResults)
	assert.Len(t, s.Search("PH137"), MaxSearchResults)
}

func TestCategorize(t *testing.T) {
	p, err := mustParse(t).Find("PH137504001")
	require.NoError(t, err)

	c := Categorize(p)
	assert.Equal(t, map[string]float64{"paracetamol": 120}, c.Medical)
	assert.Equal(t, map[string]float64{"rice sacks": 40}, c.Food)
	assert.Equal(t, map[string]float64{"blanket": 75}, c.Shelter)
	assert.Equal(t, map[string]float64{"drinking water": 300}, c.Water)
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// "baby" is food even though "cloth" would make it shelter.
	p := Prediction{Values: map[string]float64{"pred_baby_cloth": 3, "pred_face_mask": 9}}
	c := Categorize(p)
	assert.Equal(t, map[string]float64{"baby cloth": 3}, c.Food)
	assert.Equal(t, map[string]float64{"face mask": 9}, c.Medical)
	assert.Empty(t, c.Shelter)
}

func TestFeatures(t *testing.T) {
	p, err := mustParse(t).Find("PH137504001")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"wealth_mean": 0.42, "pop_30min": 15234}, p.Features())
	assert.Equal(t, []string{"pred_blanket", "pred_drinking_water", "pred_paracetamol", "pred_rice_sacks"}, p.PredictionKeys())
}

// countingStore is a poi.Store whose contents can change between calls.
type countingStore struct {
	pois  []placement.POI
	calls int
}

func (c *countingStore) All(context.Context) ([]placement.POI, error) {
	c.calls++
	return c.pois, nil
}

var _ poi.Store = (*countingStore)(nil)

func TestMarkerServiceMemoises(t *testing.T) {
	pois := &countingStore{pois: []placement.POI{
		{ID: "1", Name: "City Hall", Lat: 14.4338, Lon: 120.9360},
	}}
	codes := []string{"PH137504001", "PH137504002"}
	svc := NewMarkerService(placement.DefaultLayout(), func() []string { return codes }, pois)

	first, err := svc.Markers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, first, placement.DefaultDisplayCount)

	second, err := svc.Markers(context.Background(), 0)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "unchanged inputs reuse the cached layout")

	pois.pois = append(pois.pois, placement.POI{ID: "2", Name: "Chapel", Lat: 14.4402, Lon: 120.9381})
	third, err := svc.Markers(context.Background(), 0)
	require.NoError(t, err)
	assert.NotSame(t, &first[0], &third[0], "new POIs force a recompute")
	assert.Equal(t, placement.DefaultLayout().Place(codes, pois.pois), third)

	fewer, err := svc.Markers(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, fewer, 5)
}

func TestMarkerServiceRejectsHugeCount(t *testing.T) {
	svc := NewMarkerService(placement.DefaultLayout(), func() []string { return nil }, poi.NewFileStore(nil))
	_, err := svc.Markers(context.Background(), MaxMarkerCount+1)
	assert.Error(t, err)
}

type sessionStub struct{}

func (sessionStub) FindSessionByID(id string) (utils.SessionData, error) {
	if id != "good" {
		return utils.SessionData{}, errors.New("no session")
	}
	return utils.SessionData{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := mustParse(t)
	h := &Handler{
		Predictions: s,
		Markers: NewMarkerService(placement.DefaultLayout(), s.Codes, poi.NewFileStore([]placement.POI{
			{ID: "1", Name: "City Hall", Lat: 14.4338, Lon: 120.9360},
		})),
	}
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) { RegisterRoutes(r, h, sessionStub{}) })
	RegisterRawRoutes(r, h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, session string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: session})
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCodesHandler(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/toreceive", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Codes []string `json:"codes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Codes, 3)
}

func TestADM4Handler(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/adm4?q=PH137504002", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "PH137504002", body.Results[0]["adm4_pcode"])
	assert.Equal(t, 64.0, body.Results[0]["pred_canned_goods"])
}

func TestPredictionHandler(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/predictions/PH137504002", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Code     string           `json:"adm4_pcode"`
		Supplies CategorySupplies `json:"supplies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "PH137504002", body.Code)
	assert.Equal(t, 64.0, body.Supplies.Food["canned goods"])
	assert.Equal(t, 200.0, body.Supplies.Medical["face mask"])

	resp = get(t, srv.URL+"/api/predictions/PH000", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkersHandler(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/api/markers", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv.URL+"/api/markers?count=abc", "good")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/api/markers", "good")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Markers []placement.DisplayMarker `json:"markers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Markers, placement.DefaultDisplayCount)
	assert.Equal(t, "PH137504001", body.Markers[0].Code)
	assert.Equal(t, "PH137504002", body.Markers[1].Code)
	assert.Equal(t, "PH137504012", body.Markers[2].Code)
	for _, m := range body.Markers {
		assert.True(t, placement.LandBox.Contains(placement.GeoPoint{Lat: m.Lat, Lon: m.Lon}))
	}

	resp = get(t, srv.URL+"/api/markers?count=7", "good")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Markers, 7)
}

func TestRawRoutes(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/ToReceive.json", "/data/ToReceive.json"} {
		resp := get(t, srv.URL+path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	}
}

func TestMarkersHandlerServerTiming(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/markers", "good")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Server-Timing"), "place;dur="))
}
