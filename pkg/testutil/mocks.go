package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockWellDataServer is a mock HTTP well data API compatible with the
// http provider: GET /wells, /wells/{id}/production, /wells/{id}/properties.
type MockWellDataServer struct {
	Server     *httptest.Server
	Wells      map[string]*MockWell
	mu         sync.RWMutex
	RequestLog []MockRequest
	APIKey     string
	ShouldFail bool
}

// MockWell holds the canned responses for one well.
type MockWell struct {
	WellID     string                 `json:"well_id"`
	Name       string                 `json:"name"`
	Field      string                 `json:"field"`
	FluidType  string                 `json:"fluid_type"`
	Production map[string]interface{} `json:"-"`
	Properties map[string]interface{} `json:"-"`
}

// MockRequest logs one incoming request.
type MockRequest struct {
	Method    string
	Path      string
	APIKey    string
	Timestamp time.Time
}

// NewMockWellDataServer starts a mock server with no wells registered.
func NewMockWellDataServer() *MockWellDataServer {
	mock := &MockWellDataServer{
		Wells: make(map[string]*MockWell),
	}
	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handleRequest))
	return mock
}

// URL returns the base URL of the running mock server.
func (m *MockWellDataServer) URL() string {
	return m.Server.URL
}

// Close shuts the mock server down.
func (m *MockWellDataServer) Close() {
	m.Server.Close()
}

// AddWell registers a well with its production and property payloads.
func (m *MockWellDataServer) AddWell(well *MockWell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Wells[well.WellID] = well
}

// SimpleWell builds a well with a constant-rate history of n daily points.
func SimpleWell(id string, n int, rate float64) *MockWell {
	dates := make([]string, n)
	rates := make([]float64, n)
	cums := make([]float64, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i).Format(time.RFC3339)
		rates[i] = rate
		cums[i] = rate * float64(i+1)
	}
	return &MockWell{
		WellID:    id,
		Name:      "Well " + id,
		Field:     "Test Field",
		FluidType: "oil",
		Production: map[string]interface{}{
			"dates":       dates,
			"rates":       rates,
			"cumulatives": cums,
		},
		Properties: map[string]interface{}{
			"initial_pressure":        5000.0,
			"wellbore_radius":         0.35,
			"net_pay_thickness":       50.0,
			"porosity":                0.12,
			"total_compressibility":   1e-5,
			"viscosity":               0.8,
			"formation_volume_factor": 1.2,
		},
	}
}

func (m *MockWellDataServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestLog = append(m.RequestLog, MockRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		APIKey:    r.Header.Get("X-API-Key"),
		Timestamp: time.Now(),
	})
	m.mu.Unlock()

	if m.ShouldFail {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if m.APIKey != "" && r.Header.Get("X-API-Key") != m.APIKey {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "wells":
		m.listWells(w)
	case len(parts) == 3 && parts[0] == "wells":
		m.wellDetail(w, parts[1], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (m *MockWellDataServer) listWells(w http.ResponseWriter) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wells := make([]*MockWell, 0, len(m.Wells))
	for _, well := range m.Wells {
		wells = append(wells, well)
	}
	writeJSON(w, wells)
}

func (m *MockWellDataServer) wellDetail(w http.ResponseWriter, id, resource string) {
	m.mu.RLock()
	well, ok := m.Wells[id]
	m.mu.RUnlock()

	if !ok {
		http.Error(w, "well not found", http.StatusNotFound)
		return
	}

	switch resource {
	case "production":
		writeJSON(w, well.Production)
	case "properties":
		writeJSON(w, well.Properties)
	default:
		http.Error(w, "unknown resource", http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
