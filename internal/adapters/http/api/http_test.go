package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/skillpulse/internal/adapters/http/api"
	service "github.com/okian/skillpulse/internal/app"
	"github.com/okian/skillpulse/internal/domain/model"
)

// Mock implementations for testing
type mockDependencies struct {
	skill    string
	months   int
	minSize  int
	limit    int
	forecast error
	emerging error
	top      error
}

func (m *mockDependencies) Forecast(_ context.Context, skill string, months int) (model.ForecastResult, error) {
	m.skill, m.months = skill, months
	if m.forecast != nil {
		return model.ForecastResult{}, m.forecast
	}
	return model.ForecastResult{
		Skill:        skill,
		ForecastData: []model.ForecastPoint{{Date: "2025-01-01", Predicted: 10, LowerBound: 8, UpperBound: 12}},
		Trend:        "Stable demand for " + skill + ": 0.0% change expected",
	}, nil
}

func (m *mockDependencies) EmergingSkills(_ context.Context, minSize int) (model.EmergingSkills, error) {
	m.minSize = minSize
	if m.emerging != nil {
		return model.EmergingSkills{}, m.emerging
	}
	return model.EmergingSkills{
		EmergingSkills:  []model.EmergingSkill{{Skill: "Vector Search", ConfidenceScore: 0.5, Frequency: 4, Trend: model.TrendGrowing}},
		TotalCandidates: 1,
	}, nil
}

func (m *mockDependencies) TopSkills(_ context.Context, limit int) ([]model.SkillCount, error) {
	m.limit = limit
	if m.top != nil {
		return nil, m.top
	}
	return []model.SkillCount{{Skill: "python", Count: 3, Percentage: 60}}, nil
}

func (m *mockDependencies) SkillsByLocation(_ context.Context, limit int) ([]model.LocationSkills, error) {
	m.limit = limit
	return []model.LocationSkills{{Location: "Berlin", Skills: []model.SkillCount{{Skill: "go", Count: 1, Percentage: 100}}}}, nil
}

type mockStatsProvider struct {
	stats model.ServiceStats
}

func (m *mockStatsProvider) GetStats() model.ServiceStats {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: model.ServiceStats{Started: true, WorkerCount: 2, Embedder: "hashing"}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) (code, message string) {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code, body.Message
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Root returns the banner", func() {
			w := do(mux, "GET", "/", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Mind2Market API")
			So(w.Body.String(), ShouldContainSubstring, `"version":"2.0.0"`)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Health reports healthy", func() {
			w := do(mux, "GET", "/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"healthy"`)
			So(w.Body.String(), ShouldContainSubstring, `"service":"job-market-analytics"`)
		})

		Convey("Stats are served as JSON", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")

			var got model.ServiceStats
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got.Started, ShouldBeTrue)
			So(got.WorkerCount, ShouldEqual, 2)
			So(got.Embedder, ShouldEqual, "hashing")
			So(w.Body.String(), ShouldNotContainSubstring, `"sink"`)
		})

		Convey("Metrics are exposed after a request", func() {
			do(mux, "GET", "/health", "")
			w := do(mux, "GET", "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "skillpulse_api_http_requests_total")
		})

		Convey("Unknown paths are not found", func() {
			So(do(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("A supplied request id is echoed", func() {
			req := httptest.NewRequest("GET", "/health", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-123")
		})
	})
}

func TestForecastHandler(t *testing.T) {
	Convey("Given the forecast routes", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("POST with a body forecasts", func() {
			w := do(mux, "POST", "/v1/skills/forecast", `{"skill":" python ","months":3}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.skill, ShouldEqual, "python")
			So(deps.months, ShouldEqual, 3)
			So(w.Body.String(), ShouldContainSubstring, `"forecast_data"`)
		})

		Convey("POST without months defaults to 6", func() {
			w := do(mux, "POST", "/v1/skills/forecast", `{"skill":"go"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.months, ShouldEqual, 6)
		})

		Convey("GET reads the query", func() {
			w := do(mux, "GET", "/v1/skills/forecast?skill=rust&months=24", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.skill, ShouldEqual, "rust")
			So(deps.months, ShouldEqual, 24)
		})

		Convey("Invalid parameters are rejected before the core", func() {
			cases := []struct {
				method, target, body string
			}{
				{"POST", "/v1/skills/forecast", `{"skill":"go","months":0}`},
				{"POST", "/v1/skills/forecast", `{"skill":"go","months":25}`},
				{"POST", "/v1/skills/forecast", `{"months":3}`},
				{"POST", "/v1/skills/forecast", `{"skill":`},
				{"GET", "/v1/skills/forecast?skill=go&months=abc", ""},
				{"GET", "/v1/skills/forecast?skill=go&months=-1", ""},
				{"GET", "/v1/skills/forecast?months=3", ""},
			}
			for _, c := range cases {
				deps.skill = ""
				w := do(mux, c.method, c.target, c.body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "bad_request")
				So(deps.skill, ShouldBeEmpty)
			}
		})

		Convey("Unexpected failures return 500 with code and message", func() {
			deps.forecast = errors.New("boom")
			w := do(mux, "GET", "/v1/skills/forecast?skill=go", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			code, msg := decodeError(w)
			So(code, ShouldEqual, "internal_error")
			So(msg, ShouldContainSubstring, "boom")
			So(msg, ShouldNotContainSubstring, "goroutine")
		})

		Convey("Other methods are not found", func() {
			So(do(mux, "DELETE", "/v1/skills/forecast", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEmergingHandler(t *testing.T) {
	Convey("Given the emerging route", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("The default minimum cluster size is 3", func() {
			w := do(mux, "GET", "/v2/skills/emerging", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.minSize, ShouldEqual, 3)
			So(w.Body.String(), ShouldContainSubstring, `"total_candidates":1`)
		})

		Convey("Bounds are inclusive", func() {
			for _, n := range []int{2, 10} {
				w := do(mux, "GET", fmt.Sprintf("/v2/skills/emerging?min_cluster_size=%d", n), "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.minSize, ShouldEqual, n)
			}
		})

		Convey("Out of range sizes are rejected", func() {
			for _, q := range []string{"1", "11", "x"} {
				w := do(mux, "GET", "/v2/skills/emerging?min_cluster_size="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("Backpressure maps to 429", func() {
			deps.emerging = fmt.Errorf("%w: queue full", service.ErrBackpressure)
			w := do(mux, "GET", "/v2/skills/emerging", "")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			code, _ := decodeError(w)
			So(code, ShouldEqual, "backpressure")
		})

		Convey("A stopped service maps to 503", func() {
			deps.emerging = service.ErrNotStarted
			So(do(mux, "GET", "/v2/skills/emerging", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("A timeout maps to 504", func() {
			deps.emerging = fmt.Errorf("job: %w", context.DeadlineExceeded)
			So(do(mux, "GET", "/v2/skills/emerging", "").Code, ShouldEqual, http.StatusGatewayTimeout)
		})
	})
}

func TestAnalyticsHandler(t *testing.T) {
	Convey("Given the analytics routes", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Top skills default to 20", func() {
			w := do(mux, "GET", "/v1/skills/top", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.limit, ShouldEqual, 20)
			So(w.Body.String(), ShouldContainSubstring, `"percentage":60`)
		})

		Convey("Top skills reject limits above 100", func() {
			So(do(mux, "GET", "/v1/skills/top?limit=101", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("By location defaults to 10 and caps at 50", func() {
			w := do(mux, "GET", "/v1/skills/by-location", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.limit, ShouldEqual, 10)
			So(do(mux, "GET", "/v1/skills/by-location?limit_per_location=51", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Service failures return 500", func() {
			deps.top = errors.New("snapshot missing")
			So(do(mux, "GET", "/v1/skills/top", "").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("cause")

		Convey("WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")
		})

		Convey("NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrBackpressure)
			So(errors.Is(err, api.ErrBackpressure), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: backpressure")
		})

		Convey("Wrap of nil is nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: cause")
		})
	})
}
