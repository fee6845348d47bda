package embedding_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/floats"

	"github.com/okian/skillpulse/internal/adapters/embedding"
)

func TestUnavailable(t *testing.T) {
	Convey("Given the disabled provider", t, func() {
		p := embedding.Unavailable{}
		So(p.Available(), ShouldBeFalse)
		_, err := p.Encode(context.Background(), []string{"x"})
		So(errors.Is(err, embedding.ErrUnavailable), ShouldBeTrue)
	})
}

func TestHashing(t *testing.T) {
	Convey("Given a hashing provider", t, func() {
		h := embedding.NewHashing(64)
		ctx := context.Background()

		Convey("Vectors are unit length and deterministic", func() {
			a, err := h.Encode(ctx, []string{"machine learning", "machine learning"})
			So(err, ShouldBeNil)
			So(len(a), ShouldEqual, 2)
			So(len(a[0]), ShouldEqual, 64)
			So(floats.Norm(a[0], 2), ShouldAlmostEqual, 1.0, 1e-9)
			So(floats.Equal(a[0], a[1]), ShouldBeTrue)
		})

		Convey("Related phrases are closer than unrelated ones", func() {
			v, err := h.Encode(ctx, []string{"machine learning", "machine learning engineer", "warehouse forklift"})
			So(err, ShouldBeNil)
			So(floats.Dot(v[0], v[1]), ShouldBeGreaterThan, floats.Dot(v[0], v[2]))
		})

		Convey("Non-positive dimensions select the default", func() {
			So(embedding.NewHashing(0).Dimensions(), ShouldEqual, 384)
		})

		Convey("A cancelled context stops encoding", func() {
			c, cancel := context.WithCancel(ctx)
			cancel()
			_, err := h.Encode(c, []string{"a"})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestHTTP(t *testing.T) {
	Convey("Given an OpenAI-compatible embeddings server", t, func() {
		var calls atomic.Int32
		var gotAuth atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			gotAuth.Store(r.Header.Get("Authorization"))
			if r.URL.Path != "/v1/embeddings" {
				http.NotFound(w, r)
				return
			}
			var req struct {
				Model string   `json:"model"`
				Input []string `json:"input"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			type item struct {
				Index     int       `json:"index"`
				Embedding []float64 `json:"embedding"`
			}
			resp := struct {
				Data []item `json:"data"`
			}{}
			// reversed order; the client must sort by index
			for i := len(req.Input) - 1; i >= 0; i-- {
				resp.Data = append(resp.Data, item{Index: i, Embedding: []float64{float64(len(req.Input[i])), 1}})
			}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		p := embedding.NewHTTP(srv.URL+"/v1/",
			embedding.WithModel("mini"),
			embedding.WithAPIKey("secret"),
			embedding.WithBatchSize(2),
			embedding.WithRateLimit(1000),
		)

		Convey("Inputs are batched and returned in order", func() {
			vecs, err := p.Encode(context.Background(), []string{"a", "bb", "ccc"})
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 2)
			So(vecs, ShouldResemble, [][]float64{{1, 1}, {2, 1}, {3, 1}})
			So(gotAuth.Load(), ShouldEqual, "Bearer secret")
			So(p.Available(), ShouldBeTrue)
		})
	})

	Convey("Given a failing server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := embedding.NewHTTP(srv.URL).Encode(context.Background(), []string{"a"})
		So(errors.Is(err, embedding.ErrBadResponse), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "503")
	})

	Convey("Given a server returning too few vectors", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
		}))
		defer srv.Close()

		_, err := embedding.NewHTTP(srv.URL).Encode(context.Background(), []string{"a", "b"})
		So(errors.Is(err, embedding.ErrBadResponse), ShouldBeTrue)
	})

	Convey("An empty base URL is unavailable", t, func() {
		So(embedding.NewHTTP("").Available(), ShouldBeFalse)
	})
}
