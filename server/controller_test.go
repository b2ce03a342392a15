package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhartert/compression-routing/fragments"
	"github.com/rhartert/compression-routing/routing"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, opts ...routing.Option) http.Handler {
	t.Helper()
	n, err := routing.Compile(routing.Graph{
		"A": {{To: "B", Latency: 10}, {To: "C", Latency: 20}},
		"B": {{To: "D", Latency: 15}},
		"C": {{To: "D", Latency: 30}},
		"D": {},
		"E": {},
	})
	require.NoError(t, err)
	set, err := n.CompressionSet([]string{"B", "C"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewController(NewService(n, set, opts...), logger))
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestComputeRoute(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/routes", RouteRequest{Source: "A", Destination: "D"})

	require.Equal(t, http.StatusOK, rec.Code)
	got := RouteResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, RouteResult{
		Latency:      17,
		Path:         []string{"A", "B", "D"},
		CompressedAt: "B",
	}, got)
}

func TestComputeRoute_errors(t *testing.T) {
	testCases := []struct {
		desc     string
		body     any
		opts     []routing.Option
		wantCode int
	}{
		{
			desc:     "no path",
			body:     RouteRequest{Source: "A", Destination: "E"},
			wantCode: http.StatusNotFound,
		},
		{
			desc:     "unknown router",
			body:     RouteRequest{Source: "A", Destination: "Z"},
			wantCode: http.StatusBadRequest,
		},
		{
			desc:     "missing destination",
			body:     RouteRequest{Source: "A"},
			wantCode: http.StatusBadRequest,
		},
		{
			desc:     "unknown field",
			body:     `{"source": "A", "destination": "D", "via": "C"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			desc:     "invalid json",
			body:     `{"source": `,
			wantCode: http.StatusBadRequest,
		},
		{
			desc:     "budget exhausted",
			body:     RouteRequest{Source: "A", Destination: "D"},
			opts:     []routing.Option{routing.WithMaxPops(1)},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			h := newTestRouter(t, tc.opts...)

			rec := post(t, h, "/routes", tc.body)

			require.Equal(t, tc.wantCode, rec.Code)
			got := ErrorResult{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.NotEmpty(t, got.Error)
		})
	}
}

func TestAllocate(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/allocations", AllocationRequest{BaseRisks: []int64{10, 20, 30}, Fragments: 5})

	require.Equal(t, http.StatusOK, rec.Code)
	got := AllocationResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, AllocationResult{MaxRisk: "400", Fragments: []int{2, 2, 1}}, got)

	rec = post(t, h, "/allocations", AllocationRequest{Fragments: 5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAllocate_tooManyFragments(t *testing.T) {
	h := newTestRouter(t)

	rec := post(t, h, "/allocations", AllocationRequest{BaseRisks: []int64{2}, Fragments: 200000})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := ErrorResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Contains(t, got.Error, "too many fragments")
}

func TestDecode_bodyTooLarge(t *testing.T) {
	h := newTestRouter(t)
	body := `{"baseRisks": [` + strings.Repeat("1, ", maxBodyBytes/3) + `1], "fragments": 1}`

	rec := post(t, h, "/allocations", body)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestEncode_logsFailure(t *testing.T) {
	var logs bytes.Buffer
	c := NewController(nil, slog.New(slog.NewTextHandler(&logs, nil)))
	req := httptest.NewRequest(http.MethodPost, "/routes", nil)
	rec := httptest.NewRecorder()

	c.encode(rec, req, math.Inf(1), http.StatusOK)

	require.Contains(t, logs.String(), "writing response")
	require.Error(t, EncodeJSONResponse(make(chan int), http.StatusOK, httptest.NewRecorder()))
}

func TestReconstruct(t *testing.T) {
	h := newTestRouter(t)
	frag := func(data string) Fragment {
		return Fragment{Data: data, Checksum: fragments.Checksum(data)}
	}

	rec := post(t, h, "/reconstructions", ReconstructionRequest{
		Fragments: map[int]Fragment{1: frag("Hello"), 2: frag("World"), 3: frag("!")},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := ReconstructionResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, "HelloWorld!", got.Data)
}

func TestReconstruct_errors(t *testing.T) {
	testCases := []struct {
		desc     string
		body     ReconstructionRequest
		wantKind string
		wantKey  int
	}{
		{
			desc: "missing fragment",
			body: ReconstructionRequest{Fragments: map[int]Fragment{
				1: {Data: "a", Checksum: fragments.Checksum("a")},
				3: {Data: "c", Checksum: fragments.Checksum("c")},
			}},
			wantKind: "missing_fragment",
			wantKey:  2,
		},
		{
			desc: "corrupted fragment",
			body: ReconstructionRequest{Fragments: map[int]Fragment{
				1: {Data: "a", Checksum: fragments.Checksum("a")},
				2: {Data: "b", Checksum: fragments.Checksum("c")},
			}},
			wantKind: "integrity_check_failed",
			wantKey:  2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			h := newTestRouter(t)

			rec := post(t, h, "/reconstructions", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			got := ErrorResult{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.Equal(t, tc.wantKind, got.Kind)
			require.NotNil(t, got.Key)
			require.Equal(t, tc.wantKey, *got.Key)
		})
	}
}

func TestMetrics(t *testing.T) {
	h := newTestRouter(t)
	post(t, h, "/routes", RouteRequest{Source: "A", Destination: "D"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "routing_route_query_total")
	require.Contains(t, rec.Body.String(), "routing_route_query_relaxations")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
