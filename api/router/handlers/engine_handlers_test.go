package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

const sampleDoc = "# top note\ndef main():\n    x = 1 # inline note\n    return x\n"

func newEngineRouter() http.Handler {
	r := chi.NewRouter()
	RegisterHealthRoutes(r)
	RegisterEngineRoutes(r)
	return r
}

// doJSON posts body (a struct to encode, or a raw string) and returns the
// recorded response.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckEndpoint(t *testing.T) {
	rr := doJSON(t, newEngineRouter(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestExtractEndpoint(t *testing.T) {
	rr := doJSON(t, newEngineRouter(), http.MethodPost, "/extract",
		models.ExtractRequest{Text: sampleDoc, FileType: "py"})
	require.Equal(t, http.StatusOK, rr.Code)

	var res models.ExtractResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Len(t, res.Records, 2)
	assert.Equal(t, models.KindBlock, res.Records[0].Kind)
	assert.Equal(t, models.KindInline, res.Records[1].Kind)
	assert.Equal(t, "# inline note", res.Records[1].Inline)
}

func TestExtractEndpointEmptyResult(t *testing.T) {
	rr := doJSON(t, newEngineRouter(), http.MethodPost, "/extract",
		models.ExtractRequest{Text: "x = 1\n", FileType: "py"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"records":[]`, "no matches must serialize as an empty array, not null")
}

func TestEngineEndpointValidation(t *testing.T) {
	h := newEngineRouter()

	cases := []struct {
		name string
		path string
		body any
		want string
	}{
		{"extract missing fileType", "/extract", models.ExtractRequest{Text: "x = 1\n"}, "fileType is required"},
		{"strip missing fileType", "/strip", models.StripRequest{Text: "x = 1\n"}, "fileType is required"},
		{"reconcile missing fileType", "/reconcile", models.ReconcileRequest{Text: "x = 1\n", Mode: models.ModeCommented}, "fileType is required"},
		{"detect missing fileType", "/detect", models.DetectRequest{Text: "x = 1\n"}, "fileType is required"},
		{"reconcile unknown mode", "/reconcile", models.ReconcileRequest{Text: "x = 1\n", FileType: "py", Mode: "upside-down"}, "mode must be"},
		{"malformed payload", "/extract", `{"text":`, "Invalid request payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.want)
		})
	}
}

func TestStripInjectRoundTripHTTP(t *testing.T) {
	h := newEngineRouter()

	var extracted models.ExtractResponse
	rr := doJSON(t, h, http.MethodPost, "/extract",
		models.ExtractRequest{Text: sampleDoc, FileType: "py"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&extracted))
	require.Len(t, extracted.Records, 2)

	var stripped models.StripResponse
	rr = doJSON(t, h, http.MethodPost, "/strip", models.StripRequest{
		Text:     sampleDoc,
		FileType: "py",
		Records:  extracted.Records,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stripped))
	assert.Equal(t, 1, stripped.RemovedBlocks)
	assert.Equal(t, 1, stripped.RemovedInlines)
	assert.NotContains(t, stripped.Text, "#")

	var injected models.InjectResponse
	rr = doJSON(t, h, http.MethodPost, "/inject", models.InjectRequest{
		Text:           stripped.Text,
		Records:        extracted.Records,
		IncludePrivate: true,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&injected))
	assert.Equal(t, 2, injected.Injected)
	assert.Empty(t, injected.Orphans)
	assert.Equal(t, sampleDoc, injected.Text, "round trip must rebuild the document byte for byte")
}

func TestDetectEndpoint(t *testing.T) {
	h := newEngineRouter()

	var res models.DetectResponse
	rr := doJSON(t, h, http.MethodPost, "/detect",
		models.DetectRequest{Text: sampleDoc, FileType: "py"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, models.ModeCommented, res.Mode)

	rr = doJSON(t, h, http.MethodPost, "/detect",
		models.DetectRequest{Text: "def main():\n    return 1\n", FileType: "py"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, models.ModeClean, res.Mode)
}

func TestReconcileEndpoint(t *testing.T) {
	rr := doJSON(t, newEngineRouter(), http.MethodPost, "/reconcile", models.ReconcileRequest{
		Text:           sampleDoc,
		FileType:       "py",
		Mode:           models.ModeCommented,
		IncludePrivate: true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var res models.ReconcileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, 0, res.Matched)
	assert.Equal(t, 2, res.Added)
	require.NotNil(t, res.Set)
	assert.Len(t, res.Set.Records, 2)
}
