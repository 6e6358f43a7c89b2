package echo

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storePDF(t *testing.T, server *Server, payload string) *httptest.ResponseRecorder {
	t.Helper()

	body := strings.NewReader(`{"payload":` + jsonString(payload) + `}`)
	req := httptest.NewRequest(http.MethodPost, "/api/pdf", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return serve(server, req)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func storedID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.(map[string]any)["id"].(string)
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPDFRoundTrip(t *testing.T) {
	server, _ := newTestServer(t, nil)
	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))

	rec := storePDF(t, server, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := storedID(t, rec)

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/pdf/download?id="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestPDFStoreAcceptsDataURI(t *testing.T) {
	server, _ := newTestServer(t, nil)
	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("doc"))

	rec := storePDF(t, server, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	id := storedID(t, rec)

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/pdf/download?id="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doc", rec.Body.String())
}

func TestPDFStoreRejectsBadInput(t *testing.T) {
	server, _ := newTestServer(t, nil)

	rec := storePDF(t, server, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = storePDF(t, server, "not base64!!")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = storePDF(t, server, "data:application/pdf;base64")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPDFDownloadUnknownID(t *testing.T) {
	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/pdf/download?id=no-such-id", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp FailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failure", resp.Status)

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/pdf/download", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageProxyRejectsBadURLWithoutFetching(t *testing.T) {
	var hits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer upstream.Close()

	server, _ := newTestServer(t, nil)

	badScheme := "ftp://" + strings.TrimPrefix(upstream.URL, "http://") + "/logo.png"
	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/image?url="+url.QueryEscape(badScheme), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(0), hits.Load())

	rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/image", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageProxyStreamsImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/image?url="+url.QueryEscape(upstream.URL+"/logo.png"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestImageProxyRejectsNonImageContent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>"))
	}))
	defer upstream.Close()

	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/image?url="+url.QueryEscape(upstream.URL), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageProxyUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/image?url="+url.QueryEscape(upstream.URL), nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDocumentProxyRestrictedToStorageHost(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer upstream.Close()

	upstreamHost := strings.TrimPrefix(upstream.URL, "http://")

	cfg := newTestConfig()
	cfg.Proxy.DocumentHost = upstreamHost
	server, _ := newTestServer(t, cfg)

	// allowed host streams the document
	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/document?url="+url.QueryEscape(upstream.URL+"/policy.pdf"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	// any other host is rejected before fetching
	rec = serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/document?url="+url.QueryEscape("http://evil.example.com/policy.pdf"), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentProxyRejectsNonPDFContent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer upstream.Close()

	cfg := newTestConfig()
	cfg.Proxy.DocumentHost = strings.TrimPrefix(upstream.URL, "http://")
	server, _ := newTestServer(t, cfg)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/document?url="+url.QueryEscape(upstream.URL), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentProxyBareKeyWithoutStorage(t *testing.T) {
	server, _ := newTestServer(t, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/api/proxy/document?url=reports%2Fq3.pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
