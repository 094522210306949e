package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveGateway runs the router on a real listener. ReverseProxy needs a
// response writer that supports CloseNotify, which ResponseRecorder lacks.
func serveGateway(t *testing.T, router *gin.Engine) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestProxyToForwardsRequest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"path":"` + r.URL.Path + `","query":"` + r.URL.RawQuery + `"}`))
	}))
	defer upstream.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Any("/api/livechat/*path", ProxyTo("livechat", map[string]string{"livechat": upstream.URL}))
	gateway := serveGateway(t, router)

	status, body := get(t, gateway.URL+"/api/livechat/blacklist?kind=ip")

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"path":"/api/livechat/blacklist","query":"kind=ip"}`, body)
}

func TestProxyToUnknownService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", ProxyTo("missing", map[string]string{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProxyToInvalidServiceURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", ProxyTo("livechat", map[string]string{"livechat": "not a url"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProxyToUnreachableService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", ProxyTo("livechat", map[string]string{"livechat": "http://127.0.0.1:1"}))
	gateway := serveGateway(t, router)

	status, body := get(t, gateway.URL+"/x")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body, "Service unavailable")
}
