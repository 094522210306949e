package routes

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"cloudphone-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// getServiceURLs returns service URLs from configuration
func getServiceURLs() map[string]string {
	cfg := config.GetConfig()
	return map[string]string{
		"livechat": cfg.LivechatServiceURL,
	}
}

// ProxyToService proxies the request to the named service
func ProxyToService(serviceName string) gin.HandlerFunc {
	return ProxyTo(serviceName, getServiceURLs())
}

// ProxyTo proxies the request to serviceName as found in serviceURLs.
// The reverse proxy is built once per route.
func ProxyTo(serviceName string, serviceURLs map[string]string) gin.HandlerFunc {
	serviceURL, exists := serviceURLs[serviceName]
	if !exists {
		return func(ctx *gin.Context) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Service not found", "message": serviceName})
		}
	}

	// Parse the service URL
	target, err := url.Parse(serviceURL)
	if err != nil || target.Host == "" {
		return func(ctx *gin.Context) {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Invalid service URL", "message": serviceName})
		}
	}

	// Create a reverse proxy
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"error":"Service unavailable","message":"` + serviceName + ` is not reachable"}`))
	}

	return func(ctx *gin.Context) {
		proxy.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
