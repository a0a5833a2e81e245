// Package router builds the gin engine and wires all routes.
package router

import (
	"net/http"
	"os"
	"strings"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/chat"
	v1 "github.com/finadvisor/backend/internal/controllers/v1"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config carries the dependencies of the route handlers.
type Config struct {
	Service   *budget.Service
	Chat      *chat.Client
	JWTSecret []byte
}

// Router sets up the engine, the middlewares and all routes.
func Router(config Config) (*gin.Engine, error) {
	r := gin.New()

	// Don't process X-Forwarded-For, we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 for all paths where there is a handler, but not
	// for the specific method used
	r.HandleMethodNotAllowed = true

	if err := registerPrometheusMetrics(); err != nil {
		return nil, err
	}

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don't trust any proxy. We do not process any client IPs,
	// therefore we don't need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if enablePprof, ok := os.LookupEnv("ENABLE_PPROF"); ok && enablePprof == "true" {
		pprof.Register(r, "debug/pprof")
	}

	r.GET("", GetRoot)
	r.GET("/version", GetVersion)
	r.GET("/healthz", GetHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	group := r.Group("/v1")
	{
		group.GET("", GetV1)
	}

	v1.RegisterAuthRoutes(group.Group("/auth"), config.JWTSecret)

	authorized := group.Group("", v1.RequireAuth(config.JWTSecret))
	v1.RegisterBudgetRoutes(authorized.Group("/budget"), config.Service)
	v1.RegisterChatRoutes(authorized.Group("/chat"), config.Service, config.Chat)

	log.Info().Msg("backend startup complete")

	return r, nil
}

// requestHost returns the scheme and host for building links. The
// scheme falls back to http unless x-forwarded-proto says otherwise.
func requestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	return scheme + "://" + c.Request.Host
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Healthz string `json:"healthz" example:"https://example.com/healthz"`
	Version string `json:"version" example:"https://example.com/version"`
	Metrics string `json:"metrics" example:"https://example.com/metrics"`
	V1      string `json:"v1" example:"https://example.com/v1"`
}

// @Summary      API root
// @Description  Entrypoint for the API, listing all endpoints
// @Tags         General
// @Success      200  {object}  RootResponse
// @Router       / [get]
func GetRoot(c *gin.Context) {
	url := requestHost(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Healthz: url + "/healthz",
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary      API version
// @Description  Returns the software version of the API
// @Tags         General
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary      Health
// @Description  Returns 204 as long as the process serves requests
// @Tags         General
// @Success      204
// @Router       /healthz [get]
func GetHealthz(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Auth   string `json:"auth" example:"https://example.com/v1/auth"`
	Budget string `json:"budget" example:"https://example.com/v1/budget"`
	Chat   string `json:"chat" example:"https://example.com/v1/chat"`
}

// @Summary      v1 API
// @Description  Returns general information about the v1 API
// @Tags         General
// @Success      200  {object}  V1Response
// @Router       /v1 [get]
func GetV1(c *gin.Context) {
	url := requestHost(c) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Auth:   url + "/auth",
			Budget: url + "/budget",
			Chat:   url + "/chat",
		},
	})
}
