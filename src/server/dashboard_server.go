package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock-trend/src/interfaces"
	"stock-trend/src/logger"
	"stock-trend/src/models"
	"stock-trend/src/utils"
)

//go:embed static/index.html
var indexHTML []byte

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Runner interfaces.IReportRunner
	engine *gin.Engine
	http   *http.Server

	// WebSocket sessions
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	sessions   atomic.Int64
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg *models.MConfig, runner interfaces.IReportRunner, logger *logger.Logger) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:     cfg,
		Logger:     logger,
		Runner:     runner,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
	s.engine.Use(gin.Recovery())
	if cfg.LogLevel == "DEBUG" {
		s.engine.Use(gin.Logger())
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	s.engine.GET("/", s.getIndex)

	// REST API endpoints
	s.engine.GET("/api/report", s.getReport)
	s.engine.GET("/api/simulation", s.getSimulation)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/health", s.getHealth)

	// Prometheus exposition
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for httptest.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start runs the session hub and blocks serving HTTP until Stop is called.
func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting dashboard on http://%s", addr)

	go s.handleWebsockets()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop(ctx context.Context) error {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getReport(c *gin.Context) {
	ticker := tickerParam(c)
	report, err := s.Runner.Run(c.Request.Context(), ticker)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ticker": ticker, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, s.Runner.Simulation())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default_ticker": utils.DefaultTicker,
		"start":          utils.StartDateStr,
		"end":            utils.EndDateStr,
		"features":       models.FeatureNames,
		"train_fraction": utils.TrainFraction,
		"trees":          s.Config.Forest.Trees,
		"seed":           s.Config.Forest.Seed,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.sessions.Load(),
		"cache":       s.Runner.CacheStats(),
	})
}
