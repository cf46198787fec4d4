package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/offerlab/preventivo/internal/catalog"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/internal/config"
	"github.com/offerlab/preventivo/internal/quote"
	quotedomain "github.com/offerlab/preventivo/internal/quote/domain"
	"github.com/offerlab/preventivo/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	catalog.Module,
	quote.Module,
	fx.Provide(telemetry.NewMetrics),
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(HTTPMetrics(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	return NewEngine(log, metrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	genID      *snowflake.Node
	catalogSvc catalogdomain.CatalogService
	quoteSvc   quotedomain.QuoteService
	quoteCfg   *config.QuoteConfigHolder
	metrics    *telemetry.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	GenID      *snowflake.Node
	CatalogSvc catalogdomain.CatalogService
	QuoteSvc   quotedomain.QuoteService
	QuoteCfg   *config.QuoteConfigHolder
	Metrics    *telemetry.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		genID:      p.GenID,
		catalogSvc: p.CatalogSvc,
		quoteSvc:   p.QuoteSvc,
		quoteCfg:   p.QuoteCfg,
		metrics:    p.Metrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Catalog --------
	v1.GET("/services", s.ListServices)
	v1.POST("/services", s.CreateService)
	v1.GET("/services/:id", s.GetServiceByID)
	v1.PATCH("/services/:id", s.UpdateService)
	v1.DELETE("/services/:id", s.DeleteService)

	// -------- Quotes --------
	v1.GET("/quotes", s.ListQuotes)
	v1.POST("/quotes", s.CreateQuote)
	v1.GET("/quotes/:id", s.GetQuoteByID)
	v1.PATCH("/quotes/:id", s.UpdateQuote)
	v1.DELETE("/quotes/:id", s.DeleteQuote)
	v1.POST("/quotes/:id/items", s.AddQuoteItem)
	v1.DELETE("/quotes/:id/items/:itemId", s.RemoveQuoteItem)
	v1.GET("/quotes/:id/totals", s.GetQuoteTotals)
	v1.POST("/quotes/:id/recalculate", s.RecalculateQuote)

	// -------- Pricing preview --------
	v1.POST("/pricing/preview", s.PreviewPricing)
}
