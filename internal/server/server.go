// Package server exposes the REST surface: charge catalog configuration,
// estimate templates, and the estimate operations themselves.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"github.com/movecrewlabs/movecrew/internal/config"
	estimatedomain "github.com/movecrewlabs/movecrew/internal/estimate/domain"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config      *config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	CatalogSvc  catalogdomain.Service
	TemplateSvc templatedomain.Service
	EstimateSvc estimatedomain.Service
}

type Server struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *gorm.DB
	engine      *gin.Engine
	catalogSvc  catalogdomain.Service
	templateSvc templatedomain.Service
	estimateSvc estimatedomain.Service
}

func NewServer(p Params) *Server {
	if p.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		db:          p.DB,
		engine:      gin.New(),
		catalogSvc:  p.CatalogSvc,
		templateSvc: p.TemplateSvc,
		estimateSvc: p.EstimateSvc,
	}
	s.engine.Use(gin.Recovery(), s.requestMetrics())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/readyz", s.Readyz)
	s.engine.GET("/metrics", metricsHandler())

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/charge-categories", s.ListChargeCategories)
		v1.POST("/charge-categories", s.CreateChargeCategory)
		v1.PATCH("/charge-categories/:id", s.UpdateChargeCategory)
		v1.POST("/charge-categories/:id/deactivate", s.DeactivateChargeCategory)

		v1.GET("/charges", s.ListCharges)
		v1.POST("/charges", s.CreateCharge)
		v1.GET("/charges/:id", s.GetCharge)
		v1.PATCH("/charges/:id", s.UpdateCharge)
		v1.POST("/charges/:id/deactivate", s.DeactivateCharge)

		v1.GET("/templates", s.ListTemplates)
		v1.POST("/templates", s.CreateTemplate)
		v1.GET("/templates/:id", s.GetTemplate)
		v1.PATCH("/templates/:id", s.UpdateTemplate)
		v1.POST("/templates/:id/items", s.AddTemplateItem)
		v1.PATCH("/templates/:id/items/:itemId", s.UpdateTemplateItem)
		v1.DELETE("/templates/:id/items/:itemId", s.RemoveTemplateItem)

		v1.GET("/estimates", s.ListEstimates)
		v1.POST("/estimates", s.CreateEstimate)
		v1.GET("/estimates/:id", s.GetEstimate)
		v1.PATCH("/estimates/:id", s.UpdateEstimateInputs)
		v1.POST("/estimates/:id/calculate", s.CalculateEstimate)

		v1.POST("/estimates/:id/items", s.AddEstimateLineItem)
		v1.PATCH("/estimates/:id/items/:itemId", s.UpdateEstimateLineItem)
		v1.DELETE("/estimates/:id/items/:itemId", s.RemoveEstimateLineItem)

		v1.POST("/estimates/:id/send", s.MarkEstimateSent)
		v1.POST("/estimates/:id/approve", s.ApproveEstimate)
		v1.POST("/estimates/:id/reject", s.RejectEstimate)
		v1.POST("/estimates/:id/convert", s.ConvertEstimateToWorkOrder)
		v1.POST("/estimates/:id/invoice", s.MarkEstimateInvoiced)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Readyz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(start),
)

func start(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			s.log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
