package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/drivio/drivio/internal/balance"
	"github.com/drivio/drivio/internal/catalog"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	"github.com/drivio/drivio/internal/center"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/config"
	"github.com/drivio/drivio/internal/customer"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	"github.com/drivio/drivio/internal/events"
	"github.com/drivio/drivio/internal/metrics"
	"github.com/drivio/drivio/internal/settlement"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	"github.com/drivio/drivio/internal/statement"
	"github.com/drivio/drivio/internal/vehicle"
	"github.com/drivio/drivio/internal/visit"
	visitdomain "github.com/drivio/drivio/internal/visit/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	center.Module,
	vehicle.Module,
	customer.Module,
	balance.Module,
	visit.Module,
	settlement.Module,
	statement.Module,
	events.Module,
	metrics.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
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
	engine        *gin.Engine
	cfg           config.Config
	genID         *snowflake.Node
	visitSvc      visitdomain.VisitEngine
	settlementSvc settlementdomain.SettlementService
	catalogSvc    catalogdomain.CatalogService
	centerSvc     centerdomain.CenterService
	statementSvc  *statement.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	GenID         *snowflake.Node
	VisitSvc      visitdomain.VisitEngine
	SettlementSvc settlementdomain.SettlementService
	CatalogSvc    catalogdomain.CatalogService
	CenterSvc     centerdomain.CenterService
	StatementSvc  *statement.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		genID:         p.GenID,
		visitSvc:      p.VisitSvc,
		settlementSvc: p.SettlementSvc,
		catalogSvc:    p.CatalogSvc,
		centerSvc:     p.CenterSvc,
		statementSvc:  p.StatementSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", IdentityRequired())

	admin := RoleRequired(customerdomain.RoleAdmin)
	manager := RoleRequired(customerdomain.RoleCenterManager)
	staff := RoleRequired(customerdomain.RoleAdmin, customerdomain.RoleCenterManager)

	visits := api.Group("/visits")
	visits.POST("", s.CreateVisit)
	visits.GET("", s.ListVisits)
	visits.GET("/:id", s.GetVisit)

	services := api.Group("/services")
	services.GET("", s.ListCatalog)
	services.GET("/:id", s.GetCatalogService)
	services.POST("", admin, s.CreateCatalogService)
	services.PATCH("/:id", admin, s.UpdateCatalogService)
	services.DELETE("/:id", admin, s.DeleteCatalogService)

	centers := api.Group("/centers")
	centers.GET("", s.ListCenters)
	centers.GET("/finances", manager, s.CenterFinances)
	centers.GET("/:id", s.GetCenter)
	centers.POST("", admin, s.CreateCenter)
	centers.GET("/:id/services", s.ListCenterOverrides)
	centers.PUT("/:id/services/:serviceID", admin, s.SetCenterOverride)
	centers.DELETE("/:id/services/:serviceID", admin, s.DeleteCenterOverride)

	settlements := api.Group("/settlements")
	settlements.POST("/aggregate", admin, s.AggregateSettlements)
	settlements.GET("", staff, s.ListSettlements)
	settlements.GET("/:id", staff, s.GetSettlement)
	settlements.GET("/:id/statement", staff, s.DownloadStatement)
	settlements.POST("/receipt", manager, s.AttachReceipt)
	settlements.POST("/:id/review", admin, s.ReviewReceipt)
}
