package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/handler"
	"github.com/noah-isme/lms-admin-api/internal/middleware"
	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-admin-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Branches   *handler.BranchHandler
	Roles      *handler.RoleHandler
	Modules    *handler.ModuleHandler
	Sections   *handler.SectionHandler
	Lessons    *handler.LessonHandler
	Users      *handler.UserHandler
	ActionLogs *handler.ActionLogHandler
	Dashboard  *handler.DashboardHandler
	Learn      *handler.LearnHandler
	Files      *handler.FileHandler
	Metrics    *handler.MetricsHandler
}

// Options controls the ambient middleware stack.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Tokens         middleware.TokenValidator
	Observer       middleware.RequestObserver
}

// New builds the gin engine with all routes registered.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Observer))
	r.Use(middleware.ClientInfo())
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	api.GET("/files/:token", h.Files.Download)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", middleware.JWT(opts.Tokens), h.Auth.Me)

	learn := api.Group("/learn", middleware.JWT(opts.Tokens))
	learn.GET("/modules", h.Learn.Modules)
	learn.GET("/modules/:id/sections", h.Learn.Sections)
	learn.GET("/sections/:id/lessons", h.Learn.Lessons)
	learn.GET("/lessons/:id", h.Learn.Lesson)

	admin := api.Group("", middleware.JWT(opts.Tokens), middleware.RequireTypes(models.UserTypeAdmin))
	registerAdmin(admin, h)

	return r
}

func registerAdmin(admin *gin.RouterGroup, h Handlers) {
	branches := admin.Group("/branches")
	branches.GET("", h.Branches.List)
	branches.POST("", h.Branches.Create)
	branches.GET("/:id", h.Branches.Get)
	branches.PUT("/:id", h.Branches.Update)
	branches.DELETE("/:id", h.Branches.Delete)

	roles := admin.Group("/roles")
	roles.GET("", h.Roles.List)
	roles.POST("", h.Roles.Create)
	roles.GET("/:id", h.Roles.Get)
	roles.PUT("/:id", h.Roles.Update)
	roles.DELETE("/:id", h.Roles.Delete)

	modules := admin.Group("/modules")
	modules.GET("", h.Modules.List)
	modules.POST("", h.Modules.Create)
	modules.GET("/:id", h.Modules.Get)
	modules.PUT("/:id", h.Modules.Update)
	modules.DELETE("/:id", h.Modules.Delete)
	modules.GET("/:id/sections", h.Sections.ListByModule)
	modules.POST("/:id/sections", h.Sections.Create)

	sections := admin.Group("/sections")
	sections.GET("/:id", h.Sections.Get)
	sections.PUT("/:id", h.Sections.Update)
	sections.DELETE("/:id", h.Sections.Delete)
	sections.GET("/:id/lessons", h.Lessons.ListBySection)
	sections.POST("/:id/lessons", h.Lessons.Create)

	lessons := admin.Group("/lessons")
	lessons.GET("/:id", h.Lessons.Get)
	lessons.PUT("/:id", h.Lessons.Update)
	lessons.DELETE("/:id", h.Lessons.Delete)
	lessons.POST("/:id/content", h.Lessons.UploadContent)

	users := admin.Group("/users")
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.GET("/export", h.Users.Export)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	admin.GET("/action-logs", h.ActionLogs.List)
	admin.GET("/dashboard", h.Dashboard.Summary)
}
