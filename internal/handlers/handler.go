package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"budget_tracker/internal/logger"
	"budget_tracker/internal/service"
	"budget_tracker/web"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(web.TemplatesFS, "templates/*.html")))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Server-rendered pages
	h.registerPageRoutes(router)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live transaction feed (HTTP upgrade) — same port
	router.GET("/ws", h.userIdentity, h.wsConnect)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.homePage)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.registerSubmit)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.loginSubmit)
	r.POST("/logout", h.logoutSubmit)

	pages := r.Group("/dashboard", h.pageIdentity)
	{
		pages.GET("", h.dashboardPage)
		pages.POST("/categories", h.dashboardCreateCategory)
		pages.POST("/transactions", h.dashboardCreateTransaction)
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdentity)
	{
		h.registerCategoryRoutes(api)
		h.registerTransactionRoutes(api)
		api.DELETE("/account", h.deleteAccount)
	}
}

func (h *Handler) registerCategoryRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

func (h *Handler) registerTransactionRoutes(api *gin.RouterGroup) {
	transactions := api.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

const errStorage = "something went wrong, try again later"

// domainStatus maps a service error onto an HTTP status and user message.
// Unknown errors are storage faults: generic 500, details stay in the log.
func domainStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrWeakCredential),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCategory):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrDuplicateCategory),
		errors.Is(err, service.ErrCategoryInUse):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, errStorage
	}
}

// respondError writes the mapped error response and logs storage faults.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg := domainStatus(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(code, gin.H{"error": msg})
}
