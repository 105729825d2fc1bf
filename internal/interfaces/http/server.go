// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/backoffice-console/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CORSOrigins lists allowed browser origins; "*" allows any
	CORSOrigins []string

	// JWTSecret enables bearer-token auth on /api when set
	JWTSecret string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Services groups the application services the handlers call
type Services struct {
	Employees  service.EmployeeService
	Checklists service.ChecklistService
	Templates  service.TemplateService
	Wizard     service.WizardService
	Directory  service.DirectoryService
	Banks      service.BankService
	Assets     service.AssetService
	Dashboard  service.DashboardService
	Export     service.ExportService

	// Health reports component health for GET /health; optional
	Health func() (healthy bool, details interface{})
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware(s.config.CORSOrigins))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	if s.config.JWTSecret != "" {
		api.Use(authMiddleware([]byte(s.config.JWTSecret)))
	}

	employees := api.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/check-email", h.CheckEmail)
		employees.GET("/check-name", h.CheckName)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
		employees.POST("/:id/exit", h.SubmitExit)
		employees.POST("/:id/rehire", h.RehireEmployee)
		employees.GET("/:id/history", h.EmployeeHistory)
	}

	s.registerChecklistRoutes(api.Group("/onboarding-checklist"), h, "onboarding")
	s.registerChecklistRoutes(api.Group("/clearance-checklist"), h, "clearance")
	api.GET("/checklists/:kind/:employeeID/export", h.ExportChecklist)

	templates := api.Group("/clearance-templates")
	{
		templates.GET("", h.ListTemplateDepartments)
		templates.GET("/:department", h.GetTemplate)
		templates.PUT("/:department", h.ReplaceTemplate)
	}

	wizard := api.Group("/onboarding-wizard")
	{
		wizard.GET("/:key", h.GetWizard)
		wizard.PUT("/:key", h.SaveWizard)
		wizard.DELETE("/:key", h.DeleteWizard)
	}

	directory := api.Group("/directory")
	{
		directory.GET("/agencies", h.ListAgencies)
		directory.POST("/agencies", h.CreateAgency)
		directory.GET("/agencies/:id", h.GetAgency)
		directory.PUT("/agencies/:id", h.UpdateAgency)
		directory.DELETE("/agencies/:id", h.DeleteAgency)

		directory.GET("/general-contacts", h.ListContacts)
		directory.POST("/general-contacts", h.CreateContact)
		directory.GET("/general-contacts/:id", h.GetContact)
		directory.PUT("/general-contacts/:id", h.UpdateContact)
		directory.DELETE("/general-contacts/:id", h.DeleteContact)
	}

	maintenance := api.Group("/accountant/maintenance")
	{
		maintenance.GET("/banks", h.ListBanks)
		maintenance.POST("/banks", h.CreateBank)
		maintenance.GET("/banks/:id", h.GetBank)
		maintenance.PUT("/banks/:id", h.UpdateBank)
		maintenance.DELETE("/banks/:id", h.DeleteBank)

		maintenance.GET("/bank-accounts", h.ListBankAccounts)
		maintenance.POST("/bank-accounts", h.CreateBankAccount)
		maintenance.GET("/bank-accounts/export", h.ExportBankAccounts)
		maintenance.GET("/bank-accounts/:id", h.GetBankAccount)
		maintenance.PUT("/bank-accounts/:id", h.UpdateBankAccount)
		maintenance.DELETE("/bank-accounts/:id", h.DeleteBankAccount)
	}

	assets := api.Group("/assets")
	{
		assets.GET("", h.ListAssets)
		assets.POST("", h.UploadAsset)
		assets.GET("/:id", h.GetAsset)
		assets.GET("/:id/content", h.AssetContent)
		assets.DELETE("/:id", h.DeleteAsset)
	}

	api.GET("/dashboard", h.Dashboard)
}

func (s *Server) registerChecklistRoutes(group *gin.RouterGroup, h *Handlers, kind string) {
	group.GET("", h.ListChecklists(kind))
	group.GET("/:employeeID", h.OpenChecklist(kind))
	group.POST("/:employeeID/toggle", h.ToggleTask(kind))
	group.POST("/:employeeID/toggle-all", h.ToggleAllTasks(kind))
	group.POST("/:employeeID/save", h.SaveChecklist(kind))
	group.POST("/:employeeID/discard", h.DiscardChecklist(kind))
}

// Start starts the HTTP server and blocks until ctx is done or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
