// Package api serves the cost-management HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/auth"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/dashboard"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/report"
	"github.com/sells-group/contract-costs/internal/store"
	"github.com/sells-group/contract-costs/internal/webhook"
)

// Services are the domain services behind the handlers.
type Services struct {
	Store     store.Store
	Auth      *auth.Service
	Importer  *importer.Service
	Classify  *classify.Service
	Attach    *attach.Service
	Webhook   *webhook.Trigger
	Dashboard *dashboard.Service
	Reports   *report.Service
}

// Server holds the HTTP handlers.
type Server struct {
	Services
	cfg     config.ServerConfig
	engine  *finance.Engine
	login   *ipLimiter
	folders *ipLimiter
	log     *zap.Logger
}

// NewServer creates the API server. Zero config values take defaults.
func NewServer(cfg config.ServerConfig, svc Services) *Server {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.RequestTimeoutSecs <= 0 {
		cfg.RequestTimeoutSecs = 60
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	if cfg.LoginRatePerMin <= 0 {
		cfg.LoginRatePerMin = 10
	}
	perMin := rate.Every(time.Minute / time.Duration(cfg.LoginRatePerMin))
	return &Server{
		Services: svc,
		cfg:      cfg,
		engine:   finance.NewEngine(svc.Store),
		login:    newIPLimiter(perMin, cfg.LoginRatePerMin),
		folders:  newIPLimiter(rate.Every(time.Minute/6), 3),
		log:      zap.L().With(zap.String("component", "api")),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeoutSecs) * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.With(s.login.middleware).Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			comercial := s.require(model.GroupComercial)
			suprimentos := s.require(model.GroupSuprimentos)
			diretoria := s.require(model.GroupDiretoria)
			admin := s.require(model.GroupAdmin)

			r.Get("/auth/me", s.handleMe)
			r.With(admin).Post("/auth/register", s.handleRegister)

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", s.handleListContracts)
				r.Get("/kpis", s.handleContractKPIs)
				r.With(comercial).Post("/", s.handleCreateContract)
				r.Get("/{id}", s.handleGetContract)
				r.With(comercial).Put("/{id}", s.handleUpdateContract)
				r.With(comercial).Delete("/{id}", s.handleDeleteContract)
				r.Get("/{id}/forecast", s.handleListForecast)
			})

			r.Route("/purchases", func(r chi.Router) {
				r.With(suprimentos).Post("/suppliers", s.handleCreateSupplier)
				r.Get("/suppliers", s.handleListSuppliers)
				r.With(suprimentos).Patch("/suppliers/{id}/approve", s.handleApproveSupplier)

				r.With(suprimentos).Post("/orders", s.handleCreateOrder)
				r.Get("/orders", s.handleListOrders)
				r.Get("/orders/{id}", s.handleGetOrder)
				r.With(suprimentos).Patch("/orders/{id}/status", s.handleOrderStatus)
				r.With(suprimentos).Post("/orders/{id}/quotations", s.handleAddQuotation)
				r.With(suprimentos).Post("/quotations/{id}/select", s.handleSelectQuotation)

				r.With(suprimentos).Post("/invoices", s.handleCreateInvoice)
				r.Get("/invoices", s.handleListInvoices)
				r.With(suprimentos).Patch("/invoices/{id}/pay", s.handlePayInvoice)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.With(suprimentos).Post("/upload-zip/{contractID}", s.handleUploadZip)
				r.Get("/contract/{contractID}", s.handleContractInvoices)
				r.Get("/contract/{contractID}/summary", s.handleInvoiceSummary)
				r.Get("/{id}/items", s.handleInvoiceItems)
				r.With(suprimentos).Delete("/{id}", s.handleDeleteInvoice)
			})

			r.Route("/import", func(r chi.Router) {
				r.Post("/validate-file", s.handleValidateFile)
				r.With(comercial).Post("/budget/excel", s.handleImportBudget)
				r.With(suprimentos).Post("/invoice/xml", s.handleImportInvoiceXML)
				r.With(suprimentos).Post("/invoice/excel", s.handleImportInvoiceSheet)
				r.Get("/cost-centers/suggestions", s.handleBucketSuggestions)
				r.With(suprimentos).Post("/bulk/invoices", s.handleBulkInvoices)
			})

			r.Route("/nf", func(r chi.Router) {
				r.Get("/", s.handleListNF)
				r.Get("/stats", s.handleNFStats)
				r.Get("/processing-logs", s.handleProcessingLogs)
				r.Get("/by-folder/{folder}", s.handleNFByFolder)
				r.Get("/contract/{contractID}/realized-value", s.handleRealizedValue)
				r.With(suprimentos, s.folders.middleware).Post("/process-folder", s.handleProcessFolder)
				r.With(suprimentos).Post("/import", s.handleImportNF)
				r.Get("/{id}", s.handleGetNF)
				r.With(suprimentos).Put("/{id}", s.handleUpdateNF)
				r.With(suprimentos).Patch("/{id}/validate", s.handleValidateNF)
				r.With(suprimentos).Patch("/{id}/reject", s.handleRejectNF)
				r.With(admin).Delete("/{id}", s.handleDeleteNF)
				r.With(suprimentos).Patch("/item/{id}", s.handleUpdateNFItem)
				r.With(suprimentos).Patch("/item/{id}/integrate", s.handleIntegrateNFItem)
				r.With(suprimentos).Post("/item/{id}/classify", s.handleClassifyNFItem)
			})

			r.Route("/classification", func(r chi.Router) {
				r.Get("/cost-centers", s.handleListCostCenters)
				r.With(admin).Post("/cost-centers", s.handleCreateCostCenter)
				r.With(admin).Put("/cost-centers/{id}", s.handleUpdateCostCenter)
				r.Get("/rules", s.handleListRules)
				r.With(suprimentos).Post("/rules", s.handleCreateRule)
				r.With(suprimentos).Put("/rules/{id}", s.handleUpdateRule)
				r.With(suprimentos).Delete("/rules/{id}", s.handleDeleteRule)
				r.Get("/stats", s.handleClassificationStats)
				r.With(suprimentos).Post("/classify", s.handleBatchClassify)
				r.With(suprimentos).Patch("/items/{id}/classify", s.handleManualClassify)
			})

			r.Route("/dashboards", func(r chi.Router) {
				r.With(suprimentos).Get("/supplies", s.handleSupplies)
				r.With(diretoria).Get("/executive", s.handleExecutive)
				r.Get("/kpis/summary", s.handleRoleSummary)
				r.Get("/kpis", s.handleKPIs)
				r.Get("/kpis/period", s.handleKPIPeriod)
				r.Get("/contracts/{id}/metrics", s.handleContractMetrics)
				r.Get("/active-contracts", s.handleActiveContracts)
				r.Get("/activities", s.handleActivities)
				r.Get("/alerts", s.handleAlerts)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/generate", s.handleGenerateReport)
				r.Get("/", s.handleRecentReports)
				r.Get("/download/{filename}", s.handleDownloadReport)
				r.Get("/analytical/preview", s.handleAnalyticalPreview)
				r.Get("/balance/preview", s.handleBalancePreview)
			})

			r.With(admin).Get("/audit", s.handleListAudit)
			r.Post("/attachments", s.handleUploadAttachment)
			r.Get("/attachments", s.handleListAttachments)
		})
	})

	return r
}
