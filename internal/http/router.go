package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/steel-quoter/docs"
	"github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/metrics"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	if requestLog != nil {
		r.Use(RequestLogger(requestLog))
	}
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handlers.HealthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		if rateLimited {
			r.Use(RateLimitMiddleware)
		}

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handlers.GetCustomersHandler)
			r.Post("/", handlers.CreateCustomerHandler)
			r.Get("/{id}", handlers.GetCustomerByIDHandler)
			r.Put("/{id}", handlers.UpdateCustomerHandler)
			r.Delete("/{id}", handlers.DeleteCustomerHandler)
			r.Post("/{id}/restore", handlers.RestoreCustomerHandler)
		})

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", handlers.GetMaterialsHandler)
			r.Post("/", handlers.CreateMaterialHandler)
			r.Post("/import", handlers.ImportMaterialsHandler)
			r.Get("/export.xlsx", handlers.ExportMaterialsHandler)
			r.Get("/{id}", handlers.GetMaterialByIDHandler)
			r.Put("/{id}", handlers.UpdateMaterialHandler)
			r.Delete("/{id}", handlers.DeleteMaterialHandler)
			r.Post("/{id}/restore", handlers.RestoreMaterialHandler)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", handlers.GetQuotesHandler)
			r.Post("/", handlers.CreateQuoteHandler)
			r.Get("/export.xlsx", handlers.ExportQuotesHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetQuoteByIDHandler)
				r.Put("/", handlers.UpdateQuoteHandler)
				r.Delete("/", handlers.DeleteQuoteHandler)
				r.Post("/restore", handlers.RestoreQuoteHandler)
				r.Post("/status", handlers.ChangeQuoteStatusHandler)
				r.Post("/duplicate", handlers.DuplicateQuoteHandler)
				r.Post("/convert", handlers.ConvertQuoteHandler)
				r.Get("/history", handlers.GetQuoteHistoryHandler)
				r.Get("/history/export", handlers.ExportQuoteHistoryHandler)
				r.Get("/export.xlsx", handlers.ExportQuoteHandler)

				r.Get("/bom", handlers.GetQuoteBOMHandler)
				r.Post("/bom", handlers.AddBOMLineHandler)
				r.Put("/bom", handlers.ReplaceBOMHandler)
				r.Put("/bom/{lineId}", handlers.UpdateBOMLineHandler)
				r.Delete("/bom/{lineId}", handlers.DeleteBOMLineHandler)

				r.Get("/attachments", handlers.GetAttachmentsHandler)
				r.Post("/attachments", handlers.CreateAttachmentHandler)
			})
		})

		r.Delete("/attachments/{id}", handlers.DeleteAttachmentHandler)

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/shapes", handlers.GetShapesHandler)
			r.Get("/densities", handlers.GetDensitiesHandler)
			r.Post("/line", handlers.PriceLineHandler)
			r.Post("/quote", handlers.PriceQuoteHandler)
		})

		r.Route("/sales-orders", func(r chi.Router) {
			r.Get("/", handlers.GetSalesOrdersHandler)
			r.Post("/", handlers.CreateSalesOrderHandler)
			r.Get("/{id}", handlers.GetSalesOrderByIDHandler)
			r.Put("/{id}", handlers.UpdateSalesOrderHandler)
			r.Delete("/{id}", handlers.DeleteSalesOrderHandler)
			r.Post("/{id}/restore", handlers.RestoreSalesOrderHandler)
			r.Post("/{id}/status", handlers.ChangeSalesOrderStatusHandler)
		})

		r.Route("/admin/api-keys", func(r chi.Router) {
			r.Get("/", handlers.GetAPIKeysHandler)
			r.Post("/", handlers.CreateAPIKeyHandler)
			r.Post("/verify", handlers.VerifyAPIKeyHandler)
			r.Put("/{id}", handlers.UpdateAPIKeyHandler)
			r.Delete("/{id}", handlers.DeleteAPIKeyHandler)
		})
	})

	return r
}
