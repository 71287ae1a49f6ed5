package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/middleware"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/jwt"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	statutoryHandler StatutoryHandler,
	payrollHandler PayrollHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/statutory", func(r chi.Router) {
			r.Get("/tax-bands", statutoryHandler.GetTaxBands)
			r.Get("/ssnit-rates", statutoryHandler.ListSsnitRates)
			r.Get("/ssnit-rates/effective", statutoryHandler.EffectiveSsnitRate)
			r.Get("/withholding-rates", statutoryHandler.ListWithholdingRates)

			// Platform admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.PlatformAdminOnly)
				r.Put("/tax-bands/{year}", statutoryHandler.ReplaceTaxBands)
				r.Post("/ssnit-rates", statutoryHandler.CreateSsnitRate)
				r.Post("/withholding-rates", statutoryHandler.CreateWithholdingRate)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(middleware.RequireTenant)

			r.Route("/elements", func(r chi.Router) {
				r.Get("/", payrollHandler.ListElements)
				r.Post("/", payrollHandler.CreateElement)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id", payroll.ErrElementNotFound))
					r.Get("/", payrollHandler.GetElement)
					r.Put("/", payrollHandler.UpdateElement)
					r.Delete("/", payrollHandler.DeactivateElement)
					r.Post("/assignments", payrollHandler.AssignElement)
				})
			})

			r.Get("/assignments", payrollHandler.ListAssignments)

			r.Route("/periods", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPeriods)
				r.Post("/", payrollHandler.CreatePeriod)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.UUIDParam("id", payroll.ErrPeriodNotFound))
					r.Get("/", payrollHandler.GetPeriod)
					r.Post("/close", payrollHandler.ClosePeriod)
					r.Post("/run", payrollHandler.RunPayroll)
					r.Get("/payslips", payrollHandler.ListPayslips)
					r.Post("/payslips/export", payrollHandler.ExportPayslips)
				})
			})

			r.Route("/payslips/{id}", func(r chi.Router) {
				r.Use(middleware.UUIDParam("id", payroll.ErrPayslipNotFound))
				r.Get("/", payrollHandler.GetPayslip)
				r.Get("/pdf", payrollHandler.DownloadPayslip)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireTenant)
			r.Get("/{kind}", reportHandler.GetReport)
			r.Get("/{kind}/export", reportHandler.ExportReport)
		})
	})
	return r
}
