// Package courseplatform предоставляет маршруты для основного приложения.
package courseplatform

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	alertactive "github.com/eduline/course-platform/internal/http/handlers/alert/active"
	alertcreate "github.com/eduline/course-platform/internal/http/handlers/alert/create"
	alertremove "github.com/eduline/course-platform/internal/http/handlers/alert/remove"
	"github.com/eduline/course-platform/internal/http/handlers/auth/login"
	"github.com/eduline/course-platform/internal/http/handlers/auth/logout"
	"github.com/eduline/course-platform/internal/http/handlers/auth/register"
	"github.com/eduline/course-platform/internal/http/handlers/auth/resend"
	"github.com/eduline/course-platform/internal/http/handlers/auth/session"
	"github.com/eduline/course-platform/internal/http/handlers/auth/verifyemail"
	certissue "github.com/eduline/course-platform/internal/http/handlers/certificate/issue"
	certverify "github.com/eduline/course-platform/internal/http/handlers/certificate/verify"
	eventlist "github.com/eduline/course-platform/internal/http/handlers/event/list"
	examcreate "github.com/eduline/course-platform/internal/http/handlers/exam/create"
	examlist "github.com/eduline/course-platform/internal/http/handlers/exam/list"
	examread "github.com/eduline/course-platform/internal/http/handlers/exam/read"
	examremove "github.com/eduline/course-platform/internal/http/handlers/exam/remove"
	examsearch "github.com/eduline/course-platform/internal/http/handlers/exam/search"
	examupdate "github.com/eduline/course-platform/internal/http/handlers/exam/update"
	"github.com/eduline/course-platform/internal/http/handlers/health"
	"github.com/eduline/course-platform/internal/http/handlers/payment/paymentcreate"
	"github.com/eduline/course-platform/internal/http/handlers/payment/paymentlist"
	"github.com/eduline/course-platform/internal/http/handlers/payment/paymentwebhook"
	productcreate "github.com/eduline/course-platform/internal/http/handlers/product/create"
	productlist "github.com/eduline/course-platform/internal/http/handlers/product/list"
	productread "github.com/eduline/course-platform/internal/http/handlers/product/read"
	productremove "github.com/eduline/course-platform/internal/http/handlers/product/remove"
	"github.com/eduline/course-platform/internal/http/middlewarectx"
	"github.com/eduline/course-platform/internal/lib/jwt"
	alertservice "github.com/eduline/course-platform/internal/services/alert"
	authservice "github.com/eduline/course-platform/internal/services/auth"
	catalogservice "github.com/eduline/course-platform/internal/services/catalog"
	certificateservice "github.com/eduline/course-platform/internal/services/certificate"
	paymentservice "github.com/eduline/course-platform/internal/services/payment"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	alertService *alertservice.AlertService,
	certificateService *certificateservice.CertificateService,
	paymentService *paymentservice.PaymentService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		r.Get("/exams", examlist.New(logger, catalogService).ServeHTTP)
		r.Get("/exams/search", examsearch.New(logger, catalogService).ServeHTTP)
		r.Get("/exams/{id}", examread.New(logger, catalogService).ServeHTTP)
		r.Get("/events", eventlist.New(logger, catalogService).ServeHTTP)
		r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, catalogService).ServeHTTP)
		r.Get("/alerts", alertactive.New(logger, alertService).ServeHTTP)
		r.Get("/certificates/{code}", certverify.New(logger, certificateService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/user", session.New(logger, authService).ServeHTTP)
			r.Post("/verify-email", verifyemail.New(logger, authService).ServeHTTP)
			r.Post("/resend-verification", resend.New(logger, authService).ServeHTTP)
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/payments", paymentcreate.New(logger, paymentService).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, paymentService).ServeHTTP)
		})

		// Группа административных операций каталога
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Post("/admin/exams", examcreate.New(logger, catalogService).ServeHTTP)
			r.Put("/admin/exams/{id}", examupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/admin/exams/{id}", examremove.New(logger, catalogService).ServeHTTP)
			r.Post("/admin/products", productcreate.New(logger, catalogService).ServeHTTP)
			r.Delete("/admin/products/{id}", productremove.New(logger, catalogService).ServeHTTP)
			r.Post("/admin/alerts", alertcreate.New(logger, alertService).ServeHTTP)
			r.Delete("/admin/alerts/{id}", alertremove.New(logger, alertService).ServeHTTP)
			r.Post("/admin/certificates", certissue.New(logger, certificateService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", paymentwebhook.New(logger, paymentService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
