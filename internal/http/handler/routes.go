package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"questionnaire/docs"
	"questionnaire/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// gatherer backs the /metrics endpoint; pass prometheus.DefaultGatherer in production.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.QuestionnaireService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))
	app.Get("/swagger/*", SwaggerUI())

	q := app.Group("/questionnaires")
	q.Get("/", ListQuestionnaires(svc))
	q.Post("/", UploadQuestionnaire(svc))
	q.Post("/preview", PreviewQuestionnaire(svc))
	q.Get("/:id", GetQuestionnaire(svc))
	q.Delete("/:id", DeleteQuestionnaire(svc))
	q.Post("/:id/reparse", ReparseQuestionnaire(svc))
	q.Get("/:id/source", QuestionnaireSource(svc))
}

// Metrics exposes gatherer in the Prometheus text format.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// SwaggerUI serves the API docs with dynamic host and scheme.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
