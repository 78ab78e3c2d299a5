package handlers

import (
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/pkg/config"
)

// paymentMethodPattern accepts lowercase snake_case tokens. Unknown methods
// are not rejected here; the disbursement mapping gives them a bank default.
var paymentMethodPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RegisterValidators installs custom binding validations on gin's validator.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return paymentMethodPattern.MatchString(fl.Field().String())
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(cors.Default())

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerPostingRoutes(v1, services.Posting, cfg.DefaultActorID)
	registerPeriodRoutes(v1, services.Period, cfg.DefaultActorID)
	registerReportingRoutes(v1, services.Reporting)
	registerAccountRoutes(v1, services.Resolver)
}
