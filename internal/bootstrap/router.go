package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	httpapi "github.com/reimagineddocs/dip-backend/internal/api/http"
	diphttp "github.com/reimagineddocs/dip-backend/internal/api/http/dip"
	"github.com/reimagineddocs/dip-backend/internal/api/http/middleware"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Handler     *diphttp.Handler
	RateRPS     rate.Limit
	RateBurst   int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	if dep.RateRPS == 0 {
		dep.RateRPS = 10
	}
	if dep.RateBurst == 0 {
		dep.RateBurst = 20
	}

	dipGroup := api.Group("/dip")
	dipGroup.Use(middleware.RequestIDMiddleware())
	dipGroup.Use(middleware.RateLimitMiddleware(dep.RateRPS, dep.RateBurst))
	dep.Handler.RegisterRoutes(dipGroup)

	return r
}
