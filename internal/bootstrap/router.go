package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/windscape-energy/windscape-backend/internal/api/http"
	"github.com/windscape-energy/windscape-backend/internal/api/http/middleware"
	projectshttp "github.com/windscape-energy/windscape-backend/internal/projects/http"
	"github.com/windscape-energy/windscape-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Projects    *service.ProjectService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	projectHandler := projectshttp.New(dep.Projects)
	projectHandler.Register(api.Group("/projects"))
	projectHandler.RegisterCache(api.Group("/cache"))

	return r
}
