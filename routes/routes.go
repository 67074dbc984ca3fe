package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"automarket-backend/controllers"
	"automarket-backend/middleware"
	"automarket-backend/utils"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter รับ Controller Instances เข้ามาเพื่อกำหนด Route
func SetupRouter(
	catalog *controllers.CatalogController,
	admin *controllers.AdminController,
	auth *controllers.AuthController,
	uploadDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.LoadSession())
	r.Static("/uploads", uploadDir)

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "Not found")
	})

	api := r.Group("/api")
	{
		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", catalog.ListVehicles)
			vehicles.GET("/:id", catalog.GetVehicle)
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", auth.Login)
			authRoutes.POST("/logout", auth.Logout)
			authRoutes.GET("/session", auth.Session)
		}

		adminRoutes := api.Group("/admin", middleware.AdminRequired())
		{
			adminRoutes.GET("/vehicles", admin.ListVehicles)
			adminRoutes.GET("/vehicles/:id", admin.GetVehicle)
			adminRoutes.POST("/vehicles", admin.CreateVehicle)
			adminRoutes.PUT("/vehicles/:id", admin.UpdateVehicle)
			adminRoutes.DELETE("/vehicles/:id", admin.DeleteVehicle)
			adminRoutes.POST("/vehicles/:id/toggle-status", admin.ToggleStatus)
		}
	}

	return r
}
