package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"

	"github.com/st-studio/job-tracker/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes.
// Session data lives server-side in the memstore; the cookie only
// carries the signed session ID.
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))

	store := memstore.NewStore([]byte(deps.SessionSecret))
	r.Use(sessions.Sessions("studio_session", store))

	if deps.TemplatesGlob != "" {
		r.LoadHTMLGlob(deps.TemplatesGlob)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "studio-job-tracker",
		})
	})

	jobHandler := handler.NewJobHandler(deps)

	// Public routes
	r.GET("/login", jobHandler.ShowLogin)
	r.POST("/login", jobHandler.Login)
	r.GET("/track/:id", jobHandler.Track)

	// Staff routes behind the session gate
	staff := r.Group("/", deps.Gate.RequireSession())
	{
		staff.GET("/", jobHandler.Dashboard)
		staff.POST("/create", jobHandler.CreateJob)
		staff.POST("/update/:id", jobHandler.UpdateStatus)
		staff.POST("/upload/:id", jobHandler.UploadImage)
		staff.POST("/logout", jobHandler.Logout)
	}

	return r
}
