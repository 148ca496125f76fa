package dispatch

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the message router the extension contexts talk to. Any panic in
// a handler is converted into a {success:false} response; the dispatch loop
// itself never dies.
func New(h *Handler, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:           allowedOrigins,
		AllowMethods:           []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:           []string{"Origin", "Content-Type"},
		ExposeHeaders:          []string{"Content-Length"},
		AllowBrowserExtensions: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/message", h.HandleMessage)
		v1.POST("/event", h.HandleEvent)
	}

	return r
}

func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("dispatch: recovered: %v", rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "internal error",
				})
			}
		}()
		c.Next()
	}
}
