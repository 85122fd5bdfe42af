package app

import (
	"bitwise74/forms-api/app/export"
	"bitwise74/forms-api/app/form"
	"bitwise74/forms-api/app/question"
	"bitwise74/forms-api/app/response"
	"bitwise74/forms-api/app/root"
	"bitwise74/forms-api/app/session"
	"bitwise74/forms-api/app/user"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/metrics"
	"bitwise74/forms-api/pkg/middleware"
	"context"
	"slices"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	CORSOrigins []string
	// RateLimit is requests per second per client IP, zero disables it
	RateLimit  int
	BodyLimit  int64
	CacheStore persist.CacheStore
	CacheTTL   time.Duration
	Turnstile  middleware.TurnstileConfig
}

// NewEngine registers every route on a fresh gin engine. Background work
// started here stops when ctx is cancelled.
func NewEngine(ctx context.Context, d *internal.Deps, o Options) *gin.Engine {
	if o.CacheStore == nil {
		o.CacheStore = persist.NewMemoryStore(time.Minute)
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.BodyLimit <= 0 {
		o.BodyLimit = 1 << 20
	}

	router := gin.New()

	router.Use(
		cors.New(corsConfig(o.CORSOrigins)),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetUint("userID"); v != 0 {
					fields = append(fields, zap.Uint("userID", v))
				}

				return fields
			},
		}),
		metrics.GinMiddleware(),
	)

	router.HandleMethodNotAllowed = true

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	})
	go func() {
		<-ctx.Done()
		rateLimiter.Stop()
	}()

	auth := middleware.NewAuthMiddleware(d.Tokens, d.Sessions)
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)
	docs := cache.CacheByRequestURI(o.CacheStore, o.CacheTTL)

	// GET /metrics			-> Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	m := router.Group("/api", rateLimiter.Handler(), middleware.BodySizeLimiter(o.BodyLimit))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/openapi.yaml	-> API description
		m.GET("/openapi.yaml", docs, root.OpenAPI)
	}

	u := m.Group("/users")
	{
		// POST /api/users 		-> Registers a new user
		u.POST("", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// GET /api/users		-> Lists all users
		u.GET("", auth, func(c *gin.Context) { user.UserFetchAll(c, d) })

		// GET /api/users/:userId	-> Returns a user
		u.GET("/:userId", auth, func(c *gin.Context) { user.UserFetch(c, d) })

		// PATCH /api/users/:userId	-> Updates the caller's account
		u.PATCH("/:userId", auth, func(c *gin.Context) { user.UserEdit(c, d) })

		// DELETE /api/users/:userId	-> Deletes the caller's account
		u.DELETE("/:userId", auth, func(c *gin.Context) { user.UserDelete(c, d) })
	}

	s := m.Group("/sessions")
	{
		// POST /api/sessions		-> Logs in and returns a bearer token
		s.POST("", func(c *gin.Context) { session.SessionCreate(c, d) })

		// GET /api/sessions		-> Returns the user behind the token
		s.GET("", auth, func(c *gin.Context) { session.SessionFetch(c, d) })

		// DELETE /api/sessions		-> Logs out, revoking the token
		s.DELETE("", auth, func(c *gin.Context) { session.SessionDelete(c, d) })
	}

	f := m.Group("/forms", auth)
	{
		// GET /api/forms		-> Lists the caller's forms
		f.GET("", func(c *gin.Context) { form.FormFetchBulk(c, d) })

		// POST /api/forms		-> Creates a form
		f.POST("", func(c *gin.Context) { form.FormCreate(c, d) })

		// GET /api/forms/:formId	-> Returns a form
		f.GET("/:formId", func(c *gin.Context) { form.FormFetch(c, d) })

		// PATCH /api/forms/:formId	-> Updates a form owned by the caller
		f.PATCH("/:formId", func(c *gin.Context) { form.FormEdit(c, d) })

		// DELETE /api/forms/:formId	-> Deletes a form owned by the caller
		f.DELETE("/:formId", func(c *gin.Context) { form.FormDelete(c, d) })

		// POST /api/forms/:formId/exports	-> Exports a form with its responses
		f.POST("/:formId/exports", func(c *gin.Context) { export.ExportCreate(c, d) })
	}

	q := f.Group("/:formId/questions")
	{
		q.GET("", func(c *gin.Context) { question.QuestionList(c, d) })
		q.POST("", func(c *gin.Context) { question.QuestionCreate(c, d) })
		q.GET("/:questionId", func(c *gin.Context) { question.QuestionFetch(c, d) })
		q.PATCH("/:questionId", func(c *gin.Context) { question.QuestionEdit(c, d) })
		q.DELETE("/:questionId", func(c *gin.Context) { question.QuestionDelete(c, d) })
	}

	r := f.Group("/:formId/responses")
	{
		r.GET("", func(c *gin.Context) { response.ResponseList(c, d) })
		r.POST("", func(c *gin.Context) { response.ResponseCreate(c, d) })
		r.GET("/:id", func(c *gin.Context) { response.ResponseFetch(c, d) })
		r.PATCH("/:id", func(c *gin.Context) { response.ResponseEdit(c, d) })
		r.DELETE("/:id", func(c *gin.Context) { response.ResponseDelete(c, d) })
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}
