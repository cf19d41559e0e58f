package httpserver

import (
	"context"
	"errors"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"
	"coursemarket/internal/service/cart"
	"coursemarket/internal/service/checkout"
	"coursemarket/internal/service/learning"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type CatalogService interface {
	Browse(ctx context.Context, query, category string) ([]domain.Course, error)
	Get(ctx context.Context, id int) (*domain.Course, error)
	Popular(ctx context.Context) ([]domain.Course, error)
	Featured(ctx context.Context) ([]domain.Course, error)
	Categories(ctx context.Context) ([]string, error)
}

type CartService interface {
	View(ctx context.Context) (*cart.View, error)
	Add(ctx context.Context, courseID int) (domain.CartItem, bool, error)
	Remove(ctx context.Context, courseID int) (bool, error)
	Clear(ctx context.Context) error
}

type LearningService interface {
	View(ctx context.Context) (*learning.View, error)
	Get(ctx context.Context, id int) (*domain.Enrollment, error)
	ForCourse(ctx context.Context, courseID int) (*domain.Enrollment, error)
	Enroll(ctx context.Context, courseID int) (*domain.Enrollment, bool, error)
	CompleteLesson(ctx context.Context, courseID, lessonID int) (*domain.Enrollment, error)
	Update(ctx context.Context, id int, patch domain.EnrollmentPatch) (*domain.Enrollment, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type CheckoutService interface {
	Quote(ctx context.Context) (*checkout.Quote, error)
	Checkout(ctx context.Context, form checkout.PaymentForm) (*checkout.Receipt, error)
}

// Deps are the services the API is built on.
type Deps struct {
	Catalog  CatalogService
	Cart     CartService
	Learning LearningService
	Checkout CheckoutService
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("httpserver: catalog service required")
	case d.Cart == nil:
		return errors.New("httpserver: cart service required")
	case d.Learning == nil:
		return errors.New("httpserver: learning service required")
	case d.Checkout == nil:
		return errors.New("httpserver: checkout service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(log *logger.Logger, db Pinger, deps Deps, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(accessLog(log), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps}
	api := router.Group("/api")
	{
		courses := api.Group("/courses")
		courses.GET("", h.listCourses)
		courses.GET("/popular", h.popularCourses)
		courses.GET("/featured", h.featuredCourses)
		courses.GET("/categories", h.categories)
		courses.GET("/:id", h.getCourse)
		courses.GET("/:id/enrollment", h.courseEnrollment)
		courses.POST("/:id/lessons/:lessonId/complete", h.completeLesson)

		cartGroup := api.Group("/cart")
		cartGroup.GET("", h.getCart)
		cartGroup.DELETE("", h.clearCart)
		cartGroup.POST("/items", h.addCartItem)
		cartGroup.DELETE("/items/:courseId", h.removeCartItem)

		api.GET("/checkout/quote", h.quote)
		api.POST("/checkout", h.checkout)

		enrollments := api.Group("/enrollments")
		enrollments.GET("", h.listEnrollments)
		enrollments.POST("", h.enroll)
		enrollments.GET("/:id", h.getEnrollment)
		enrollments.PATCH("/:id", h.updateEnrollment)
		enrollments.DELETE("/:id", h.deleteEnrollment)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return cfg
}

func accessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			log.Error("http: request", kv...)
			return
		}
		log.Info("http: request", kv...)
	}
}
