package httpserver

import (
	"fmt"
	"net/http"

	"coursemarket/internal/domain"
	"coursemarket/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	deps Deps
}

type courseRefRequest struct {
	CourseID int `json:"courseId"`
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalid, err))
		return false
	}
	return true
}

// GET /api/courses?search=&category=
func (h *handlers) listCourses(c *gin.Context) {
	courses, err := h.deps.Catalog.Browse(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *handlers) popularCourses(c *gin.Context) {
	courses, err := h.deps.Catalog.Popular(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *handlers) featuredCourses(c *gin.Context) {
	courses, err := h.deps.Catalog.Featured(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *handlers) categories(c *gin.Context) {
	cats, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GET /api/courses/:id
func (h *handlers) getCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := h.deps.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// GET /api/courses/:id/enrollment
func (h *handlers) courseEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.deps.Learning.ForCourse(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/courses/:id/lessons/:lessonId/complete
func (h *handlers) completeLesson(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	lessonID, ok := pathID(c, "lessonId")
	if !ok {
		return
	}
	e, err := h.deps.Learning.CompleteLesson(c.Request.Context(), courseID, lessonID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) getCart(c *gin.Context) {
	view, err := h.deps.Cart.View(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/cart/items
func (h *handlers) addCartItem(c *gin.Context) {
	var req courseRefRequest
	if !bindJSON(c, &req) {
		return
	}
	item, created, err := h.deps.Cart.Add(c.Request.Context(), req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

// DELETE /api/cart/items/:courseId
func (h *handlers) removeCartItem(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	removed, err := h.deps.Cart.Remove(c.Request.Context(), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		writeError(c, fmt.Errorf("course %d in cart: %w", courseID, domain.ErrNotFound))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.Cart.Clear(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) quote(c *gin.Context) {
	q, err := h.deps.Checkout.Quote(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/checkout
func (h *handlers) checkout(c *gin.Context) {
	var form checkout.PaymentForm
	if !bindJSON(c, &form) {
		return
	}
	receipt, err := h.deps.Checkout.Checkout(c.Request.Context(), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// GET /api/enrollments
func (h *handlers) listEnrollments(c *gin.Context) {
	view, err := h.deps.Learning.View(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/enrollments enrolls in one course without going through checkout.
func (h *handlers) enroll(c *gin.Context) {
	var req courseRefRequest
	if !bindJSON(c, &req) {
		return
	}
	e, created, err := h.deps.Learning.Enroll(c.Request.Context(), req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, e)
}

func (h *handlers) getEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.deps.Learning.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// PATCH /api/enrollments/:id
func (h *handlers) updateEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.EnrollmentPatch
	if !bindJSON(c, &patch) {
		return
	}
	e, err := h.deps.Learning.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) deleteEnrollment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.deps.Learning.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		writeError(c, fmt.Errorf("enrollment %d: %w", id, domain.ErrNotFound))
		return
	}
	c.Status(http.StatusNoContent)
}
