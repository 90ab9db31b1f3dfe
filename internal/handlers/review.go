package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/middleware"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/render"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
	"github.com/JonnyWalker81/yearinmotion/internal/story"
)

const (
	minYear = 2009
	maxYear = 9999
)

// ReviewResponse is a review together with its display strings
type ReviewResponse struct {
	Review    *models.Review    `json:"review"`
	Dashboard *render.Dashboard `json:"dashboard"`
}

// StoryResponse carries the slideshow for a review
type StoryResponse struct {
	Year            int           `json:"year"`
	Slides          []story.Slide `json:"slides"`
	SlideDurationMS int64         `json:"slide_duration_ms"`
}

type ReviewHandler struct {
	reviewService service.ReviewService
	defaultYear   int
	slideDuration time.Duration
}

// NewReviewHandler creates a new review handler. Requests without ?year=
// get defaultYear.
func NewReviewHandler(reviewService service.ReviewService, defaultYear int, slideDuration time.Duration) *ReviewHandler {
	if slideDuration <= 0 {
		slideDuration = story.DefaultSlideDuration
	}
	return &ReviewHandler{
		reviewService: reviewService,
		defaultYear:   defaultYear,
		slideDuration: slideDuration,
	}
}

// Demo handles GET /api/v1/demo
func (h *ReviewHandler) Demo(c *gin.Context) {
	review, err := h.reviewService.Demo()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{Review: review, Dashboard: render.NewDashboard(review)})
}

// GetReview handles GET /api/v1/review
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, ok := h.load(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{Review: review, Dashboard: render.NewDashboard(review)})
}

// RefreshReview handles POST /api/v1/review/refresh
func (h *ReviewHandler) RefreshReview(c *gin.Context) {
	review, ok := h.load(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{Review: review, Dashboard: render.NewDashboard(review)})
}

// GetStory handles GET /api/v1/review/story
func (h *ReviewHandler) GetStory(c *gin.Context) {
	review, ok := h.load(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StoryResponse{
		Year:            review.Year,
		Slides:          story.BuildSlides(review),
		SlideDurationMS: h.slideDuration.Milliseconds(),
	})
}

// GetShareCard handles GET /api/v1/review/share.png
func (h *ReviewHandler) GetShareCard(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	opts := render.ShareCardOptions{Scale: render.DefaultScale}
	if raw := c.Query("scale"); raw != "" {
		scale, err := strconv.Atoi(raw)
		if err != nil || scale < 1 || scale > render.MaxScale {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{{
				Field:   "scale",
				Message: fmt.Sprintf("must be an integer between 1 and %d", render.MaxScale),
				Code:    "out_of_range",
			}}))
			return
		}
		opts.Scale = scale
	}

	review, ok := h.load(c, false)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.EncodeShareCard(&buf, review, opts); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, render.ShareCardFileName(review.Year)))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// load resolves the requested year for the authenticated session, writing
// the error response itself when it fails
func (h *ReviewHandler) load(c *gin.Context, refresh bool) (*models.Review, bool) {
	requestID := apierror.GetRequestID(c)

	session, ok := middleware.SessionFromContext(c)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return nil, false
	}

	year, fieldErr := h.parseYear(c)
	if fieldErr != nil {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{*fieldErr}))
		return nil, false
	}

	var (
		review *models.Review
		err    error
	)
	if refresh {
		review, err = h.reviewService.Refresh(c.Request.Context(), session, year)
	} else {
		review, err = h.reviewService.ForSession(c.Request.Context(), session, year)
	}
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return review, true
}

func (h *ReviewHandler) parseYear(c *gin.Context) (int, *apierror.FieldError) {
	raw := c.Query("year")
	if raw == "" {
		return h.defaultYear, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apierror.FieldError{Field: "year", Message: "must be a number", Code: "invalid_format"}
	}
	if year < minYear || year > maxYear {
		return 0, &apierror.FieldError{
			Field:   "year",
			Message: fmt.Sprintf("must be between %d and %d", minYear, maxYear),
			Code:    "out_of_range",
		}
	}
	return year, nil
}
