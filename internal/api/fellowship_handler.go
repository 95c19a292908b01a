package api

import (
	"errors"
	"fmt"
	"net/http"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/fellowship"
	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FellowshipHandler holds the fellowship service dependency.
type FellowshipHandler struct {
	fellowshipService service.FellowshipService
}

// NewFellowshipHandler creates a new FellowshipHandler.
func NewFellowshipHandler(fellowshipService service.FellowshipService) *FellowshipHandler {
	return &FellowshipHandler{fellowshipService: fellowshipService}
}

// currentUserID resolves the authenticated user's ObjectID from the context.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetStatus returns the authenticated user's fellowship snapshot.
func (h *FellowshipHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.fellowshipService.Status(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, fellowship.ErrMalformedInput):
			abortWithError(c, http.StatusBadRequest, "Fellowship start date is not set")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch fellowship status")
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// Submit lets a participant close out their fellowship before day 100,
// provided they meet the customer quota.
func (h *FellowshipHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.fellowshipService.SubmitEarly(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, fellowship.ErrInvalidState):
			abortWithError(c, http.StatusConflict, "Fellowship already submitted")
		case errors.Is(err, fellowship.ErrQuotaNotMet):
			abortWithError(c, http.StatusBadRequest,
				fmt.Sprintf("You need %d customers to submit. You have %d.", fellowship.CustomerQuota, count))
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to submit fellowship")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Fellowship submitted successfully!",
		"customerCount": count,
	})
}

// CheckSubmissions runs the expiry sweep on demand. The background ticker
// calls the same service method; this endpoint exists for schedulers and
// manual pokes.
func (h *FellowshipHandler) CheckSubmissions(c *gin.Context) {
	results, err := h.fellowshipService.SweepExpired(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check submissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Processed %d auto-submissions", len(results)),
		"submissions": results,
	})
}

// --- Admin review ---

type ReviewRequest struct {
	Status domain.FellowshipStatus `json:"status" binding:"required,oneof=approved rejected"`
}

// ListSubmissions returns every reviewable fellowship with its proofs.
func (h *FellowshipHandler) ListSubmissions(c *gin.Context) {
	details, err := h.fellowshipService.ListSubmissions(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, details)
}

// ReviewSubmission applies an approve/reject decision to a submitted
// fellowship.
func (h *FellowshipHandler) ReviewSubmission(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.fellowshipService.Review(c.Request.Context(), targetID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, fellowship.ErrInvalidState):
			abortWithError(c, http.StatusConflict, "Fellowship is not awaiting review")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}
