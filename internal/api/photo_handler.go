package api

import (
	"errors"
	"net/http"

	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoHandler handles progress photos.
type PhotoHandler struct {
	photoService service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// GetMyPhotos lists the authenticated user's photos with view URLs.
func (h *PhotoHandler) GetMyPhotos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	photos, err := h.photoService.GetMyPhotos(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve photos: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes one of the authenticated user's photos.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	photoID, err := primitive.ObjectIDFromHex(c.Param("photoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}

	if err := h.photoService.Delete(c.Request.Context(), photoID, userID); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			abortWithError(c, http.StatusNotFound, "Photo not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete photo: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}
