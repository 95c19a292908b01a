package api

import (
	"errors"
	"net/http"

	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkspaceHandler handles workspace discovery and joining.
type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// --- DTOs ---

// JoinWorkspaceRequest names the workspace to join.
type JoinWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId" binding:"required"`
}

// --- Handler Methods ---

// SearchWorkspaces returns workspaces matching the ?q= query.
func (h *WorkspaceHandler) SearchWorkspaces(c *gin.Context) {
	results, err := h.workspaceService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to search workspaces: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, results)
}

// JoinWorkspace adds the authenticated user to a workspace. Joining a
// workspace the user already belongs to succeeds without change.
func (h *WorkspaceHandler) JoinWorkspace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workspace ID format")
		return
	}

	result, err := h.workspaceService.Join(c.Request.Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			abortWithError(c, http.StatusNotFound, "Workspace not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to join workspace: "+err.Error())
		}
		return
	}

	message := "Joined workspace successfully"
	if result.AlreadyMember {
		message = "Already a member of this workspace"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   message,
		"workspace": result.Workspace,
	})
}
