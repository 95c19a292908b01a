package api

import (
	"errors"
	"net/http"
	"time"

	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProofHandler handles customer proof uploads and listing.
type ProofHandler struct {
	proofService service.ProofService
}

// NewProofHandler creates a new ProofHandler.
func NewProofHandler(proofService service.ProofService) *ProofHandler {
	return &ProofHandler{proofService: proofService}
}

// --- DTOs ---

// UploadProofRequest carries the form fields accompanying the proof
// document. The document itself arrives as the "document" multipart file.
type UploadProofRequest struct {
	CustomerName string  `form:"customerName" binding:"required"`
	PaymentDate  string  `form:"paymentDate" binding:"required"` // YYYY-MM-DD
	Amount       float64 `form:"amount" binding:"required,gt=0"`
}

// --- Handler Methods ---

// UploadProof stores a new customer proof for the authenticated user.
func (h *ProofHandler) UploadProof(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UploadProofRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data: "+err.Error())
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "paymentDate must be YYYY-MM-DD")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Proof document file ('document') is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	proof, err := h.proofService.Upload(c.Request.Context(), userID, service.UploadProofInput{
		CustomerName: req.CustomerName,
		PaymentDate:  paymentDate,
		Amount:       req.Amount,
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidDocumentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to store proof: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, proof)
}

// GetMyProofs lists the authenticated user's proofs with view URLs.
func (h *ProofHandler) GetMyProofs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	proofs, err := h.proofService.GetMyProofs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve proofs: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, proofs)
}

// DeleteProof removes a proof record and its stored document. Admin only.
func (h *ProofHandler) DeleteProof(c *gin.Context) {
	proofID, err := primitive.ObjectIDFromHex(c.Param("proofId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid proof ID format")
		return
	}

	if err := h.proofService.Delete(c.Request.Context(), proofID); err != nil {
		if errors.Is(err, service.ErrProofNotFound) {
			abortWithError(c, http.StatusNotFound, "Proof not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete proof: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proof deleted successfully"})
}
