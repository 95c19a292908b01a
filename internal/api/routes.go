package api

import (
	"net/http"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	fellowshipService service.FellowshipService,
	attachmentService service.AttachmentService,
	proofService service.ProofService,
	noteService service.NoteService,
	photoService service.PhotoService,
	workspaceService service.WorkspaceService,
	emailService service.EmailService,
	userRepo repository.UserRepository,
) {
	authHandler := NewAuthHandler(authService)
	fellowshipHandler := NewFellowshipHandler(fellowshipService)
	attachmentHandler := NewAttachmentHandler(attachmentService, photoService)
	proofHandler := NewProofHandler(proofService)
	noteHandler := NewNoteHandler(noteService, userRepo)
	photoHandler := NewPhotoHandler(photoService)
	workspaceHandler := NewWorkspaceHandler(workspaceService)
	emailHandler := NewEmailHandler(emailService, userRepo)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Inbound email webhook. Authenticated by the mail provider's
		// callback URL, not by a user token.
		apiV1.POST("/webhooks/email", attachmentHandler.IngestEmail)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Fellowship Routes ---
		fellowshipGroup := protected.Group("/fellowship")
		{
			fellowshipGroup.GET("/status", fellowshipHandler.GetStatus)
			fellowshipGroup.POST("/submit", fellowshipHandler.Submit)
			fellowshipGroup.POST("/check-submissions", RoleMiddleware(domain.RoleAdmin), fellowshipHandler.CheckSubmissions)
		}

		// --- Customer Proof Routes ---
		proofGroup := protected.Group("/proofs")
		{
			proofGroup.POST("", proofHandler.UploadProof)
			proofGroup.GET("", proofHandler.GetMyProofs)
		}

		// --- Note Routes ---
		noteGroup := protected.Group("/notes")
		{
			noteGroup.POST("", noteHandler.CreateNote)
			noteGroup.GET("", noteHandler.ListNotes)
			noteGroup.PUT("/:noteId", noteHandler.UpdateNote)
			noteGroup.DELETE("/:noteId", noteHandler.DeleteNote)
		}

		// --- Photo Routes ---
		photoGroup := protected.Group("/photos")
		{
			photoGroup.GET("", photoHandler.GetMyPhotos)
			photoGroup.DELETE("/:photoId", photoHandler.DeletePhoto)
		}

		// --- Workspace Routes ---
		workspaceGroup := protected.Group("/workspaces")
		{
			workspaceGroup.GET("/search", workspaceHandler.SearchWorkspaces)
			workspaceGroup.POST("/join", workspaceHandler.JoinWorkspace)
		}

		// --- Outbound Email Routes ---
		protected.POST("/email/send-attachment", emailHandler.SendAttachment)

		// --- Attachment Routes ---
		attachmentGroup := protected.Group("/attachments")
		{
			attachmentGroup.GET("", attachmentHandler.ListAttachments)
			attachmentGroup.GET("/:key", attachmentHandler.GetAttachment)
			attachmentGroup.DELETE("/:key", RoleMiddleware(domain.RoleAdmin), attachmentHandler.DeleteAttachment)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/submissions", fellowshipHandler.ListSubmissions)
			adminGroup.PUT("/submissions/:userId", fellowshipHandler.ReviewSubmission)
			adminGroup.DELETE("/proofs/:proofId", proofHandler.DeleteProof)
		}
	}
}
