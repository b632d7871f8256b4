package handlers

import (
	"net/http"

	"groupchat-backend/internal/services"
)

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadHandler uploads group avatars to Cloudinary. cloud may be nil when
// Cloudinary credentials are not configured; uploads then fail gracefully.
type UploadHandler struct {
	cloud *services.CloudinaryService
}

func NewUploadHandler(cloud *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{cloud: cloud}
}

// Upload handles POST /upload (multipart, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.cloud == nil {
		writeJSON(w, http.StatusServiceUnavailable, UploadResponse{Success: false, Message: "File upload service not available"})
		return
	}

	// Max 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Success: false, Message: "Failed to parse form: " + err.Error()})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Success: false, Message: "No file provided: " + err.Error()})
		return
	}
	defer file.Close()

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "groupchat"
	}

	url, err := h.cloud.UploadFileFromHeader(r.Context(), fileHeader, folder)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, UploadResponse{Success: false, Message: "Failed to upload file: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
