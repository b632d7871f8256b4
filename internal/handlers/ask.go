package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"groupchat-backend/internal/ai"
	"groupchat-backend/internal/repositories"
)

type AskQuestionRequest struct {
	User      string `json:"user"`
	GroupName string `json:"groupName"`
	Question  string `json:"question"`
}

type AskQuestionResponse struct {
	Success  bool   `json:"success"`
	Messages string `json:"messages,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AskHandler forwards a group's transcript plus a question through the AI
// provider chain.
type AskHandler struct {
	groups repositories.GroupRepository
	bridge *ai.Bridge
}

func NewAskHandler(groups repositories.GroupRepository, bridge *ai.Bridge) *AskHandler {
	return &AskHandler{groups: groups, bridge: bridge}
}

// AskQuestion handles POST /group/askQuestion.
func (h *AskHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AskQuestionResponse{Success: false, Error: "Invalid request body"})
		return
	}

	if req.User == "" || req.GroupName == "" || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, AskQuestionResponse{Success: false, Error: "Missing fields."})
		return
	}

	group, err := h.groups.FindByName(r.Context(), req.GroupName)
	if errors.Is(err, repositories.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, AskQuestionResponse{Success: false, Error: "Group not found."})
		return
	}
	if err != nil {
		log.Printf("ask question: lookup %s failed: %v", req.GroupName, err)
		writeJSON(w, http.StatusInternalServerError, AskQuestionResponse{Success: false, Error: "Internal server error"})
		return
	}

	prompt := ai.BuildPrompt(group.Messages, req.Question)

	answer, err := h.bridge.Answer(r.Context(), prompt)
	if errors.Is(err, ai.ErrAllProvidersFailed) {
		writeJSON(w, http.StatusInternalServerError, AskQuestionResponse{
			Success: false,
			Error:   "All AI models failed to generate a response.",
		})
		return
	}
	if err != nil {
		log.Printf("ask question for %s failed: %v", req.GroupName, err)
		writeJSON(w, http.StatusInternalServerError, AskQuestionResponse{Success: false, Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, AskQuestionResponse{Success: true, Messages: answer})
}
