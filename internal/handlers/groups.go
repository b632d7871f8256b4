package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"groupchat-backend/internal/middleware"
	"groupchat-backend/internal/models"
	"groupchat-backend/internal/observability"
	"groupchat-backend/internal/repositories"
)

type CreateGroupRequest struct {
	GroupName string `json:"groupName"`
	Avatar    string `json:"avatar,omitempty"`
}

type GroupNameRequest struct {
	GroupName string `json:"groupName"`
}

type SaveChatRequest struct {
	GroupName string `json:"groupName"`
	Message   string `json:"message"`
}

type CreateGroupResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Group   *models.Group `json:"group,omitempty"`
}

type GetGroupsResponse struct {
	Success bool     `json:"success"`
	Groups  []string `json:"groups"`
}

type GetChatsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Chats   []models.ChatMessage `json:"chats"`
}

type GetAvatarResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Avatar  string `json:"avatar"`
}

type GetMembersResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Members []models.GroupMember `json:"members"`
	Admin   models.GroupMember   `json:"admin"`
}

type GetOnlineResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Members []string `json:"members"`
}

// GroupHandler owns the group directory, chat log, and presence endpoints.
// Every route sits behind RequireAuth; the acting username always comes from
// the verified principal, never from the request body.
type GroupHandler struct {
	groups repositories.GroupRepository
	users  repositories.UserRepository
}

func NewGroupHandler(groups repositories.GroupRepository, users repositories.UserRepository) *GroupHandler {
	return &GroupHandler{groups: groups, users: users}
}

// Create handles POST /group/create.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	req.GroupName = strings.TrimSpace(req.GroupName)
	if req.GroupName == "" {
		writeMessage(w, http.StatusBadRequest, false, "Group name is required")
		return
	}

	// Creator is the admin and the first member.
	group, err := h.groups.Create(r.Context(), models.Group{
		GroupName: req.GroupName,
		Admin:     models.GroupMember{Username: principal.Username},
		Members:   []models.GroupMember{{Username: principal.Username}},
		Avatar:    req.Avatar,
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, repositories.ErrConflict) {
		writeMessage(w, http.StatusConflict, false, "A group with this name already exists")
		return
	}
	if err != nil {
		log.Printf("create group %s failed: %v", req.GroupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to create group")
		return
	}

	if err := h.users.AddGroup(r.Context(), principal.Username, req.GroupName); err != nil {
		log.Printf("create group %s: failed to update creator's group list: %v", req.GroupName, err)
	}

	writeJSON(w, http.StatusOK, CreateGroupResponse{
		Success: true,
		Message: "Group created",
		Group:   &group,
	})
}

// Join handles POST /group/join. Idempotent: re-joining is a no-op.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req GroupNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	err := h.groups.AddMember(r.Context(), req.GroupName, principal.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, false, "Group not found")
		return
	}
	if err != nil {
		log.Printf("join group %s failed for %s: %v", req.GroupName, principal.Username, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to join group")
		return
	}

	if err := h.users.AddGroup(r.Context(), principal.Username, req.GroupName); err != nil {
		log.Printf("join group %s: failed to update %s's group list: %v", req.GroupName, principal.Username, err)
	}

	writeMessage(w, http.StatusOK, true, "Joined successfully")
}

// GetGroups handles GET /group/getGroups: the caller's joined-group names.
func (h *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), principal.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		log.Printf("get groups failed for %s: %v", principal.Username, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to load groups")
		return
	}

	groups := user.Groups
	if groups == nil {
		groups = []string{}
	}
	writeJSON(w, http.StatusOK, GetGroupsResponse{Success: true, Groups: groups})
}

// Delete handles DELETE /group/delete. Admin only; pulls the group name from
// every member's groups list so no dangling reference survives the call.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req GroupNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	group, err := h.groups.FindByName(r.Context(), req.GroupName)
	if errors.Is(err, repositories.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, false, "Group not found")
		return
	}
	if err != nil {
		log.Printf("delete group %s lookup failed: %v", req.GroupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete group")
		return
	}

	if group.Admin.Username != principal.Username {
		writeMessage(w, http.StatusForbidden, false, "Only admin can delete group")
		return
	}

	if err := h.groups.Delete(r.Context(), req.GroupName); err != nil {
		log.Printf("delete group %s failed: %v", req.GroupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete group")
		return
	}

	// Fan-out is not atomic with the delete; a crash in between leaves stale
	// names that the next delete of the same group cannot clean up.
	if err := h.users.RemoveGroupFromAll(r.Context(), req.GroupName); err != nil {
		log.Printf("delete group %s: failed to clean member lists: %v", req.GroupName, err)
	}

	writeMessage(w, http.StatusOK, true, "Group deleted")
}

// SaveChat handles POST /group/chat/save: the REST append path next to the
// realtime one.
func (h *GroupHandler) SaveChat(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req SaveChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}
	if req.GroupName == "" || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, false, "Group name and message are required")
		return
	}

	msg := models.ChatMessage{
		Sender:   principal.Username,
		Receiver: req.GroupName,
		Message:  req.Message,
		Status:   models.MessageStatusSent,
		Time:     time.Now().Format("15:04"),
	}

	err := h.groups.AppendMessage(r.Context(), req.GroupName, msg)
	if errors.Is(err, repositories.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, false, "Group not found")
		return
	}
	if err != nil {
		log.Printf("save chat for %s failed: %v", req.GroupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to save message")
		return
	}

	observability.IncMessagePersisted()
	writeMessage(w, http.StatusOK, true, "Message saved")
}

// GetChats handles GET /group/chats/{groupName}: the full ordered log.
func (h *GroupHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	group, done := h.lookupGroup(w, r)
	if done {
		return
	}
	chats := group.Messages
	if chats == nil {
		chats = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, GetChatsResponse{Success: true, Chats: chats})
}

// GetAvatar handles GET /group/avatar/{groupName}.
func (h *GroupHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	group, done := h.lookupGroup(w, r)
	if done {
		return
	}
	writeJSON(w, http.StatusOK, GetAvatarResponse{Success: true, Avatar: group.Avatar})
}

// GetMembers handles GET /group/members/{groupName}.
func (h *GroupHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	group, done := h.lookupGroup(w, r)
	if done {
		return
	}
	writeJSON(w, http.StatusOK, GetMembersResponse{
		Success: true,
		Members: group.Members,
		Admin:   group.Admin,
	})
}

// AddOnline handles POST /group/online/add. Silent no-op when the group is
// absent (filtered-update semantics).
func (h *GroupHandler) AddOnline(w http.ResponseWriter, r *http.Request) {
	h.toggleOnline(w, r, true)
}

// RemoveOnline handles POST /group/online/remove.
func (h *GroupHandler) RemoveOnline(w http.ResponseWriter, r *http.Request) {
	h.toggleOnline(w, r, false)
}

func (h *GroupHandler) toggleOnline(w http.ResponseWriter, r *http.Request, online bool) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req GroupNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	var err error
	if online {
		err = h.groups.AddOnline(r.Context(), req.GroupName, principal.Username)
	} else {
		err = h.groups.RemoveOnline(r.Context(), req.GroupName, principal.Username)
	}
	if err != nil {
		log.Printf("toggle online for %s in %s failed: %v", principal.Username, req.GroupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to update online status")
		return
	}

	writeMessage(w, http.StatusOK, true, "OK")
}

// GetOnline handles GET /group/online/{groupName}.
func (h *GroupHandler) GetOnline(w http.ResponseWriter, r *http.Request) {
	group, done := h.lookupGroup(w, r)
	if done {
		return
	}
	online := group.Online
	if online == nil {
		online = []string{}
	}
	writeJSON(w, http.StatusOK, GetOnlineResponse{Success: true, Members: online})
}

// lookupGroup resolves the {groupName} URL parameter. Writes the error
// response and returns done=true when the caller should stop.
func (h *GroupHandler) lookupGroup(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	groupName := chi.URLParam(r, "groupName")
	group, err := h.groups.FindByName(r.Context(), groupName)
	if errors.Is(err, repositories.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, false, "Group not found")
		return models.Group{}, true
	}
	if err != nil {
		log.Printf("lookup group %s failed: %v", groupName, err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to load group")
		return models.Group{}, true
	}
	return group, false
}
