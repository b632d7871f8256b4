package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupchat-backend/internal/handlers"
	"groupchat-backend/internal/middleware"
	"groupchat-backend/internal/mocks"
	"groupchat-backend/internal/models"
	"groupchat-backend/internal/repositories"
	"groupchat-backend/internal/services"
)

func authedRequest(t *testing.T, method, target string, body interface{}, username string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(middleware.WithPrincipal(req.Context(), services.Principal{
		ID:       "507f1f77bcf86cd799439011",
		Username: username,
	}))
}

func TestCreateGroupMakesCallerAdminAndMember(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)

	groups.On("Create", mock.Anything, mock.MatchedBy(func(g models.Group) bool {
		return g.GroupName == "gophers" &&
			g.Admin.Username == "alice" &&
			len(g.Members) == 1 && g.Members[0].Username == "alice"
	})).Return(models.Group{GroupName: "gophers", Admin: models.GroupMember{Username: "alice"}}, nil)
	users.On("AddGroup", mock.Anything, "alice", "gophers").Return(nil)

	h := handlers.NewGroupHandler(groups, users)
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/group/create", handlers.CreateGroupRequest{GroupName: "gophers"}, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.CreateGroupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Group)
	require.Equal(t, "gophers", resp.Group.GroupName)
	groups.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestCreateGroupDuplicateName(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("Create", mock.Anything, mock.Anything).Return(models.Group{}, repositories.ErrConflict)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(t, http.MethodPost, "/group/create", handlers.CreateGroupRequest{GroupName: "gophers"}, "alice"))

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinGroupNotFound(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("AddMember", mock.Anything, "ghosts", "alice").Return(repositories.ErrNotFound)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.Join(rec, authedRequest(t, http.MethodPost, "/group/join", handlers.GroupNameRequest{GroupName: "ghosts"}, "alice"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinGroupUpdatesUserGroupList(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	groups.On("AddMember", mock.Anything, "gophers", "bob").Return(nil)
	users.On("AddGroup", mock.Anything, "bob", "gophers").Return(nil)

	h := handlers.NewGroupHandler(groups, users)
	rec := httptest.NewRecorder()
	h.Join(rec, authedRequest(t, http.MethodPost, "/group/join", handlers.GroupNameRequest{GroupName: "gophers"}, "bob"))

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestGetGroupsReturnsEmptySliceNotNull(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("FindByUsername", mock.Anything, "alice").Return(models.User{Username: "alice"}, nil)

	h := handlers.NewGroupHandler(new(mocks.GroupRepositoryMock), users)
	rec := httptest.NewRecorder()
	h.GetGroups(rec, authedRequest(t, http.MethodGet, "/group/getGroups", nil, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"groups":[]`)
}

func TestDeleteGroupAdminOnly(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("FindByName", mock.Anything, "gophers").Return(models.Group{
		GroupName: "gophers",
		Admin:     models.GroupMember{Username: "alice"},
	}, nil)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(t, http.MethodDelete, "/group/delete", handlers.GroupNameRequest{GroupName: "gophers"}, "bob"))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Only admin can delete group")
	groups.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteGroupCleansUserLists(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	groups.On("FindByName", mock.Anything, "gophers").Return(models.Group{
		GroupName: "gophers",
		Admin:     models.GroupMember{Username: "alice"},
	}, nil)
	groups.On("Delete", mock.Anything, "gophers").Return(nil)
	users.On("RemoveGroupFromAll", mock.Anything, "gophers").Return(nil)

	h := handlers.NewGroupHandler(groups, users)
	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(t, http.MethodDelete, "/group/delete", handlers.GroupNameRequest{GroupName: "gophers"}, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestSaveChatPersistsSenderFromPrincipal(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("AppendMessage", mock.Anything, "gophers", mock.MatchedBy(func(m models.ChatMessage) bool {
		return m.Sender == "alice" && m.Receiver == "gophers" &&
			m.Message == "hello" && m.Status == models.MessageStatusSent && m.Time != ""
	})).Return(nil)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.SaveChat(rec, authedRequest(t, http.MethodPost, "/group/chat/save", handlers.SaveChatRequest{
		GroupName: "gophers",
		Message:   "hello",
	}, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
}

func TestSaveChatGroupNotFound(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("AppendMessage", mock.Anything, "ghosts", mock.Anything).Return(repositories.ErrNotFound)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.SaveChat(rec, authedRequest(t, http.MethodPost, "/group/chat/save", handlers.SaveChatRequest{
		GroupName: "ghosts",
		Message:   "hello",
	}, "alice"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetChatsByGroupName(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("FindByName", mock.Anything, "gophers").Return(models.Group{
		GroupName: "gophers",
		Messages: []models.ChatMessage{
			{Sender: "alice", Receiver: "gophers", Message: "hi", Status: models.MessageStatusSent, Time: "09:15"},
			{Sender: "bob", Receiver: "gophers", Message: "hey", Status: models.MessageStatusSent, Time: "09:16"},
		},
	}, nil)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	r := chi.NewRouter()
	r.Get("/group/chats/{groupName}", h.GetChats)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/group/chats/gophers", nil, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.GetChatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Chats, 2)
	// Insertion order is preserved.
	require.Equal(t, "hi", resp.Chats[0].Message)
	require.Equal(t, "hey", resp.Chats[1].Message)
}

func TestGetMembersUnknownGroup(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("FindByName", mock.Anything, "ghosts").Return(models.Group{}, repositories.ErrNotFound)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	r := chi.NewRouter()
	r.Get("/group/members/{groupName}", h.GetMembers)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/group/members/ghosts", nil, "alice"))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddOnlineAbsentGroupIsSilentNoOp(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("AddOnline", mock.Anything, "ghosts", "alice").Return(nil)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	rec := httptest.NewRecorder()
	h.AddOnline(rec, authedRequest(t, http.MethodPost, "/group/online/add", handlers.GroupNameRequest{GroupName: "ghosts"}, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOnlineReturnsSet(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	groups.On("FindByName", mock.Anything, "gophers").Return(models.Group{
		GroupName: "gophers",
		Online:    []string{"alice", "bob"},
	}, nil)

	h := handlers.NewGroupHandler(groups, new(mocks.UserRepositoryMock))
	r := chi.NewRouter()
	r.Get("/group/online/{groupName}", h.GetOnline)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/group/online/gophers", nil, "alice"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.GetOnlineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"alice", "bob"}, resp.Members)
}

func TestGroupRoutesRejectMissingPrincipal(t *testing.T) {
	h := handlers.NewGroupHandler(new(mocks.GroupRepositoryMock), new(mocks.UserRepositoryMock))
	req := httptest.NewRequest(http.MethodGet, "/group/getGroups", nil)
	rec := httptest.NewRecorder()
	h.GetGroups(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
