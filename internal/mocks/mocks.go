// Package mocks provides testify mocks for the repository and service
// boundaries used across handler and realtime tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groupchat-backend/internal/models"
	"groupchat-backend/internal/ws"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserRepositoryMock) FindByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserRepositoryMock) AddGroup(ctx context.Context, username, groupName string) error {
	args := m.Called(ctx, username, groupName)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveGroupFromAll(ctx context.Context, groupName string) error {
	args := m.Called(ctx, groupName)
	return args.Error(0)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) Create(ctx context.Context, group models.Group) (models.Group, error) {
	args := m.Called(ctx, group)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *GroupRepositoryMock) FindByName(ctx context.Context, groupName string) (models.Group, error) {
	args := m.Called(ctx, groupName)
	return args.Get(0).(models.Group), args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupName, username string) error {
	args := m.Called(ctx, groupName, username)
	return args.Error(0)
}

func (m *GroupRepositoryMock) Delete(ctx context.Context, groupName string) error {
	args := m.Called(ctx, groupName)
	return args.Error(0)
}

func (m *GroupRepositoryMock) AppendMessage(ctx context.Context, groupName string, msg models.ChatMessage) error {
	args := m.Called(ctx, groupName, msg)
	return args.Error(0)
}

func (m *GroupRepositoryMock) AddOnline(ctx context.Context, groupName, username string) error {
	args := m.Called(ctx, groupName, username)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveOnline(ctx context.Context, groupName, username string) error {
	args := m.Called(ctx, groupName, username)
	return args.Error(0)
}

type ProviderMock struct {
	mock.Mock

	ProviderName string
}

func (m *ProviderMock) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *ProviderMock) Ask(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type EventPublisherMock struct {
	mock.Mock
}

func (m *EventPublisherMock) Publish(ctx context.Context, room string, event ws.ServerEvent, excludeConnID string) error {
	args := m.Called(ctx, room, event, excludeConnID)
	return args.Error(0)
}
