package controllers

import (
	"context"

	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forum"
)

// AccountStore is satisfied by *forum.AccountService.
type AccountStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID uint) error
}

// RoomStore is satisfied by *forum.RoomService.
type RoomStore interface {
	SearchRooms(ctx context.Context, q string) ([]models.Room, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	FindRoom(ctx context.Context, roomID uint) (*models.Room, error)
	RoomMessages(ctx context.Context, roomID uint) ([]models.Message, error)
	RoomParticipants(ctx context.Context, roomID uint) ([]models.User, error)
	CreateRoom(ctx context.Context, hostID uint, input forum.RoomInput) (*models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room, input forum.RoomInput) error
	DeleteRoom(ctx context.Context, roomID uint) error
	PostMessage(ctx context.Context, roomID, userID uint, body string) (*models.Message, error)
}

// MessageStore is satisfied by *forum.MessageService.
type MessageStore interface {
	FindMessage(ctx context.Context, messageID uint) (*models.Message, error)
	UpdateMessage(ctx context.Context, msg *models.Message, body string) error
	DeleteMessage(ctx context.Context, messageID uint) error
}

var (
	_ AccountStore = (*forum.AccountService)(nil)
	_ RoomStore    = (*forum.RoomService)(nil)
	_ MessageStore = (*forum.MessageService)(nil)
)
