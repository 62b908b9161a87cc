package forum

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/studybud/backend/internal/database/models"
)

// RoomInput carries the editable fields of a room.
type RoomInput struct {
	Topic       string
	Name        string
	Description string
}

func NewRoomService(db *bun.DB) *RoomService {
	return &RoomService{
		baseService: newBaseService(db),
	}
}

type RoomService struct {
	baseService
}

// SearchRooms returns rooms whose topic name, name or description contains q,
// ignoring case. An empty q matches every room.
func (s *RoomService) SearchRooms(ctx context.Context, q string) (rooms []models.Room, err error) {
	rooms = make([]models.Room, 0)
	pattern := containsPattern(q)

	err = s.DB.NewSelect().
		Model(&rooms).
		Relation("Host").
		Relation("Topic").
		WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("topic.name ILIKE ?", pattern).
				WhereOr("room.name ILIKE ?", pattern).
				WhereOr("room.description ILIKE ?", pattern)
		}).
		Scan(ctx)
	err = translate(err, "forum.SearchRooms")
	return
}

func (s *RoomService) ListTopics(ctx context.Context) (topics []models.Topic, err error) {
	topics = make([]models.Topic, 0)
	err = s.DB.NewSelect().
		Model(&topics).
		Scan(ctx)
	err = translate(err, "forum.ListTopics")
	return
}

func (s *RoomService) FindRoom(ctx context.Context, roomID uint) (room *models.Room, err error) {
	room = new(models.Room)
	err = s.DB.NewSelect().
		Model(room).
		Relation("Host").
		Relation("Topic").
		Where("room.id = ?", roomID).
		Scan(ctx)
	if err = translate(err, "forum.FindRoom"); err != nil {
		room = nil
	}
	return
}

// RoomMessages lists the messages of a room, newest first.
func (s *RoomService) RoomMessages(ctx context.Context, roomID uint) (messages []models.Message, err error) {
	messages = make([]models.Message, 0)
	err = s.DB.NewSelect().
		Model(&messages).
		Relation("User").
		Where("message.room_id = ?", roomID).
		Order("message.created_at DESC", "message.id DESC").
		Scan(ctx)
	err = translate(err, "forum.RoomMessages")
	return
}

func (s *RoomService) RoomParticipants(ctx context.Context, roomID uint) (participants []models.User, err error) {
	room := &models.Room{ID: roomID}
	err = s.DB.NewSelect().
		Model(room).
		Relation("Participants").
		WherePK().
		Scan(ctx)
	if err = translate(err, "forum.RoomParticipants"); err != nil {
		return
	}

	participants = room.Participants
	if participants == nil {
		participants = make([]models.User, 0)
	}
	return
}

func (s *RoomService) CreateRoom(ctx context.Context, hostID uint, input RoomInput) (room *models.Room, err error) {
	now := time.Now()
	room = &models.Room{
		HostID:      hostID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) (err error) {
		if room.Topic, err = getOrCreateTopic(ctx, tx, input.Topic); err != nil {
			return
		}
		if room.Topic != nil {
			room.TopicID = &room.Topic.ID
		}

		_, err = tx.NewInsert().
			Model(room).
			Exec(ctx)
		return
	})
	if err = translate(err, "forum.CreateRoom"); err != nil {
		room = nil
	}
	return
}

// UpdateRoom applies input to room and persists it.
func (s *RoomService) UpdateRoom(ctx context.Context, room *models.Room, input RoomInput) (err error) {
	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) (err error) {
		var topic *models.Topic
		if topic, err = getOrCreateTopic(ctx, tx, input.Topic); err != nil {
			return
		}

		room.Topic = topic
		room.TopicID = nil
		if topic != nil {
			room.TopicID = &topic.ID
		}
		room.Name = input.Name
		room.Description = input.Description
		room.UpdatedAt = time.Now()

		_, err = tx.NewUpdate().
			Model(room).
			Column("topic_id", "name", "description", "updated_at").
			WherePK().
			Exec(ctx)
		return
	})
	return translate(err, "forum.UpdateRoom")
}

// DeleteRoom removes a room together with its messages and participants.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uint) (err error) {
	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) (err error) {
		if _, err = tx.NewDelete().
			Model((*models.Message)(nil)).
			Where("room_id = ?", roomID).
			Exec(ctx); err != nil {
			return
		}

		if _, err = tx.NewDelete().
			Model((*models.JoinedRoom)(nil)).
			Where("room_id = ?", roomID).
			Exec(ctx); err != nil {
			return
		}

		var res sql.Result
		if res, err = tx.NewDelete().
			Model((*models.Room)(nil)).
			Where("id = ?", roomID).
			Exec(ctx); err != nil {
			return
		}

		if n, _ := res.RowsAffected(); n == 0 {
			err = sql.ErrNoRows
		}
		return
	})
	return translate(err, "forum.DeleteRoom")
}

// PostMessage stores a message and makes its author a participant of the room.
func (s *RoomService) PostMessage(ctx context.Context, roomID, userID uint, body string) (msg *models.Message, err error) {
	now := time.Now()
	msg = &models.Message{
		RoomID:    roomID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) (err error) {
		if _, err = tx.NewInsert().
			Model(msg).
			Exec(ctx); err != nil {
			return
		}

		_, err = tx.NewInsert().
			Model(&models.JoinedRoom{RoomID: roomID, UserID: userID}).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		return
	})
	if err = translate(err, "forum.PostMessage"); err != nil {
		msg = nil
	}
	return
}

// getOrCreateTopic returns nil for an empty name.
func getOrCreateTopic(ctx context.Context, tx bun.Tx, name string) (topic *models.Topic, err error) {
	if name == "" {
		return
	}

	topic = new(models.Topic)
	err = tx.NewSelect().
		Model(topic).
		Where("name = ?", name).
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		return
	}

	topic = &models.Topic{Name: name}
	_, err = tx.NewInsert().
		Model(topic).
		Exec(ctx)
	return
}
