package forum

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/studybud/backend/internal/database/models"
)

func NewMessageService(db *bun.DB) *MessageService {
	return &MessageService{
		baseService: newBaseService(db),
	}
}

type MessageService struct {
	baseService
}

func (s *MessageService) FindMessage(ctx context.Context, messageID uint) (msg *models.Message, err error) {
	msg = new(models.Message)
	err = s.DB.NewSelect().
		Model(msg).
		Relation("User").
		Where("message.id = ?", messageID).
		Scan(ctx)
	if err = translate(err, "forum.FindMessage"); err != nil {
		msg = nil
	}
	return
}

func (s *MessageService) UpdateMessage(ctx context.Context, msg *models.Message, body string) error {
	msg.Body = body
	msg.UpdatedAt = time.Now()

	_, err := s.DB.NewUpdate().
		Model(msg).
		Column("body", "updated_at").
		WherePK().
		Exec(ctx)
	return translate(err, "forum.UpdateMessage")
}

// DeleteMessage removes a single message; the room and its participants are untouched.
func (s *MessageService) DeleteMessage(ctx context.Context, messageID uint) error {
	res, err := s.DB.NewDelete().
		Model((*models.Message)(nil)).
		Where("id = ?", messageID).
		Exec(ctx)
	if err == nil {
		if n, _ := res.RowsAffected(); n == 0 {
			err = sql.ErrNoRows
		}
	}
	return translate(err, "forum.DeleteMessage")
}
