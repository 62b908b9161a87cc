package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Message struct {
	bun.BaseModel

	ID        uint      `bun:",pk,autoincrement"`
	RoomID    uint      `bun:",notnull"`
	Room      *Room     `bun:"rel:belongs-to,join:room_id=id"`
	UserID    uint      `bun:",notnull"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id"`
	Body      string    `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

func (m *Message) OwnerID() uint {
	return m.UserID
}
