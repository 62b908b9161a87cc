package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Room struct {
	bun.BaseModel

	ID          uint  `bun:",pk,autoincrement"`
	HostID      uint  `bun:",notnull"`
	Host        *User `bun:"rel:belongs-to,join:host_id=id"`
	TopicID     *uint
	Topic       *Topic    `bun:"rel:belongs-to,join:topic_id=id"`
	Name        string    `bun:",notnull"`
	Description string    `bun:",notnull"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`

	Participants []User `bun:"m2m:joined_rooms,join:Room=User"`
}

func (r *Room) OwnerID() uint {
	return r.HostID
}

// TopicName is empty for rooms without a topic.
func (r *Room) TopicName() string {
	if r.Topic == nil {
		return ""
	}
	return r.Topic.Name
}
