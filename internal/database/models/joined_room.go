package models

import "github.com/uptrace/bun"

// JoinedRoom is the participation relation between rooms and users.
type JoinedRoom struct {
	bun.BaseModel

	RoomID uint  `bun:",pk"`
	Room   *Room `bun:"rel:belongs-to,join:room_id=id"`
	UserID uint  `bun:",pk"`
	User   *User `bun:"rel:belongs-to,join:user_id=id"`
}
