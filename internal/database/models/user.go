package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel

	ID           uint       `bun:",pk,autoincrement"`
	Username     string     `bun:",unique,notnull"`
	PasswordHash string     `bun:",notnull"`
	DateJoined   time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
	LastLogin    *time.Time `bun:",nullzero"`
}
