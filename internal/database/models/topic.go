package models

import "github.com/uptrace/bun"

type Topic struct {
	bun.BaseModel

	ID   uint   `bun:",pk,autoincrement"`
	Name string `bun:",notnull"`
}
