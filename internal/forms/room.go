package forms

import (
	"net/http"

	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forum"
)

type RoomForm struct {
	Topic       string `form:"topic" validate:"max=200"`
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description"`
}

func ParseRoomForm(r *http.Request) RoomForm {
	return RoomForm{
		Topic:       value(r, "topic"),
		Name:        value(r, "name"),
		Description: value(r, "description"),
	}
}

// RoomFormFor prefills the form from an existing room.
func RoomFormFor(room *models.Room) RoomForm {
	return RoomForm{
		Topic:       room.TopicName(),
		Name:        room.Name,
		Description: room.Description,
	}
}

func (f RoomForm) Validate() Errors {
	return check(f)
}

func (f RoomForm) Input() forum.RoomInput {
	return forum.RoomInput{
		Topic:       f.Topic,
		Name:        f.Name,
		Description: f.Description,
	}
}
