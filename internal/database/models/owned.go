package models

// Owned is implemented by entities that only a single user may modify.
type Owned interface {
	OwnerID() uint
}

var (
	_ Owned = (*Room)(nil)
	_ Owned = (*Message)(nil)
)
