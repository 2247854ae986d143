package models

import "time"

// Course groups chapters and, as a playlist, modules.
type Course struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OrderedEntity is a chapter, module or video positioned inside its parent collection.
type OrderedEntity struct {
	ID        string    `json:"id" db:"id"`
	Kind      string    `json:"kind" db:"-"`
	ParentID  string    `json:"parent_id" db:"parent_id"`
	Title     string    `json:"title" db:"title"`
	Order     int       `json:"order" db:"order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
