package services

import (
	"context"

	"mentorship/internal/domain/models"
)

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title string `json:"title"`
}

// CreateEntityRequest represents a request to append a chapter, module or video
type CreateEntityRequest struct {
	ParentID string `json:"-"`
	Title    string `json:"title"`
}

// ReorderService persists caller-supplied orders of ordered collections.
type ReorderService interface {
	// Reorder validates req and atomically rewrites the ordinals of the listed
	// entities so they match their position in req.IDs.
	Reorder(ctx context.Context, kind string, req *models.ReorderRequest) error
}

// ContentService manages courses and their ordered children.
type ContentService interface {
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)

	CreateEntity(ctx context.Context, kind string, req *CreateEntityRequest) (*models.OrderedEntity, error)
	GetEntity(ctx context.Context, kind, id string) (*models.OrderedEntity, error)
	ListEntities(ctx context.Context, kind, parentID string) ([]models.OrderedEntity, error)
	DeleteEntity(ctx context.Context, kind, id string) error
}
