package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

// PostRepository exposes blog/news persistence operations.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs a post repo bound to the provided GORM DB.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows post listings.
type PostFilter struct {
	Category      *enums.PostCategory
	IncludeDrafts bool
}

// List returns a page of posts, newest first.
func (r *PostRepository) List(ctx context.Context, filter PostFilter, limit int, cursor *pagination.Cursor) ([]models.Post, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if !filter.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Post
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySlug retrieves a single post by its slug.
func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByID loads a post by its UUID.
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Save persists the full post row.
func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes a post permanently.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EventRepository exposes community event persistence operations.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs an event repo bound to the provided GORM DB.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventFilter narrows event listings.
type EventFilter struct {
	IncludeDrafts bool
	From          *time.Time
}

// List returns events ordered by start time, soonest first.
func (r *EventRepository) List(ctx context.Context, filter EventFilter, limit int) ([]models.Event, error) {
	query := r.db.WithContext(ctx).
		Order("starts_at ASC, id ASC").
		Limit(limit)

	if !filter.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if filter.From != nil {
		query = query.Where("starts_at >= ?", *filter.From)
	}

	var rows []models.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads an event by its UUID.
func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Save persists the full event row.
func (r *EventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes an event permanently.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
