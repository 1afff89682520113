package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/pkg/db"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

// Service exposes the blog, news, and events surface for both the
// public site and the admin back office.
type Service interface {
	ListPosts(ctx context.Context, filter PostFilter, params pagination.Params) ([]models.Post, string, error)
	GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Post, error)
	CreatePost(ctx context.Context, input PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	ListEvents(ctx context.Context, filter EventFilter, limit int) ([]models.Event, error)
	CreateEvent(ctx context.Context, input EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// PostInput is the payload for creating a post. Slug is derived from
// the title when empty.
type PostInput struct {
	Slug      string
	Title     string
	Excerpt   string
	Body      string
	Category  enums.PostCategory
	Author    string
	ImagePath string
	Published bool
}

// UpdatePostInput holds optional post mutations.
type UpdatePostInput struct {
	Title     *string
	Excerpt   *string
	Body      *string
	Category  *enums.PostCategory
	Author    *string
	ImagePath *string
	Published *bool
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	ImagePath   string
	Published   bool
}

// UpdateEventInput holds optional event mutations.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	ImagePath   *string
	Published   *bool
}

type service struct {
	posts  *PostRepository
	events *EventRepository
	now    func() time.Time
}

// NewService constructs a content service instance.
func NewService(posts *PostRepository, events *EventRepository) (Service, error) {
	if posts == nil {
		return nil, fmt.Errorf("post repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{posts: posts, events: events, now: time.Now}, nil
}

func (s *service) ListPosts(ctx context.Context, filter PostFilter, params pagination.Params) ([]models.Post, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.posts.List(ctx, filter, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) GetPostBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Post, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	if !post.Published && !includeDrafts {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

func (s *service) CreatePost(ctx context.Context, input PostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post category")
	}

	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title does not produce a usable slug")
	}

	post := &models.Post{
		Slug:      slug,
		Title:     title,
		Excerpt:   strings.TrimSpace(input.Excerpt),
		Body:      input.Body,
		Category:  input.Category,
		Author:    strings.TrimSpace(input.Author),
		ImagePath: input.ImagePath,
		Published: input.Published,
	}
	if post.Published {
		now := s.now().UTC()
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if db.IsUniqueViolation(err, "slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating post")
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		post.Title = title
	}
	if input.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "body cannot be empty")
		}
		post.Body = *input.Body
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post category")
		}
		post.Category = *input.Category
	}
	if input.Author != nil {
		post.Author = strings.TrimSpace(*input.Author)
	}
	if input.ImagePath != nil {
		post.ImagePath = *input.ImagePath
	}
	if input.Published != nil {
		// First publish stamps published_at; unpublishing keeps the
		// original timestamp for history.
		if *input.Published && !post.Published && post.PublishedAt == nil {
			now := s.now().UTC()
			post.PublishedAt = &now
		}
		post.Published = *input.Published
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting post")
	}
	return nil
}

func (s *service) ListEvents(ctx context.Context, filter EventFilter, limit int) ([]models.Event, error) {
	rows, err := s.events.List(ctx, filter, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing events")
	}
	return rows, nil
}

func (s *service) CreateEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if input.StartsAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time is required")
	}
	if input.EndsAt != nil && !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}

	event := &models.Event{
		Title:       title,
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt,
		ImagePath:   input.ImagePath,
		Published:   input.Published,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating event")
	}
	return event, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading event")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location cannot be empty")
		}
		event.Location = location
	}
	if input.StartsAt != nil {
		event.StartsAt = input.StartsAt.UTC()
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}
	if event.EndsAt != nil && !event.EndsAt.After(event.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}
	if input.ImagePath != nil {
		event.ImagePath = *input.ImagePath
	}
	if input.Published != nil {
		event.Published = *input.Published
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating event")
	}
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting event")
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
