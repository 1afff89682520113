package controllers

import (
	"net/http"
	"time"

	"github.com/levelup-gaming/levelup-backend/api/responses"
	"github.com/levelup-gaming/levelup-backend/api/validators"
	"github.com/levelup-gaming/levelup-backend/internal/content"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

type createPostRequest struct {
	Slug      string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Title     string `json:"title" validate:"required,max=200"`
	Excerpt   string `json:"excerpt" validate:"max=500"`
	Body      string `json:"body" validate:"required"`
	Category  string `json:"category" validate:"required,oneof=blog news"`
	Author    string `json:"author" validate:"max=120"`
	ImagePath string `json:"image_path" validate:"max=500"`
	Published bool   `json:"published"`
}

type updatePostRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Excerpt   *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Body      *string `json:"body,omitempty" validate:"omitempty,min=1"`
	Category  *string `json:"category,omitempty" validate:"omitempty,oneof=blog news"`
	Author    *string `json:"author,omitempty" validate:"omitempty,max=120"`
	ImagePath *string `json:"image_path,omitempty" validate:"omitempty,max=500"`
	Published *bool   `json:"published,omitempty"`
}

type createEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Location    string     `json:"location" validate:"max=300"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	ImagePath   string     `json:"image_path" validate:"max=500"`
	Published   bool       `json:"published"`
}

type updateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	ImagePath   *string    `json:"image_path,omitempty" validate:"omitempty,max=500"`
	Published   *bool      `json:"published,omitempty"`
}

// AdminPostsList pages through every post, drafts included.
func AdminPostsList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := content.PostFilter{IncludeDrafts: true}
		posts, next, err := svc.ListPosts(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedResponse{Items: posts, NextCursor: next})
	}
}

// AdminPostCreate publishes or drafts a new post.
func AdminPostCreate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var body createPostRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.CreatePost(r.Context(), content.PostInput{
			Slug:      body.Slug,
			Title:     body.Title,
			Excerpt:   body.Excerpt,
			Body:      body.Body,
			Category:  enums.PostCategory(body.Category),
			Author:    body.Author,
			ImagePath: body.ImagePath,
			Published: body.Published,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// AdminPostUpdate applies partial post mutations.
func AdminPostUpdate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePostRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := content.UpdatePostInput{
			Title:     body.Title,
			Excerpt:   body.Excerpt,
			Body:      body.Body,
			Author:    body.Author,
			ImagePath: body.ImagePath,
			Published: body.Published,
		}
		if body.Category != nil {
			category := enums.PostCategory(*body.Category)
			input.Category = &category
		}

		post, err := svc.UpdatePost(r.Context(), postID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// AdminPostDelete removes a post.
func AdminPostDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePost(r.Context(), postID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminEventsList serves all events, drafts and past ones included.
func AdminEventsList(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.ListEvents(r.Context(), content.EventFilter{IncludeDrafts: true}, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}

// AdminEventCreate schedules a new event.
func AdminEventCreate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var body createEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.CreateEvent(r.Context(), content.EventInput{
			Title:       body.Title,
			Description: body.Description,
			Location:    body.Location,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
			ImagePath:   body.ImagePath,
			Published:   body.Published,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

// AdminEventUpdate applies partial event mutations.
func AdminEventUpdate(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		eventID, err := pathUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.UpdateEvent(r.Context(), eventID, content.UpdateEventInput{
			Title:       body.Title,
			Description: body.Description,
			Location:    body.Location,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
			ImagePath:   body.ImagePath,
			Published:   body.Published,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

// AdminEventDelete removes an event.
func AdminEventDelete(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		eventID, err := pathUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEvent(r.Context(), eventID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
