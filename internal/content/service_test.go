package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Post{}, &models.Event{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewPostRepository(conn), NewEventRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func postInput(title string) PostInput {
	return PostInput{
		Title:     title,
		Excerpt:   "Resumen corto",
		Body:      "Contenido largo del articulo.",
		Category:  enums.PostCategoryBlog,
		Author:    "Equipo LevelUp",
		Published: true,
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Torneo de Catan 2025", "torneo-de-catan-2025"},
		{"  PS5: lo que viene!!  ", "ps5-lo-que-viene"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreatePostDerivesSlugAndStampsPublish(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, postInput("Torneo de Catan 2025"))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.Slug != "torneo-de-catan-2025" {
		t.Fatalf("unexpected slug %q", post.Slug)
	}
	if post.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped")
	}

	got, err := svc.GetPostBySlug(ctx, "Torneo-de-Catan-2025", false)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != post.ID {
		t.Fatal("slug lookup returned the wrong post")
	}
}

func TestCreatePostDuplicateSlugConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, postInput("Mismo titulo")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreatePost(ctx, postInput("Mismo titulo"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDraftPostsHiddenFromPublicSurface(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	draft := postInput("Borrador secreto")
	draft.Published = false
	created, err := svc.CreatePost(ctx, draft)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if created.PublishedAt != nil {
		t.Fatal("draft should not carry published_at")
	}

	if _, err := svc.GetPostBySlug(ctx, created.Slug, false); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("draft visible publicly: %v", err)
	}
	if _, err := svc.GetPostBySlug(ctx, created.Slug, true); err != nil {
		t.Fatalf("draft hidden from admin: %v", err)
	}

	public, _, err := svc.ListPosts(ctx, PostFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("expected no public posts, got %d", len(public))
	}

	admin, _, err := svc.ListPosts(ctx, PostFilter{IncludeDrafts: true}, pagination.Params{})
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if len(admin) != 1 {
		t.Fatalf("expected 1 admin post, got %d", len(admin))
	}
}

func TestListPostsCategoryFilterAndPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		input := postInput(fmt.Sprintf("Noticia %d", i))
		input.Category = enums.PostCategoryNews
		if _, err := svc.CreatePost(ctx, input); err != nil {
			t.Fatalf("create news %d: %v", i, err)
		}
	}
	if _, err := svc.CreatePost(ctx, postInput("Entrada de blog")); err != nil {
		t.Fatalf("create blog: %v", err)
	}

	news := enums.PostCategoryNews
	first, next, err := svc.ListPosts(ctx, PostFilter{Category: &news}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(first) != 2 || next == "" {
		t.Fatalf("expected full page with cursor, got %d items next=%q", len(first), next)
	}

	second, next2, err := svc.ListPosts(ctx, PostFilter{Category: &news}, pagination.Params{Limit: 2, Cursor: next})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second) != 1 || next2 != "" {
		t.Fatalf("expected final page of 1, got %d next=%q", len(second), next2)
	}
}

func TestUpdatePostPublishStampsOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	draft := postInput("Se publica despues")
	draft.Published = false
	created, err := svc.CreatePost(ctx, draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published := true
	updated, err := svc.UpdatePost(ctx, created.ID, UpdatePostInput{Published: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("expected published_at on first publish")
	}
	stamp := *updated.PublishedAt

	unpublished := false
	if _, err := svc.UpdatePost(ctx, created.ID, UpdatePostInput{Published: &unpublished}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	republished, err := svc.UpdatePost(ctx, created.ID, UpdatePostInput{Published: &published})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if republished.PublishedAt == nil || !republished.PublishedAt.Equal(stamp) {
		t.Fatal("republish must keep the original published_at")
	}
}

func TestDeletePost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, postInput("Para borrar"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeletePost(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeletePost(ctx, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func eventInput(title string, startsAt time.Time) EventInput {
	return EventInput{
		Title:       title,
		Description: "Trae tu mazo",
		Location:    "Tienda LevelUp, Av. Providencia 1234",
		StartsAt:    startsAt,
		Published:   true,
	}
}

func TestEventLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	starts := time.Now().UTC().Add(48 * time.Hour)
	created, err := svc.CreateEvent(ctx, eventInput("Torneo Magic", starts))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	newLocation := "Mall Plaza Vespucio"
	updated, err := svc.UpdateEvent(ctx, created.ID, UpdateEventInput{Location: &newLocation})
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Location != newLocation {
		t.Fatalf("location not updated: %s", updated.Location)
	}

	if err := svc.DeleteEvent(ctx, created.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	err = svc.DeleteEvent(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEventValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	starts := time.Now().UTC().Add(24 * time.Hour)

	cases := []struct {
		name   string
		mutate func(*EventInput)
	}{
		{"missing title", func(in *EventInput) { in.Title = " " }},
		{"missing location", func(in *EventInput) { in.Location = "" }},
		{"zero start", func(in *EventInput) { in.StartsAt = time.Time{} }},
		{"ends before starts", func(in *EventInput) {
			ends := in.StartsAt.Add(-time.Hour)
			in.EndsAt = &ends
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := eventInput("Lanzamiento", starts)
			tc.mutate(&input)
			_, err := svc.CreateEvent(ctx, input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListEventsFiltersPastAndDrafts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	past := &models.Event{
		Title:       "Evento pasado",
		Description: "ya fue",
		Location:    "Santiago Centro",
		StartsAt:    time.Now().UTC().Add(-72 * time.Hour),
		Published:   true,
	}
	if err := conn.Create(past).Error; err != nil {
		t.Fatalf("seed past event: %v", err)
	}

	draft := eventInput("Borrador", time.Now().UTC().Add(24*time.Hour))
	draft.Published = false
	if _, err := svc.CreateEvent(ctx, draft); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.CreateEvent(ctx, eventInput("Proximo torneo", time.Now().UTC().Add(96*time.Hour))); err != nil {
		t.Fatalf("create upcoming: %v", err)
	}

	from := time.Now().UTC()
	public, err := svc.ListEvents(ctx, EventFilter{From: &from}, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(public) != 1 || public[0].Title != "Proximo torneo" {
		t.Fatalf("unexpected public events: %+v", public)
	}

	all, err := svc.ListEvents(ctx, EventFilter{IncludeDrafts: true}, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events for admin, got %d", len(all))
	}
}
