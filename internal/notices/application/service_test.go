package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"condo-portal/internal/auth"
	notices "condo-portal/internal/notices/domain"
	"condo-portal/internal/notices/infrastructure/memory"
)

type capturePublisher struct {
	published []notices.Notice
}

func (p *capturePublisher) Publish(ctx context.Context, notice notices.Notice) {
	p.published = append(p.published, notice)
}

func directorCtx() context.Context {
	return auth.WithIdentity(context.Background(), "22222222-2222-2222-2222-222222222222", auth.RoleDirector, "Maria Director")
}

func residentCtx() context.Context {
	return auth.WithIdentity(context.Background(), "33333333-3333-3333-3333-333333333333", auth.RoleResident, "João Resident")
}

func TestPostNotice(t *testing.T) {
	repo := memory.NewRepository()
	sink := &capturePublisher{}
	svc, err := NewService(repo, sink)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	notice, err := svc.Post(directorCtx(), "  Pool maintenance  ", "Closed Tuesday morning.")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if notice.Title != "Pool maintenance" {
		t.Fatalf("title %q", notice.Title)
	}
	if notice.AuthorName != "Maria Director" {
		t.Fatalf("author %q", notice.AuthorName)
	}
	if len(sink.published) != 1 || sink.published[0].ID != notice.ID {
		t.Fatalf("published %d notices", len(sink.published))
	}

	list, err := svc.List(residentCtx(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != notice.ID {
		t.Fatalf("listed %d notices", len(list))
	}
}

func TestPostNoticeValidation(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())
	if _, err := svc.Post(directorCtx(), "  ", "body"); !errors.Is(err, notices.ErrValidation) {
		t.Fatalf("blank title: %v", err)
	}
	if _, err := svc.Post(directorCtx(), "title", ""); !errors.Is(err, notices.ErrValidation) {
		t.Fatalf("blank body: %v", err)
	}
}

func TestPostNoticeRequiresDirector(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())
	if _, err := svc.Post(residentCtx(), "title", "body"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("resident Post: %v", err)
	}
}

func TestListNoticeLimit(t *testing.T) {
	repo := memory.NewRepository()
	svc, _ := NewService(repo)
	for i := 0; i < 5; i++ {
		if _, err := svc.Post(directorCtx(), fmt.Sprintf("Notice %d", i), "body"); err != nil {
			t.Fatalf("Post %d: %v", i, err)
		}
	}
	list, err := svc.List(residentCtx(), 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("listed %d notices", len(list))
	}
}
