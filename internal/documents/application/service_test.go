package application

import (
	"context"
	"errors"
	"testing"

	"condo-portal/internal/auth"
	documents "condo-portal/internal/documents/domain"
	"condo-portal/internal/documents/infrastructure/memory"
)

func directorCtx() context.Context {
	return auth.WithIdentity(context.Background(), "22222222-2222-2222-2222-222222222222", auth.RoleDirector, "Maria Director")
}

func residentCtx() context.Context {
	return auth.WithIdentity(context.Background(), "33333333-3333-3333-3333-333333333333", auth.RoleResident, "João Resident")
}

func TestRegisterDocument(t *testing.T) {
	svc, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	doc, err := svc.Register(directorCtx(), "2026 Budget", "finance", "https://files.example.com/budget-2026.pdf")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if doc.UploaderName != "Maria Director" {
		t.Fatalf("uploader %q", doc.UploaderName)
	}

	list, err := svc.List(residentCtx(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != doc.ID {
		t.Fatalf("listed %d documents", len(list))
	}
}

func TestRegisterDocumentValidation(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())

	if _, err := svc.Register(directorCtx(), "", "finance", "https://files.example.com/x.pdf"); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("blank title: %v", err)
	}
	if _, err := svc.Register(directorCtx(), "Budget", "finance", ""); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("blank url: %v", err)
	}
	if _, err := svc.Register(directorCtx(), "Budget", "finance", "not a url"); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("relative url: %v", err)
	}
	if _, err := svc.Register(residentCtx(), "Budget", "finance", "https://files.example.com/x.pdf"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("resident Register: %v", err)
	}
}

func TestListDocumentsByCategory(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())
	ctx := directorCtx()
	if _, err := svc.Register(ctx, "2026 Budget", "finance", "https://files.example.com/budget.pdf"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "Assembly Minutes", "minutes", "https://files.example.com/minutes.pdf"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	finance, err := svc.List(residentCtx(), "finance")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(finance) != 1 || finance[0].Category != "finance" {
		t.Fatalf("finance list %+v", finance)
	}
}
