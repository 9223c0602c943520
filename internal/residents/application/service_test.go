package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"condo-portal/internal/auth"
	residents "condo-portal/internal/residents/domain"
	"condo-portal/internal/residents/infrastructure/memory"
)

func adminCtx() context.Context {
	return auth.WithIdentity(context.Background(), "11111111-1111-1111-1111-111111111111", auth.RoleAdmin, "Admin")
}

func directorCtx() context.Context {
	return auth.WithIdentity(context.Background(), "22222222-2222-2222-2222-222222222222", auth.RoleDirector, "Director")
}

func residentCtx(subject string) context.Context {
	return auth.WithIdentity(context.Background(), subject, auth.RoleResident, "Resident")
}

func TestCreateAndListResidents(t *testing.T) {
	svc, err := NewService(memory.NewRepository())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	created, err := svc.Create(adminCtx(), "Ana Souza", "ana@example.com", "101")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.Active {
		t.Fatal("new resident should be active")
	}

	list, err := svc.List(directorCtx(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("listed %d residents", len(list))
	}
}

func TestCreateResidentValidation(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())

	if _, err := svc.Create(adminCtx(), "", "ana@example.com", "101"); !errors.Is(err, residents.ErrValidation) {
		t.Fatalf("blank name: %v", err)
	}
	if _, err := svc.Create(adminCtx(), "Ana Souza", "not-an-email", "101"); !errors.Is(err, residents.ErrValidation) {
		t.Fatalf("bad email: %v", err)
	}
	if _, err := svc.Create(directorCtx(), "Ana Souza", "ana@example.com", "101"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("director Create: %v", err)
	}
}

func TestDeactivateRemovesFromActiveRoster(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())
	created, err := svc.Create(adminCtx(), "Ana Souza", "ana@example.com", "101")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Deactivate(adminCtx(), created.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	active, err := svc.List(directorCtx(), true)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active roster still has %d residents", len(active))
	}
	all, err := svc.List(directorCtx(), false)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("full roster has %d residents", len(all))
	}
}

func TestGetOwnership(t *testing.T) {
	svc, _ := NewService(memory.NewRepository())
	created, err := svc.Create(adminCtx(), "Ana Souza", "ana@example.com", "101")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	own, err := svc.Get(residentCtx(created.ID.String()), created.ID)
	if err != nil {
		t.Fatalf("own record: %v", err)
	}
	if own.ID != created.ID {
		t.Fatal("wrong record")
	}

	if _, err := svc.Get(residentCtx(uuid.NewString()), created.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("foreign record: %v", err)
	}

	if _, err := svc.Get(directorCtx(), created.ID); err != nil {
		t.Fatalf("director fetch: %v", err)
	}

	if _, err := svc.Get(directorCtx(), uuid.New()); !errors.Is(err, residents.ErrNotFound) {
		t.Fatalf("missing record: %v", err)
	}
}
