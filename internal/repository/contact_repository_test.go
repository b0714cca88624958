package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ciclexpress/website/internal/model"
)

// ---------------------------------------------------------------------------
// GetOrCreateByEmail tests
// ---------------------------------------------------------------------------

func TestContactRepository_GetOrCreateByEmail_CreatesNew(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	ctx := context.Background()

	contact, existed, err := repo.GetOrCreateByEmail(ctx, &model.Contact{
		Name:      "Ana",
		Email:     "ana@example.com",
		Country:   "MX",
		IPAddress: "203.0.113.5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existed {
		t.Error("expected existed=false for a new contact")
	}
	if contact.ID == "" {
		t.Error("expected a generated contact ID")
	}
	if contact.Email != "ana@example.com" {
		t.Errorf("expected email=ana@example.com, got %q", contact.Email)
	}
}

func TestContactRepository_GetOrCreateByEmail_DeduplicatesByEmail(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	ctx := context.Background()

	first, _, err := repo.GetOrCreateByEmail(ctx, &model.Contact{
		Name: "Ana", Email: "ana@example.com", Country: "MX",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same email again, with different details.
	second, existed, err := repo.GetOrCreateByEmail(ctx, &model.Contact{
		Name: "Ana María", Email: "ana@example.com", Country: "ES",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !existed {
		t.Error("expected existed=true for a repeat email")
	}
	if second.ID != first.ID {
		t.Errorf("expected same contact ID, got %q and %q", first.ID, second.ID)
	}
	if second.Name != "Ana" {
		t.Errorf("expected original name retained, got %q", second.Name)
	}
}

// ---------------------------------------------------------------------------
// Message tests
// ---------------------------------------------------------------------------

func createTestMessage(t *testing.T, repo *SQLiteContactRepository, email, content string) *model.Message {
	t.Helper()
	ctx := context.Background()
	contact, _, err := repo.GetOrCreateByEmail(ctx, &model.Contact{
		Name: "Tester", Email: email, Country: "MX",
	})
	if err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	msg := &model.Message{ContactID: contact.ID, Content: content, Status: model.StatusPending}
	if err := repo.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("failed to create message: %v", err)
	}
	return msg
}

func TestContactRepository_CreateMessage_AndFind(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	msg := createTestMessage(t, repo, "find@example.com", "¿Cuánto cuesta el mantenimiento?")

	found, err := repo.FindMessageByID(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Content != "¿Cuánto cuesta el mantenimiento?" {
		t.Errorf("unexpected content: %q", found.Content)
	}
	if found.Status != model.StatusPending {
		t.Errorf("expected status=%s, got %q", model.StatusPending, found.Status)
	}
	if found.ContactEmail != "find@example.com" {
		t.Errorf("expected joined contact email, got %q", found.ContactEmail)
	}
}

func TestContactRepository_FindMessageByID_NotFound(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))

	_, err := repo.FindMessageByID(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContactRepository_ListMessages_FiltersByStatus(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	ctx := context.Background()

	pending := createTestMessage(t, repo, "a@example.com", "first")
	replied := createTestMessage(t, repo, "b@example.com", "second")
	if err := repo.MarkReplied(ctx, replied.ID, "done", "Admin"); err != nil {
		t.Fatalf("failed to mark replied: %v", err)
	}

	all, err := repo.ListMessages(ctx, model.MessageListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(all))
	}

	got, err := repo.ListMessages(ctx, model.MessageListOptions{Status: model.StatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Errorf("expected only the pending message, got %d messages", len(got))
	}

	got, err = repo.ListMessages(ctx, model.MessageListOptions{Status: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected status=all to return both messages, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// MarkReplied tests
// ---------------------------------------------------------------------------

func TestContactRepository_MarkReplied_TransitionsToReplied(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	ctx := context.Background()
	msg := createTestMessage(t, repo, "reply@example.com", "hola")

	if err := repo.MarkReplied(ctx, msg.ID, "Gracias por escribir.", "Carlos"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindMessageByID(ctx, msg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Status != model.StatusReplied {
		t.Errorf("expected status=%s, got %q", model.StatusReplied, found.Status)
	}
	if found.ReplyContent != "Gracias por escribir." {
		t.Errorf("unexpected reply content: %q", found.ReplyContent)
	}
	if found.RepliedBy != "Carlos" {
		t.Errorf("expected replied_by=Carlos, got %q", found.RepliedBy)
	}
}

func TestContactRepository_MarkReplied_NotFound(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))

	err := repo.MarkReplied(context.Background(), "missing", "reply", "Admin")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestContactRepository_MarkReplied_AlreadyReplied verifies the guarded
// update refuses a second reply.
func TestContactRepository_MarkReplied_AlreadyReplied(t *testing.T) {
	repo := NewSQLiteContactRepository(openTestDB(t))
	ctx := context.Background()
	msg := createTestMessage(t, repo, "twice@example.com", "hola")

	if err := repo.MarkReplied(ctx, msg.ID, "first reply", "Admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := repo.MarkReplied(ctx, msg.ID, "second reply", "Admin")
	if !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}

	// The first reply must survive.
	found, err := repo.FindMessageByID(ctx, msg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ReplyContent != "first reply" {
		t.Errorf("expected first reply retained, got %q", found.ReplyContent)
	}
}
