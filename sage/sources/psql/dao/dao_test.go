package dao

import (
	"context"
	"sage/sage/sources/psql/models"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.Scenario{},
		&models.Intervention{},
		&models.Profile{},
		&models.Organization{},
		&models.Transaction{},
		&models.EmissionLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestResolveCreatesSessionWithSeededTitle(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()

	session, err := sessions.Resolve(ctx, 1, "", "Take me to the trading screen please, right now")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !session.IsActive {
		t.Error("new session must be active")
	}
	if len(session.Title) > 30 {
		t.Errorf("title should be capped at 30 chars, got %d", len(session.Title))
	}
	if session.Title != "Take me to the trading screen " {
		t.Errorf("unexpected seeded title: %q", session.Title)
	}
}

func TestResolveReturnsExistingActiveSession(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()

	first, _ := sessions.Resolve(ctx, 1, "", "hello")
	second, err := sessions.Resolve(ctx, 1, "", "hello again")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the active session to be reused, got %v and %v", first.ID, second.ID)
	}
}

func TestResolveRejectsForeignSessionID(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()

	foreign, _ := sessions.Create(ctx, 2, "someone else's thread")

	session, err := sessions.Resolve(ctx, 1, foreign.ID.String(), "hello")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.ID == foreign.ID {
		t.Error("a session owned by another user must not be resolved")
	}
	if session.UserID != 1 {
		t.Errorf("resolved session belongs to user %d", session.UserID)
	}
}

func TestResolveTrustsOwnedSessionID(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()

	own, _ := sessions.Create(ctx, 1, "my thread")
	session, err := sessions.Resolve(ctx, 1, own.ID.String(), "hello")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if session.ID != own.ID {
		t.Errorf("expected owned session %v, got %v", own.ID, session.ID)
	}
}

func TestCreateDeactivatesPreviousActiveSession(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	ctx := context.Background()

	if _, err := sessions.Create(ctx, 1, "first"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, _ := sessions.Create(ctx, 1, "second")

	all, err := sessions.ListForUser(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	activeCount := 0
	for _, s := range all {
		if s.IsActive {
			activeCount++
			if s.ID != second.ID {
				t.Errorf("wrong session active: %v", s.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active session, got %d", activeCount)
	}
}

func TestMessageOrderingIsNonDecreasing(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	messages := NewChatMessageDAO(db)
	ctx := context.Background()

	session, _ := sessions.Create(ctx, 1, "ordering")
	for _, content := range []string{"one", "two", "three", "four"} {
		if _, err := messages.Append(ctx, session.ID, RoleUser, content, ""); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	msgs, err := messages.ListForSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Errorf("timestamps decrease at index %d", i)
		}
	}
}

func TestRecentReturnsChronologicalWindow(t *testing.T) {
	db := setupDB(t)
	sessions := NewSessionDAO(db)
	messages := NewChatMessageDAO(db)
	ctx := context.Background()

	session, _ := sessions.Create(ctx, 1, "window")
	for i := 0; i < 5; i++ {
		messages.Append(ctx, session.ID, RoleUser, string(rune('a'+i)), "")
	}

	recent, err := messages.Recent(ctx, session.ID, 3)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp.Before(recent[i-1].Timestamp) {
			t.Errorf("recent window not chronological at index %d", i)
		}
	}
}

func TestOrganizationForUserMissingLinkage(t *testing.T) {
	db := setupDB(t)
	orgs := NewOrgDAO(db)
	ctx := context.Background()

	org, err := orgs.OrganizationForUser(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Error("expected nil organization for unlinked user")
	}
}

func TestOrganizationForUserResolvesThroughProfile(t *testing.T) {
	db := setupDB(t)
	orgs := NewOrgDAO(db)
	ctx := context.Background()

	org := models.Organization{Name: "Acme", CreditBalance: 1200}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("seed org failed: %v", err)
	}
	profile := models.Profile{UserID: 7, OrganizationID: &org.ID}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}

	got, err := orgs.OrganizationForUser(ctx, 7)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got == nil || got.Name != "Acme" {
		t.Errorf("unexpected organization: %+v", got)
	}
}
