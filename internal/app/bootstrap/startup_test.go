package bootstrap

import (
	"testing"

	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/dalemusser/trainhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureBootstrapAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		AdminEmail:    "root@test.com",
		AdminName:     "Root Admin",
		AdminPassword: "change-me-now",
	}

	if err := ensureBootstrapAdmin(ctx, deps, cfg, testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "root@test.com"}).Decode(&user); err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected status 'active', got %q", user.Status)
	}
	if user.PasswordHash == "" || user.PasswordHash == "change-me-now" {
		t.Error("expected password to be hashed")
	}
}

func TestEnsureBootstrapAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fixtures.CreateManager(ctx, "Soon Admin", "promote@test.com", "ops")

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		AdminEmail:    "Promote@Test.com",
		AdminName:     "ignored",
		AdminPassword: "ignored",
	}

	if err := ensureBootstrapAdmin(ctx, deps, cfg, testLogger()); err != nil {
		t.Fatalf("ensureBootstrapAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("expected promotion to admin, got %q", user.Role)
	}
	// the existing password hash is untouched
	if user.PasswordHash != existing.PasswordHash {
		t.Error("promotion should not change the password")
	}
}

func TestEnsureBootstrapAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		AdminEmail:    "root@test.com",
		AdminName:     "Root Admin",
		AdminPassword: "change-me-now",
	}

	for i := 0; i < 2; i++ {
		if err := ensureBootstrapAdmin(ctx, deps, cfg, testLogger()); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "root@test.com"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 admin, got %d", n)
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := AppConfig{MongoURI: "mongodb://localhost:27017"}
	if err := ValidateConfig(nil, cfg, testLogger()); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.MongoURI = "not-a-uri"
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Error("expected error for bad mongo uri")
	}

	cfg = AppConfig{MongoURI: "mongodb://localhost:27017", AdminEmail: "a@b.com"}
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Error("expected error for admin without password")
	}
}
