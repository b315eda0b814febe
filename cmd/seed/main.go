// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev owner (owner@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"sponsor-platform/backend/internal/audit"
	auditrepo "sponsor-platform/backend/internal/audit/repository"
	"sponsor-platform/backend/internal/config"
	"sponsor-platform/backend/internal/db"
	membershiprepo "sponsor-platform/backend/internal/membership/repository"
	policydomain "sponsor-platform/backend/internal/policy/domain"
	policyrepo "sponsor-platform/backend/internal/policy/repository"
	rbacrepo "sponsor-platform/backend/internal/rbac/repository"
	"sponsor-platform/backend/internal/security"
	sponsordomain "sponsor-platform/backend/internal/sponsor/domain"
	sponsorrepo "sponsor-platform/backend/internal/sponsor/repository"
	"sponsor-platform/backend/internal/sponsor/service"
	userdomain "sponsor-platform/backend/internal/user/domain"
	userrepo "sponsor-platform/backend/internal/user/repository"
	"sponsor-platform/backend/internal/validation"
)

// defaultRegoPolicy matches the default document-access policy in internal/policy/engine/opa_evaluator.go.
const defaultRegoPolicy = `package sponsorplatform.document_access

default allow = false

allow if {
	input.role == "owner"
}

allow if {
	input.role == "editor"
	input.action != "delete"
}
`

const (
	ownerEmail  = "owner@example.com"
	editorEmail = "editor@example.com"
	devPassword = "password123"

	ownerUserID  = "dev-user-001"
	editorUserID = "dev-user-002"
	devPolicyID  = "dev-policy-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (owner@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.HashPassword(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	owner := &userdomain.User{
		ID:           ownerUserID,
		Email:        ownerEmail,
		FirstName:    "Olivia",
		LastName:     "Owner",
		Address1:     "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62704",
		Phone:        "555-0100",
		PasswordHash: passwordHash,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, owner); err != nil {
		log.Fatalf("create owner user: %v", err)
	}

	editor := &userdomain.User{
		ID:           editorUserID,
		Email:        editorEmail,
		FirstName:    "Evan",
		LastName:     "Editor",
		PasswordHash: passwordHash,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, editor); err != nil {
		log.Fatalf("create editor user: %v", err)
	}

	svc := service.NewService(
		sponsorrepo.NewPostgresRepository(conn),
		membershiprepo.NewPostgresRepository(conn),
		users,
		rbacrepo.NewPostgresRepository(conn),
		validation.NewService(),
		audit.NewLogger(auditrepo.NewPostgresRepository(conn)),
		nil,
	)

	sp := &sponsordomain.Sponsor{
		Name:        "Acme Sponsors",
		DisplayName: "Acme",
		Address1:    "1 Main St",
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62704",
		Phone:       "555-0100",
		Status:      sponsordomain.StatusActive,
	}
	if ok, errSave := svc.Save(ctx, sp); errSave != nil || !ok {
		log.Fatalf("save sponsor: ok=%v err=%v errors=%s", ok, errSave, sp.GetErrors())
	}

	if _, err := svc.AddMember(ctx, sp.ID, ownerUserID, "owner"); err != nil {
		log.Fatalf("add owner member: %v", err)
	}
	if _, err := svc.AddMember(ctx, sp.ID, editorUserID, "editor"); err != nil {
		log.Fatalf("add editor member: %v", err)
	}

	if err := svc.CreateRbacRules(ctx, sp.ID); err != nil {
		log.Fatalf("provision rbac: %v", err)
	}

	policies := policyrepo.NewPostgresRepository(conn)
	if err := policies.Create(ctx, &policydomain.Policy{
		ID:        devPolicyID,
		SponsorID: sp.ID,
		Name:      "default-document-access",
		Rules:     defaultRegoPolicy,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		log.Fatalf("create policy: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Owner login: %s / %s\n", ownerEmail, devPassword)
	fmt.Printf("Editor login: %s / %s\n", editorEmail, devPassword)
}
