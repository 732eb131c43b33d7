package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"reportdesk/internal/auth"
	"reportdesk/internal/config"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"
	"reportdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed accounts")
	clearData := flag.Bool("clear-data", false, "Delete all reports, users and classes (keep schema)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	if cfg.SupabaseKey == "" {
		log.Fatalf("SUPABASE_KEY is required to provision seed accounts")
	}
	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	classRepo := postgres.NewClassRepository(repoConfig)

	log.Println("⚠️  Clearing existing reports, users and classes...")
	if err := clearAllData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "reportdesk-dev"
	}

	log.Println("👤 Provisioning seed accounts...")
	ids := make(map[string]string)
	var class *models.Class
	for i, su := range seedUsers() {
		u := su.user
		if mentor, ok := ids[su.mentor]; ok {
			u.MentorID = mentor
		}
		if su.inClass && class != nil {
			u.ClassID = class.ID
		}

		id, err := provision(ctx, admin, userRepo, &u, password)
		if err != nil {
			log.Printf("❌ Failed to create %s: %v", u.Email, err)
			continue
		}
		ids[su.key] = id
		log.Printf("✅ Created %s %d: %s (ID: %s)", u.Role, i+1, u.Email, id)

		// the class is created by the head of department, before any student
		if u.Role == models.RoleAdmin && class == nil {
			class = &models.Class{Name: "MCA 2025", Department: "Computer Applications", CreatedBy: id}
			if err := classRepo.Create(ctx, class); err != nil {
				log.Printf("❌ Failed to create class: %v", err)
				class = nil
			} else {
				log.Printf("✅ Created class %s (ID: %s)", class.Name, class.ID)
			}
		}
	}

	log.Println("🎉 Seeding complete!")
}

type seedUser struct {
	key     string
	mentor  string
	inClass bool
	user    models.User
}

func seedUsers() []seedUser {
	return []seedUser{
		{key: "hod", user: models.User{Name: "Head of Department", Email: "hod@reportdesk.dev", Role: models.RoleAdmin}},
		{key: "rev1", user: models.User{Name: "Dr. Meera Iyer", Email: "meera.iyer@reportdesk.dev", Role: models.RoleReviewer}},
		{key: "rev2", user: models.User{Name: "Prof. Arjun Nair", Email: "arjun.nair@reportdesk.dev", Role: models.RoleReviewer}},
		{key: "stu1", mentor: "rev1", inClass: true, user: models.User{Name: "Asha Rao", Email: "asha.rao@reportdesk.dev", RollNumber: "MCA001", Role: models.RoleStudent, IsPaid: true}},
		{key: "stu2", mentor: "rev1", inClass: true, user: models.User{Name: "Vikram Shah", Email: "vikram.shah@reportdesk.dev", RollNumber: "MCA002", Role: models.RoleStudent}},
		{key: "stu3", mentor: "rev2", inClass: true, user: models.User{Name: "Nisha Menon", Email: "nisha.menon@reportdesk.dev", RollNumber: "MCA003", Role: models.RoleStudent, IsPaid: true}},
	}
}

// provision replaces any existing identity account for u.Email and stores the
// profile under the new id.
func provision(ctx context.Context, admin *auth.AdminClient, users repositories.UserRepository, u *models.User, password string) (string, error) {
	if err := admin.DeleteUserByEmail(ctx, u.Email); err != nil {
		return "", err
	}
	id, err := admin.CreateUser(ctx, u.Email, password, map[string]interface{}{
		"name": u.Name,
		"role": string(u.Role),
	})
	if err != nil {
		return "", err
	}
	u.ID = id
	if err := users.Create(ctx, u); err != nil {
		return "", err
	}
	return id, nil
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	// created_by has no foreign key: users reference classes
	createClasses := `
		CREATE TABLE IF NOT EXISTS ` + tables.Classes + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL UNIQUE,
			department TEXT NOT NULL DEFAULT '',
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createClasses); err != nil {
		return err
	}

	// id is the identity provider's account id
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			roll_number TEXT UNIQUE,
			role TEXT NOT NULL CHECK (role IN ('student', 'reviewer', 'admin')),
			mentor_id UUID REFERENCES ` + tables.Users + `(id) ON DELETE SET NULL,
			class_id UUID REFERENCES ` + tables.Classes + `(id) ON DELETE SET NULL,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createProjects := `
		CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			student_id UUID NOT NULL UNIQUE REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			reviewer_id UUID REFERENCES ` + tables.Users + `(id) ON DELETE SET NULL,
			sections JSONB NOT NULL DEFAULT '{}'::jsonb,
			images JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProjects); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `users_mentor ON ` + tables.Users + `(mentor_id) WHERE role = 'student'`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `users_role ON ` + tables.Users + `(role)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `users_class ON ` + tables.Users + `(class_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse dependency order
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", all[i])
	}
	return nil
}

// clearAllData empties every table. Identity accounts are left alone.
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DELETE FROM "+all[i]); err != nil {
			return err
		}
		log.Printf("  ✓ Cleared %s", all[i])
	}
	return nil
}
