package main

import (
	"context"
	"flag"
	"log"
	"os"

	"mentorship/internal/config"
	"mentorship/internal/domain/models"
	"mentorship/internal/domain/services"
	"mentorship/internal/kinds"
	"mentorship/internal/repository/postgres"
	"mentorship/internal/service/content"

	"github.com/joho/godotenv"
)

type seedModule struct {
	title  string
	videos []string
}

type seedCourse struct {
	title    string
	chapters []string
	modules  []seedModule
}

var seedCourses = []seedCourse{
	{
		title:    "Backend Foundations",
		chapters: []string{"Welcome", "HTTP from First Principles", "Working with Databases", "Shipping to Production"},
		modules: []seedModule{
			{title: "Getting Set Up", videos: []string{"Installing the toolchain", "Your first request"}},
			{title: "Persistence", videos: []string{"Schemas and migrations", "Transactions", "Indexes that matter"}},
		},
	},
	{
		title:    "Career Mentorship",
		chapters: []string{"Finding a Mentor", "Running Effective 1:1s"},
		modules: []seedModule{
			{title: "Interviews", videos: []string{"System design walkthrough", "Behavioral questions"}},
		},
	},
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed content")
	clearData := flag.Bool("clear-data", false, "Delete all courses and their content (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Printf("Ensuring schema (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := postgres.ClearContent(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
		return
	}

	kindRegistry, err := kinds.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load kinds: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	contentService := content.NewService(
		kindRegistry,
		postgres.NewCourseRepository(repoConfig),
		postgres.NewOrderedEntityRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	for _, sc := range seedCourses {
		if err := seed(ctx, contentService, sc); err != nil {
			log.Printf("Failed to seed course %q: %v", sc.title, err)
			os.Exit(1)
		}
	}

	log.Println("Seeding complete")
}

func seed(ctx context.Context, svc services.ContentService, sc seedCourse) error {
	course, err := svc.CreateCourse(ctx, &services.CreateCourseRequest{Title: sc.title})
	if err != nil {
		return err
	}
	log.Printf("Created course %s (%s)", course.Title, course.ID)

	for _, title := range sc.chapters {
		if _, err := svc.CreateEntity(ctx, models.KindChapter, &services.CreateEntityRequest{ParentID: course.ID, Title: title}); err != nil {
			return err
		}
	}

	for _, sm := range sc.modules {
		module, err := svc.CreateEntity(ctx, models.KindModule, &services.CreateEntityRequest{ParentID: course.ID, Title: sm.title})
		if err != nil {
			return err
		}
		for _, title := range sm.videos {
			if _, err := svc.CreateEntity(ctx, models.KindVideo, &services.CreateEntityRequest{ParentID: module.ID, Title: title}); err != nil {
				return err
			}
		}
	}
	return nil
}
