package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reportdesk/internal/auth"
	"reportdesk/internal/clients/gcs"
	"reportdesk/internal/clients/redis"
	"reportdesk/internal/config"
	"reportdesk/internal/domain/models"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/handler"
	"reportdesk/internal/middleware"
	"reportdesk/internal/repository/postgres"
	postgresReport "reportdesk/internal/repository/postgres/report"
	"reportdesk/internal/schema"
	serviceAuth "reportdesk/internal/service/auth"
	"reportdesk/internal/service/render"
	"reportdesk/internal/service/roles"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// nil keeps logs on stdout only
	var logFile io.Writer
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}

	logger := config.NewLogger(cfg, logFile)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"schema", cfg.SchemaName,
	)

	reportSchema, err := schema.Load(cfg.SchemaName, schema.WithLayout(schema.Layout{
		CharsPerLine:        cfg.LayoutCharsPerLine,
		MaxLines:            cfg.LayoutMaxLines,
		MaxLinesWithHeading: cfg.LayoutMaxLinesWithHeading,
		RowsPerTablePage:    cfg.LayoutRowsPerTablePage,
	}))
	if err != nil {
		log.Fatalf("Failed to load report schema: %v", err)
	}
	logger.Info("report schema loaded",
		"name", reportSchema.Name(),
		"progress_sections", len(reportSchema.ProgressSections()),
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	classRepo := postgres.NewClassRepository(repoConfig)
	projectRepo := postgresReport.NewProjectRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	if cfg.GCSBucket == "" {
		log.Fatalf("GCS_BUCKET is required for image uploads")
	}
	bucket, err := gcs.NewBucket(ctx, cfg.GCSBucket, cfg.GCSCDNDomain, logger)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	defer bucket.Close()

	var pageCache reportSvc.PageCache
	if cfg.RedisAddr != "" {
		c, err := redis.NewPageCache(ctx, cfg.RedisAddr, cfg.PageCacheTTL, logger)
		if err != nil {
			// rendering works without the cache
			logger.Warn("page cache disabled", "error", err)
		} else {
			defer c.Close()
			pageCache = c
		}
	}

	var identity reportSvc.IdentityAdmin
	if cfg.SupabaseKey != "" {
		identity = auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	} else {
		logger.Warn("SUPABASE_KEY not set, reviewer creation and account removal are disabled")
	}

	authorizer := serviceAuth.NewMentorAuthorizer(userRepo)
	renderer := render.NewRenderer(render.NewHTTPImageLoader(), logger)
	exporter := render.NewExporter(renderer, logger)
	engine := roles.NewEngine(reportSchema, projectRepo, renderer, exporter, pageCache, logger)

	studentService := roles.NewStudentService(engine, projectRepo, authorizer, bucket, txManager, logger)
	reviewerService := roles.NewReviewerService(engine, projectRepo, userRepo, authorizer, logger)
	adminService := roles.NewAdminService(engine, projectRepo, userRepo, classRepo, authorizer, identity, bucket, txManager, logger)
	directoryService := roles.NewDirectoryService(userRepo, classRepo)

	schemaHandler := handler.NewSchemaHandler(reportSchema)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	reviewerHandler := handler.NewReviewerHandler(reviewerService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)
	directoryHandler := handler.NewDirectoryHandler(directoryService)

	logger.Info("services initialized")

	student := middleware.RequireRole(models.RoleStudent)
	reviewer := middleware.RequireRole(models.RoleReviewer)
	admin := middleware.RequireRole(models.RoleAdmin)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("GET /api/schema", schemaHandler.GetSchema)
	mux.HandleFunc("GET /api/reviewers", directoryHandler.ListReviewers)
	mux.HandleFunc("GET /api/classes", directoryHandler.ListClasses)
	mux.HandleFunc("GET /api/me", directoryHandler.GetProfile)

	// Student routes
	mux.HandleFunc("GET /api/me/project", student(studentHandler.GetProject))
	mux.HandleFunc("GET /api/me/pages", student(studentHandler.GetPages))
	mux.HandleFunc("GET /api/me/pages/{index}", student(studentHandler.RenderPage))
	mux.HandleFunc("PUT /api/me/sections/{sectionId}", student(studentHandler.SaveSection))
	mux.HandleFunc("POST /api/me/sections/{sectionId}/check", student(studentHandler.CheckSection))
	mux.HandleFunc("POST /api/me/images", student(studentHandler.UploadImages))
	mux.HandleFunc("GET /api/me/export.pdf", student(studentHandler.ExportPDF))
	mux.HandleFunc("GET /api/me/schedule.xlsx", student(studentHandler.ExportSchedule))
	mux.HandleFunc("POST /api/me/schedule/generate", student(studentHandler.GenerateSchedule))
	mux.HandleFunc("POST /api/me/schedule/import", student(studentHandler.ImportSchedule))

	// Reviewer routes
	mux.HandleFunc("GET /api/reviewer/students", reviewer(reviewerHandler.ListStudents))
	mux.HandleFunc("GET /api/reviewer/students/{studentId}/project", reviewer(reviewerHandler.GetProject))
	mux.HandleFunc("GET /api/reviewer/students/{studentId}/pages/{index}", reviewer(reviewerHandler.RenderPage))
	mux.HandleFunc("GET /api/reviewer/students/{studentId}/export.pdf", reviewer(reviewerHandler.ExportPDF))
	mux.HandleFunc("POST /api/reviewer/students/{studentId}/sections/{sectionId}/review", reviewer(reviewerHandler.Review))
	mux.HandleFunc("POST /api/reviewer/students/{studentId}/approve-all", reviewer(reviewerHandler.ApproveAll))

	// Admin routes
	mux.HandleFunc("GET /api/admin/dashboard", admin(adminHandler.Dashboard))
	mux.HandleFunc("GET /api/admin/students/{studentId}/project", admin(adminHandler.GetProject))
	mux.HandleFunc("GET /api/admin/students/{studentId}/pages/{index}", admin(adminHandler.RenderPage))
	mux.HandleFunc("DELETE /api/admin/students/{studentId}", admin(adminHandler.DeleteStudent))
	mux.HandleFunc("POST /api/admin/classes", admin(adminHandler.CreateClass))
	mux.HandleFunc("POST /api/admin/reviewers", admin(adminHandler.CreateReviewer))

	// Order: CORS → Recovery → Auth → RequestLogger → Routes
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.AuthMiddleware(jwtVerifier, userRepo, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // full PDF exports render every page
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
