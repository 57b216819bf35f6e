package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/media-tracker/internal/api"
	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/dom/media-tracker/internal/repository/mongodb"
	repoPostgres "github.com/dom/media-tracker/internal/repository/postgres"
	"github.com/dom/media-tracker/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_media_tracker"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"revoked_tokens",
		"movies",
		"tv_shows",
		"games",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestMongo manages a testcontainers MongoDB instance
type TestMongo struct {
	Container testcontainers.Container
	Database  *mongodb.Database
	URI       string
}

// NewTestMongo starts a MongoDB container and returns a connection with
// indexes in place.
func NewTestMongo(t *testing.T) *TestMongo {
	t.Helper()

	ctx := context.Background()

	container, err := tcMongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	database, err := mongodb.NewConnection(ctx, uri, "test_media_tracker")
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}

	tm := &TestMongo{
		Container: container,
		Database:  database,
		URI:       uri,
	}

	t.Cleanup(func() {
		_ = database.Close(context.Background())
		_ = container.Terminate(context.Background())
	})

	return tm
}

// Truncate removes every document while keeping indexes
func (tm *TestMongo) Truncate(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	for _, name := range []string{"users", "movies", "tvshows", "games", "revokedtokens"} {
		if _, err := tm.Database.DB().Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Logf("warning: failed to clear %s: %v", name, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                    "0", // Random port
		Environment:             "test",
		AllowedOrigins:          []string{"http://localhost:5173"},
		StoreDriver:             config.StoreDriverPostgres,
		JWTSecret:               "test-jwt-secret-key-for-testing-only",
		TokenTTL:                time.Hour,
		BcryptCost:              4, // bcrypt.MinCost keeps tests fast
		CookieSecure:            false,
		RevocationPurgeInterval: time.Minute,
		LogLevel:                "disabled",
		LogFormat:               "json",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by PostgreSQL
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
