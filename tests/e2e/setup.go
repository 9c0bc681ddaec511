//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-service/cmd/bootstrap"
	"booking-service/cmd/bootstrap/components"
	"booking-service/internal/infra/db"
	"booking-service/internal/pkg/config"
	"booking-service/internal/usecase/notify"
	"booking-service/tests/common/dbtest"
	"booking-service/tests/common/fakes"

	"github.com/cenkalti/backoff/v4"
	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	testUser     = "test"
	testPassword = "testpass"

	migrationsDir = "migrations"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container
	postgresContainerErr  error
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

func (c ContainerInfo) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testUser, testPassword, c.Host, c.Port.Port(), database)
}

// ------------------------------------------------------------
// Shared suite
// ------------------------------------------------------------

// SharedSuite boots the whole API against a private database, a fake Event
// service and an in-memory broker. State is reset before every test and subtest.
type SharedSuite struct {
	suite.Suite
	Router       *gin.Engine
	DB           *pgxpool.Pool
	Config       config.Config
	EventService *fakes.EventService
	Broker       *fakes.Broker
	Dispatcher   *notify.Dispatcher
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	info := startPostgreSQLContainerOnce(t)
	dbConfig := prepareDatabase(t, info)

	s.EventService = fakes.NewEventService()
	t.Cleanup(s.EventService.Close)
	s.Broker = fakes.NewBroker()

	app := s.buildE2EApp(t, dbConfig)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})

	require.NotNil(t, s.Router, "router setup failed")
	require.NotNil(t, s.DB, "database setup failed")
	require.NotNil(t, s.Dispatcher, "dispatcher missing")
}

func (s *SharedSuite) SetupTest() {
	s.resetState()
}

func (s *SharedSuite) SetupSubTest() {
	s.resetState()
}

func (s *SharedSuite) resetState() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	s.EventService.Reset()
	s.Broker.Reset()
}

// ------------------------------------------------------------
// Application under test
// ------------------------------------------------------------

func (s *SharedSuite) buildE2EApp(t *testing.T, dbConfig config.DBConfig) *fx.App {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.EventService.BaseURL = s.EventService.URL()
	// the loop only runs once at start; tests dispatch parked rows themselves
	cfg.Outbox.Enabled = true
	cfg.Outbox.Interval = time.Hour

	app := fx.New(
		fx.Supply(cfg),
		bootstrap.ConfigSections,
		bootstrap.LoggerModule,
		bootstrap.MetricsModule,
		bootstrap.DBModule,
		bootstrap.MessagingModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Provide(func() *gin.Engine { return gin.New() }),

		fx.Decorate(func(notify.Broker) notify.Broker { return s.Broker }),

		fx.Populate(&s.Router, &s.DB, &s.Config, &s.Dispatcher),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")

	return app
}

// ------------------------------------------------------------
// Database
// ------------------------------------------------------------

// prepareDatabase creates a database per test process and applies the migrations.
func prepareDatabase(t *testing.T, info ContainerInfo) config.DBConfig {
	t.Helper()
	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, info.dsn("postgres"))
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	// CREATE DATABASE collides when several suites start at once
	create := func() error {
		_, err := adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5), ctx)
	require.NoError(t, backoff.RetryNotify(create, policy, func(err error, wait time.Duration) {
		slog.Warn("retrying database creation", "error", err.Error(), "retry_wait", wait)
	}), "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		pool, err := pgxpool.New(cleanupCtx, info.dsn("postgres"))
		if err != nil {
			slog.Warn("cleanup connection failed", "database", dbName, "error", err.Error())
			return
		}
		defer pool.Close()
		if _, err := pool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     info.Host,
		Port:     info.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
	require.NoError(t, applyMigrations(dbConfig), "database migration failed")
	return dbConfig
}

func applyMigrations(dbConfig config.DBConfig) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}

	pool, cleanup, err := db.Connect(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Glob returns names sorted, which is the numeric prefix order
	for _, file := range files {
		sqlContent, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}

// findMigrationsDir walks up from the package directory `go test` runs in.
func findMigrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, migrationsDir)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s directory not found", migrationsDir)
		}
		dir = parent
	}
}

// ------------------------------------------------------------
// Containers
// ------------------------------------------------------------

// startPostgreSQLContainerOnce starts one container per test process.
func startPostgreSQLContainerOnce(t *testing.T) ContainerInfo {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=256m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=100",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return ContainerInfo{Host: host, Port: port}.dsn("postgres")
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		postgresTestContainer, postgresContainerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	})
	require.NoError(t, postgresContainerErr, "failed to start postgres container")

	info, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to resolve postgres container address")
	return info
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}
