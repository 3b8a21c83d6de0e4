//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/0xsj/overwatch-pkg/types"

	rediscache "github.com/0xsj/overwatch-profile/internal/adapter/outbound/redis"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

var (
	testRedisClient *redis.Client
	testCtx         context.Context
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	testCtx = ctx

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Printf("failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	host, err := container.Host(ctx)
	if err != nil {
		fmt.Printf("failed to get redis host: %v\n", err)
		container.Terminate(ctx)
		os.Exit(1)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		fmt.Printf("failed to get redis port: %v\n", err)
		container.Terminate(ctx)
		os.Exit(1)
	}

	testRedisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})

	if err := testRedisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("failed to connect to redis: %v\n", err)
		container.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testRedisClient.Close()
	container.Terminate(ctx)

	os.Exit(code)
}

func flushRedis(t *testing.T) {
	t.Helper()
	if err := testRedisClient.FlushAll(testCtx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

func TestProfileCache_SetGetDelete(t *testing.T) {
	flushRedis(t)
	c := rediscache.NewProfileCache(testRedisClient, time.Minute)

	profile := model.Profile{
		ID:        types.NewID(),
		Username:  "alice",
		Email:     "alice@example.com",
		AvatarURL: types.Some("https://cdn.example.com/a.png"),
	}

	if err := c.Set(testCtx, profile, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(testCtx, profile.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil, want profile")
	}
	if got.Username != "alice" || got.AvatarURL.MustGet() != "https://cdn.example.com/a.png" {
		t.Errorf("profile = %+v", got)
	}

	if err := c.Delete(testCtx, profile.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err = c.Get(testCtx, profile.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("Get() after Delete should miss")
	}
}

func TestProfileCache_Expiry(t *testing.T) {
	flushRedis(t)
	c := rediscache.NewProfileCache(testRedisClient, time.Minute)
	profile := model.Profile{ID: types.NewID(), Username: "alice"}

	if err := c.Set(testCtx, profile, 100*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	got, err := c.Get(testCtx, profile.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("Get() should miss after expiry")
	}
}

func TestProfileCache_DeleteMissing(t *testing.T) {
	flushRedis(t)
	c := rediscache.NewProfileCache(testRedisClient, 0)

	if err := c.Delete(testCtx, types.NewID()); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}
