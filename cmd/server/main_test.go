package main

import (
	"context"
	"testing"

	"mensaplan/internal/adapter/events"
	"mensaplan/internal/adapter/repo/memory"
	"mensaplan/internal/app/ports"
	"mensaplan/internal/platform/config"
)

func TestBuildAccounts_FallsBackToMemory(t *testing.T) {
	accounts, err := buildAccounts(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("buildAccounts error: %v", err)
	}
	if _, ok := accounts.credentials.(memory.UserCredentialRepo); !ok {
		t.Fatalf("expected memory credentials, got %T", accounts.credentials)
	}
	if err := accounts.tx.RunInTx(context.Background(), func(ctx context.Context) error {
		return accounts.sources.Upsert(ctx, ports.AvatarSourceRecord{UserID: "u1", AvatarURL: "https://example.com/a.png"})
	}); err != nil {
		t.Fatalf("tx error: %v", err)
	}
}

func TestBuildAvatarSource_WithoutRedis(t *testing.T) {
	sources := memory.NewAvatarSourceRepo(memory.NewStore())
	blobs, cache, closeFn, err := buildAvatarSource(context.Background(), config.Default(), sources)
	if err != nil {
		t.Fatalf("buildAvatarSource error: %v", err)
	}
	defer closeFn()
	if blobs == nil {
		t.Fatalf("expected a blob source")
	}
	if cache != nil {
		t.Fatalf("expected no blob cache without redis, got %T", cache)
	}
}

func TestBuildAvatarSource_UnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = "127.0.0.1:1"
	if _, _, _, err := buildAvatarSource(context.Background(), cfg, memory.NewAvatarSourceRepo(memory.NewStore())); err == nil {
		t.Fatalf("expected redis connection error")
	}
}

func TestBuildPublisher_FallsBackToRecorder(t *testing.T) {
	pub, closeFn := buildPublisher(config.Default())
	defer closeFn()
	if _, ok := pub.(*events.Recorder); !ok {
		t.Fatalf("expected recorder, got %T", pub)
	}

	cfg := config.Default()
	cfg.NATS.URL = "nats://127.0.0.1:1"
	pub, closeFn = buildPublisher(cfg)
	defer closeFn()
	if _, ok := pub.(*events.Recorder); !ok {
		t.Fatalf("expected recorder when nats is unreachable, got %T", pub)
	}
}
