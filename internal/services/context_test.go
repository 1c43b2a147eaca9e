package services_test

import (
	"context"
	"testing"

	"sleuth/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-8e2f")
	ctx = services.WithQuery(ctx, "MTD Products")
	ctx = services.WithSessionID(ctx, "sess-42")
	ctx = services.WithBatch(ctx, 3)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-8e2f" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if query, ok := services.QueryFromContext(ctx); !ok || query != "MTD Products" {
		t.Fatalf("unexpected query: %v %v", query, ok)
	}
	if sid, ok := services.SessionIDFromContext(ctx); !ok || sid != "sess-42" {
		t.Fatalf("unexpected session id: %v %v", sid, ok)
	}
	if batch, ok := services.BatchFromContext(ctx); !ok || batch != 3 {
		t.Fatalf("unexpected batch: %v %v", batch, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithQuery(ctx, "")
	if _, ok := services.QueryFromContext(ctx); ok {
		t.Fatal("expected no query value")
	}
	ctx = services.WithBatch(ctx, 0)
	if _, ok := services.BatchFromContext(ctx); ok {
		t.Fatal("expected no batch value")
	}
}
