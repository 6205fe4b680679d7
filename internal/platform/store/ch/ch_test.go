package ch

import (
	"context"
	"strings"
	"testing"
)

// TestOpen_EmptyURL rejects a missing DSN before dialing
func TestOpen_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{})
	if err == nil {
		t.Fatalf("Open with empty URL expected error, got nil")
	}
}

// TestOpen_BadDSN rejects an unparseable DSN
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open with bad DSN expected error, got nil")
	}
	if !strings.Contains(err.Error(), "parse dsn") {
		t.Fatalf("Open error = %v, want parse dsn failure", err)
	}
}

// TestInsert_BadShape rejects payloads that are not [][]any before touching the connection
func TestInsert_BadShape(t *testing.T) {
	t.Parallel()

	cl := &CH{}
	err := cl.Insert(context.Background(), "table", struct{}{})
	if err == nil {
		t.Fatalf("Insert expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported insert shape") {
		t.Fatalf("Insert error = %v, want unsupported shape", err)
	}
}

// TestBuildClientInfo reports the product line with role and tag trimmed
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" api ", " v1.2.3 ")
	if len(ci.Products) == 0 {
		t.Fatalf("BuildClientInfo returned no products")
	}
	if ci.Products[0].Name != "listgate" {
		t.Fatalf("Products[0].Name = %q, want listgate", ci.Products[0].Name)
	}
	if ci.Products[0].Version != "v1.2.3" {
		t.Fatalf("Products[0].Version = %q, want trimmed tag", ci.Products[0].Version)
	}
	if ci.Products[1].Name != "role" || ci.Products[1].Version != "api" {
		t.Fatalf("role product = %+v, want role/api", ci.Products[1])
	}
}
