package store

import (
	"context"
	"testing"
)

// TestOpenPG_BadURL surfaces the pg parse error without retrying
func TestOpenPG_BadURL(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.PG.URL = "://bad"

	s := &Store{}
	if _, err := openPG(context.Background(), cfg, s); err == nil {
		t.Fatalf("openPG expected error for bad URL, got nil")
	}
	if s.PG != nil {
		t.Fatalf("openPG must not publish an adapter on failure")
	}
}

// TestOpenCH_BadURL surfaces the ch parse error
func TestOpenCH_BadURL(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.CH.URL = "://bad"

	if _, err := openCH(context.Background(), cfg, nil); err == nil {
		t.Fatalf("openCH expected error for bad URL, got nil")
	}
}
