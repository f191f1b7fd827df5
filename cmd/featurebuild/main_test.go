package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/matchday-features/internal/config"
	"github.com/riskibarqy/matchday-features/internal/usecase"
)

func TestRunBuild_PersistNeedsPersistenceEnabled(t *testing.T) {
	flags := buildFlags{manifest: filepath.Join(t.TempDir(), "competitions.yaml"), persist: true}

	err := runBuild(context.Background(), session{cfg: config.Config{PersistEnabled: false}}, flags, io.Discard)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckPersist(t *testing.T) {
	tests := []struct {
		name    string
		persist bool
		enabled bool
		wantErr bool
	}{
		{name: "no persist", persist: false, enabled: false},
		{name: "persist enabled", persist: true, enabled: true},
		{name: "persist disabled", persist: true, enabled: false, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPersist(buildFlags{persist: tc.persist}, config.Config{PersistEnabled: tc.enabled})
			if tc.wantErr != (err != nil) {
				t.Fatalf("checkPersist() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	if got := resolvePath("conf", "data/roster.csv"); got != filepath.Join("conf", "data/roster.csv") {
		t.Fatalf("relative path = %q", got)
	}
	if got := resolvePath("conf", ""); got != "" {
		t.Fatalf("empty path = %q", got)
	}
}
