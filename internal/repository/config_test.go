package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aliskhannn/chapter-quiz-bot/internal/domain/entities"
)

func TestConfigRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigRepository(filepath.Join(t.TempDir(), "quiz_config.json"))

	if _, err := repo.Load(ctx); !errors.Is(err, entities.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	want := entities.QuizConfig{Chapter: "6.6", NumQuestions: 5}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != want {
		t.Fatalf("Load = %+v, want %+v", *got, want)
	}

	overwrite := entities.QuizConfig{Chapter: "", NumQuestions: 3}
	if err := repo.Save(ctx, overwrite); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, _ := repo.Load(ctx); *got != overwrite {
		t.Fatalf("Load after overwrite = %+v", *got)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, entities.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound after reset, got %v", err)
	}
}

func TestConfigRepositoryCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_config.json")
	if err := os.WriteFile(path, []byte(`{"chapter": "2", "num_questions": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewConfigRepository(path).Load(context.Background()); !errors.Is(err, entities.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
