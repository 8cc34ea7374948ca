package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("port: 9090\nseed: 42\nworldWidth: 25\nworldHeight: 15\nviewRadius: 6\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 9090 || cfg.Seed != 42 || cfg.WorldWidth != 25 || cfg.WorldHeight != 15 || cfg.ViewRadius != 6 {
		t.Errorf("конфиг прочитан неверно: %+v", cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// Частичный файл: незаданные поля остаются дефолтными
	if err := os.WriteFile(path, []byte("port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := NewConfig()
	if cfg.Port != 9000 {
		t.Errorf("порт = %d", cfg.Port)
	}
	if cfg.WorldWidth != def.WorldWidth || cfg.ViewRadius != def.ViewRadius {
		t.Errorf("дефолты не сохранились: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("отсутствующий файл должен дать ошибку")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("port: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("невалидный порт должен дать ошибку")
	}
}
