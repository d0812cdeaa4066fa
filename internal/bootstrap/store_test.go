package bootstrap

import (
	"context"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/config"
)

func TestOpenMemoryStore(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}
	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close(context.Background())

	if store.Repos.Bookings == nil || store.Repos.Users == nil || store.Repos.Technicians == nil || store.Repos.Catalog == nil {
		t.Fatalf("repositories not wired: %+v", store.Repos)
	}
	if len(store.Deps) != 0 {
		t.Errorf("memory store should report no dependencies, got %d", len(store.Deps))
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	if _, err := OpenStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenPostgresWithoutDSN(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StorePostgres}}
	if _, err := OpenStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBootstrapDoesNotImportTransport(t *testing.T) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ImportsOnly)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, pkg := range pkgs {
		for name, file := range pkg.Files {
			for _, imp := range file.Imports {
				if strings.Contains(imp.Path.Value, "/internal/api/") {
					t.Errorf("%s imports %s", name, imp.Path.Value)
				}
			}
		}
	}
}
