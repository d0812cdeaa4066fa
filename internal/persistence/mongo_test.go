package persistence

import (
	"testing"

	"github.com/devicecare/repair-booking/internal/config"
)

func TestMongoDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MongoConfig
		want string
	}{
		{"explicit wins", config.MongoConfig{URI: "mongodb://localhost:27017/legacy", Database: "other"}, "other"},
		{"from uri", config.MongoConfig{URI: "mongodb://user:pw@localhost:27017/legacy?authSource=admin"}, "legacy"},
		{"fallback", config.MongoConfig{URI: "mongodb://localhost:27017"}, defaultMongoDatabase},
		{"fallback with slash", config.MongoConfig{URI: "mongodb://localhost:27017/"}, defaultMongoDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := databaseName(tt.cfg)
			if err != nil {
				t.Fatalf("databaseName: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMongoDatabaseNameBadURI(t *testing.T) {
	if _, err := databaseName(config.MongoConfig{URI: "postgres://nope"}); err == nil {
		t.Fatal("expected error for non-mongo uri")
	}
}
