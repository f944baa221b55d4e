package config

import (
	"errors"
	"testing"

	"sitediff/internal/domain"
)

const validYAML = `
endpoints:
  - name: alpha
    type: gdrive
    url: https://drive.google.com/drive/folders/abc
    root: /Sites/Alpha
    credentials:
      client_id: id
      client_secret: secret
  - name: beta
    type: snapshot
    url: https://beta.example.com
    snapshot: ./exports/beta.csv
output:
  dir: ./reports
log:
  level: debug
  format: json
`

func TestLoadFromString_Valid(t *testing.T) {
	cfg, err := LoadFromString(validYAML)
	if err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("endpoints = %d, want 2", len(cfg.Endpoints))
	}

	alpha, err := cfg.GetEndpoint("alpha")
	if err != nil {
		t.Fatalf("GetEndpoint: %v", err)
	}
	if alpha.Type != domain.EndpointGDrive {
		t.Errorf("type = %s, want gdrive", alpha.Type)
	}
	if alpha.Credentials["client_id"] != "id" {
		t.Errorf("credentials not decoded: %+v", alpha.Credentials)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log config = %+v", cfg.Log)
	}
}

func TestLoadFromString_DuplicateEndpoint(t *testing.T) {
	_, err := LoadFromString(`
endpoints:
  - name: same
    type: local
    root: /tmp/a
  - name: same
    type: local
    root: /tmp/b
`)
	if !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestLoadFromString_InvalidType(t *testing.T) {
	_, err := LoadFromString(`
endpoints:
  - name: x
    type: sharepoint
`)
	if !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestLoadFromString_SnapshotWithoutPath(t *testing.T) {
	_, err := LoadFromString(`
endpoints:
  - name: x
    type: snapshot
`)
	if !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestGetEndpoint_Missing(t *testing.T) {
	cfg, err := LoadFromString(validYAML)
	if err != nil {
		t.Fatalf("LoadFromString: %v", err)
	}

	if _, err := cfg.GetEndpoint("gamma"); !errors.Is(err, domain.ErrEndpointNotFound) {
		t.Errorf("err = %v, want ErrEndpointNotFound", err)
	}
}

func TestGetOutputDir_Default(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetOutputDir(); got != "reports" {
		t.Errorf("GetOutputDir = %q, want reports", got)
	}
}
