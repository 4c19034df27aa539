package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateClientConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates new config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.json")
		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}

		var config map[string]interface{}
		if err := json.Unmarshal(data, &config); err != nil {
			t.Fatalf("config is not valid JSON: %v", err)
		}

		servers, ok := config["mcpServers"].(map[string]interface{})
		if !ok {
			t.Fatal("config missing mcpServers section")
		}
		if _, ok := servers["TripPlanner"]; !ok {
			t.Error("config missing TripPlanner entry")
		}
	})

	t.Run("merges with existing config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "merge.json")
		existing := map[string]interface{}{
			"existing_key": "existing_value",
			"mcpServers": map[string]interface{}{
				"OtherServer": map[string]interface{}{"command": "other"},
			},
		}
		data, err := json.Marshal(existing)
		if err != nil {
			t.Fatalf("failed to marshal existing config: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to write existing config: %v", err)
		}

		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		merged, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		var config map[string]interface{}
		if err := json.Unmarshal(merged, &config); err != nil {
			t.Fatalf("config is not valid JSON: %v", err)
		}

		if config["existing_key"] != "existing_value" {
			t.Error("merge did not preserve existing content")
		}
		servers := config["mcpServers"].(map[string]interface{})
		if _, ok := servers["OtherServer"]; !ok {
			t.Error("merge did not preserve other server entries")
		}
		if _, ok := servers["TripPlanner"]; !ok {
			t.Error("merge did not add TripPlanner entry")
		}
	})

	t.Run("replaces invalid existing config", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.json")
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatalf("failed to write broken config: %v", err)
		}

		if err := generateClientConfig(path); err != nil {
			t.Fatalf("generateClientConfig() error = %v", err)
		}

		data, _ := os.ReadFile(path)
		var config map[string]interface{}
		if err := json.Unmarshal(data, &config); err != nil {
			t.Errorf("regenerated config is not valid JSON: %v", err)
		}
	})
}
