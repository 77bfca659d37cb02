package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/shared"
	tu "github.com/desertthunder/habsync/internal/testing"
	"github.com/urfave/cli/v3"
)

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "habsync", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"habsync"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			service := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    service,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.service != service {
				t.Error("expected service to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
			if runner.hub == nil {
				t.Error("expected hub to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}
	})
}

func TestTasksCommand(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	service := &tu.MockService{Tasks: []models.Task{
		{ID: "t1", Category: models.CategoryTodo, Text: "File taxes", Priority: 2, DueDate: &due},
		{ID: "h1", Category: models.CategoryHabit, Text: "Stretch", Priority: 1},
	}}

	t.Run("plain output lists tasks", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Service: service, Output: output})

		if err := runCommand(t, runner, "tasks"); err != nil {
			t.Fatalf("tasks failed: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "File taxes") || !strings.Contains(result, "2 tasks") {
			t.Errorf("unexpected output: %s", result)
		}
	})

	t.Run("json output", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Service: service, Output: output})

		if err := runCommand(t, runner, "tasks", "--json"); err != nil {
			t.Fatalf("tasks failed: %v", err)
		}
		if !strings.Contains(output.String(), `"File taxes"`) {
			t.Errorf("expected JSON output, got %s", output.String())
		}
	})

	t.Run("type flag becomes query", func(t *testing.T) {
		svc := &tu.MockService{}
		runner := NewRunner(RunnerOpts{Service: svc, Output: &bytes.Buffer{}})

		if err := runCommand(t, runner, "tasks", "--type", "daily"); err != nil {
			t.Fatalf("tasks failed: %v", err)
		}
		if len(svc.Queries) != 1 || svc.Queries[0].Type != models.CategoryDaily {
			t.Errorf("expected daily query, got %+v", svc.Queries)
		}
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Service: service, Output: &bytes.Buffer{}})
		if err := runCommand(t, runner, "tasks", "--type", "playlist"); err == nil {
			t.Error("expected error for invalid type")
		}
	})

	t.Run("missing service rejected", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := runCommand(t, runner, "tasks"); err == nil {
			t.Error("expected error when service missing")
		}
	})
}

func TestSyncCommand(t *testing.T) {
	t.Run("writes notes into folder override", func(t *testing.T) {
		service := &tu.MockService{Tasks: []models.Task{
			{ID: "d1", Category: models.CategoryDaily, Text: "Journal", Priority: 1},
		}}
		folder := filepath.Join(t.TempDir(), "notes")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Service: service, Output: output})

		if err := runCommand(t, runner, "sync", "--folder", folder, "--quiet"); err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(folder, "daily.md"))
		if !strings.Contains(output.String(), "Sync Complete!") {
			t.Errorf("expected summary output, got %s", output.String())
		}
	})

	t.Run("missing service rejected", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if err := runCommand(t, runner, "sync"); err == nil {
			t.Error("expected error when service missing")
		}
	})

	t.Run("disabled in config rejected", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Notes.SyncEnabled = false
		runner := NewRunner(RunnerOpts{Config: config, Service: &tu.MockService{}, Output: &bytes.Buffer{}})
		if err := runCommand(t, runner, "sync"); err == nil {
			t.Error("expected error when sync disabled")
		}
	})
}

func TestStatusCommand(t *testing.T) {
	t.Run("without gate or history", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runCommand(t, runner, "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "unknown") {
			t.Errorf("expected unknown rate state, got %s", result)
		}
		if !strings.Contains(result, "No history database") {
			t.Errorf("expected history hint, got %s", result)
		}
	})

	t.Run("with history database", func(t *testing.T) {
		db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		service := &tu.MockService{Tasks: []models.Task{
			{ID: "d1", Category: models.CategoryDaily, Text: "Journal", Priority: 1},
		}}
		folder := filepath.Join(t.TempDir(), "notes")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Service: service, DB: db, Output: output})

		if err := runCommand(t, runner, "sync", "--folder", folder, "--quiet"); err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		output.Reset()
		if err := runCommand(t, runner, "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Recent syncs:") || !strings.Contains(result, "dailies=1") {
			t.Errorf("expected recorded run in output, got %s", result)
		}
	})
}
