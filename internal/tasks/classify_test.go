package tasks

import (
	"io"
	"testing"

	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/shared"
)

func TestClassify(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Partitions By Category", func(t *testing.T) {
		tasks := []models.Task{
			{ID: "h1", Category: models.CategoryHabit, Text: "Stretch"},
			{ID: "d1", Category: models.CategoryDaily, Text: "Journal"},
			{ID: "t1", Category: models.CategoryTodo, Text: "Taxes"},
			{ID: "d2", Category: models.CategoryDaily, Text: "Water plants"},
			{ID: "r1", Category: models.CategoryReward, Text: "Coffee"},
			{ID: "c1", Category: models.CategoryCompleted, Text: "Done"},
		}

		collection, dropped := Classify(tasks, logger)
		if dropped != 0 {
			t.Errorf("Expected no dropped tasks, got %d", dropped)
		}
		if collection.Total() != len(tasks) {
			t.Errorf("Expected %d tasks total, got %d", len(tasks), collection.Total())
		}
		if len(collection[models.CategoryDaily]) != 2 {
			t.Errorf("Expected 2 dailies, got %d", len(collection[models.CategoryDaily]))
		}
		if collection[models.CategoryDaily][0].ID != "d1" || collection[models.CategoryDaily][1].ID != "d2" {
			t.Error("Expected dailies to keep arrival order")
		}
	})

	t.Run("Drops Unknown Categories", func(t *testing.T) {
		tasks := []models.Task{
			{ID: "t1", Category: models.CategoryTodo, Text: "Keep me"},
			{ID: "x1", Category: models.Category("challenge"), Text: "Drop me"},
			{ID: "x2", Category: models.Category(""), Text: "Drop me too"},
		}

		collection, dropped := Classify(tasks, logger)
		if dropped != 2 {
			t.Errorf("Expected 2 dropped tasks, got %d", dropped)
		}
		if collection.Total() != 1 {
			t.Errorf("Expected 1 task kept, got %d", collection.Total())
		}
	})

	t.Run("Empty Input Yields Empty Buckets", func(t *testing.T) {
		collection, dropped := Classify(nil, logger)
		if dropped != 0 {
			t.Errorf("Expected no dropped tasks, got %d", dropped)
		}
		for _, category := range models.Categories() {
			bucket, ok := collection[category]
			if !ok {
				t.Errorf("Expected bucket for %s", category)
			}
			if len(bucket) != 0 {
				t.Errorf("Expected empty bucket for %s, got %d", category, len(bucket))
			}
		}
	})

	t.Run("Nil Logger Is Safe", func(t *testing.T) {
		tasks := []models.Task{{ID: "x1", Category: models.Category("mystery")}}
		_, dropped := Classify(tasks, nil)
		if dropped != 1 {
			t.Errorf("Expected 1 dropped task, got %d", dropped)
		}
	})
}
