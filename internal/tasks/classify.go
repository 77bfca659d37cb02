package tasks

import (
	"github.com/charmbracelet/log"

	"github.com/desertthunder/habsync/internal/models"
)

// Classify partitions tasks into per-category buckets, preserving the
// order tasks arrived in within each bucket. Tasks whose category is not
// one of the known five are logged and dropped; the count of dropped
// tasks is returned alongside the collection.
func Classify(tasks []models.Task, logger *log.Logger) (models.TaskCollection, int) {
	collection := models.NewTaskCollection()
	dropped := 0
	for _, task := range tasks {
		if _, ok := collection[task.Category]; !ok {
			dropped++
			if logger != nil {
				logger.Warn("dropping task with unrecognized category", "task", task.ID, "category", task.Category)
			}
			continue
		}
		collection[task.Category] = append(collection[task.Category], task)
	}
	return collection, dropped
}
