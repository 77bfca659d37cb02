// package formatter projects tasks into markdown note text
package formatter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/habsync/internal/models"
)

// NoteSeparator joins rendered task blocks inside one note file.
const NoteSeparator = "\n\n"

// Settings are the per-sync rendering options. They are owned by the caller
// and never mutated here.
type Settings struct {
	Indent string // prefix for checklist lines
	Tag    string // optional global tag token, e.g. "#habitica"
}

// priorityGlyphs maps clamped priority 0..3 to its marker, lowest first.
var priorityGlyphs = [4]string{"⏬", "🔽", "🔼", "⏫"}

// PriorityGlyph maps any priority value to one of four glyphs.
//
// Input is clamped to [0,3] and rounded to the nearest index; NaN and other
// out-of-range values clamp instead of erroring, so the function is total.
func PriorityGlyph(priority float64) string {
	if math.IsNaN(priority) || priority < 0 {
		priority = 0
	}
	if priority > 3 {
		priority = 3
	}
	return priorityGlyphs[int(math.Round(priority))]
}

func checkbox(completed bool) string {
	if completed {
		return "- [x]"
	}
	return "- [ ]"
}

// RenderTask produces the markdown block for one task: a primary line with
// checkbox, optional tag, text, and the trailing glyph cluster, followed by
// one indented line per checklist entry.
//
// Rendering is pure: identical task, settings, and today always produce
// byte-identical output.
func RenderTask(task models.Task, settings Settings, today time.Time) string {
	var b strings.Builder

	b.WriteString(checkbox(task.Completed))
	b.WriteByte(' ')
	if settings.Tag != "" {
		b.WriteString(settings.Tag)
		b.WriteByte(' ')
	}
	b.WriteString(task.Text)
	b.WriteByte(' ')
	b.WriteString(PriorityGlyph(task.Priority))

	if due, ok := task.DueOn(today); ok {
		b.WriteString(fmt.Sprintf(" 📅 %s", due.Format("2006-01-02")))
	}

	for _, item := range task.Checklist {
		b.WriteByte('\n')
		b.WriteString(settings.Indent)
		b.WriteString(checkbox(item.Completed))
		b.WriteByte(' ')
		b.WriteString(item.Text)
	}

	return b.String()
}

// RenderNote renders every task and joins the blocks with [NoteSeparator].
func RenderNote(tasks []models.Task, settings Settings, today time.Time) string {
	blocks := make([]string, len(tasks))
	for i, task := range tasks {
		blocks[i] = RenderTask(task, settings, today)
	}
	return strings.Join(blocks, NoteSeparator)
}

// NoteFilename returns the deterministic artifact name for a category.
func NoteFilename(category models.Category) string {
	return string(category) + ".md"
}

// WriteNote replaces the category's note file under folder with content,
// creating the file if absent. The write is a full overwrite: external edits
// since the last sync are intentionally discarded.
func WriteNote(folder string, category models.Category, content string) (string, error) {
	path := filepath.Join(folder, NoteFilename(category))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write note %s: %w", path, err)
	}
	return path, nil
}
