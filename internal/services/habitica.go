// Habitica API implementation of [Service]
//
// Response types follow https://habitica.com/apidoc/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/habsync/internal/models"
	"github.com/desertthunder/habsync/internal/shared"
)

const habiticaBaseURL = "https://habitica.com/api/v3"

// HabiticaService implements the Service interface against the Habitica v3 API.
// All requests pass through the rate-limited [Gate].
type HabiticaService struct {
	baseURL    string
	userID     string
	apiKey     string
	client     string
	httpClient *http.Client
	gate       *Gate
	logger     *log.Logger
}

// HabiticaOpts contains configuration for creating a HabiticaService.
type HabiticaOpts struct {
	BaseURL    string
	UserID     string
	APIKey     string
	Client     string // x-client header value
	Timeout    time.Duration
	HTTPClient *http.Client
	Gate       *Gate
	Logger     *log.Logger
}

// NewHabiticaService creates a Habitica client with the given credentials.
func NewHabiticaService(opts HabiticaOpts) (*HabiticaService, error) {
	if opts.UserID == "" || opts.APIKey == "" {
		return nil, fmt.Errorf("%w: user id and api key are required", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = habiticaBaseURL
	}
	if opts.Client == "" {
		opts.Client = opts.UserID + " - habsync"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Gate == nil {
		opts.Gate = NewGate(NewRateLimitState(), 0, 0, opts.Logger)
	}

	return &HabiticaService{
		baseURL:    opts.BaseURL,
		userID:     opts.UserID,
		apiKey:     opts.APIKey,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		gate:       opts.Gate,
		logger:     opts.Logger,
	}, nil
}

func (s *HabiticaService) Name() string { return "Habitica" }

// Gate returns the rate-limit gate backing this client.
func (s *HabiticaService) Gate() *Gate { return s.gate }

// envelope is the response wrapper every endpoint uses.
// data can be a single task or a list depending on the endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// wireTask mirrors the task JSON the API sends before conversion to [models.Task].
type wireTask struct {
	ID        string   `json:"id"`
	LegacyID  string   `json:"_id"`
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	Notes     string   `json:"notes"`
	Completed bool     `json:"completed"`
	Priority  float64  `json:"priority"`
	Date      string   `json:"date"`
	NextDue   []string `json:"nextDue"`
	Checklist []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	} `json:"checklist"`
	Tags []string `json:"tags"`
}

// FetchTasks retrieves the user's tasks from GET /tasks/user.
//
// The request runs through the gate; a non-success status or success=false in
// the body is terminal for this call and is never retried here.
func (s *HabiticaService) FetchTasks(ctx context.Context, query TaskQuery) ([]models.Task, error) {
	endpoint := "/tasks/user"
	params := url.Values{}
	if query.Type != "" {
		params.Set("type", query.Type.QueryValue())
	}
	if !query.DueDate.IsZero() {
		params.Set("dueDate", query.DueDate.Format(time.RFC3339))
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	resp, err := s.gate.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("x-client", s.client)
		req.Header.Set("x-api-user", s.userID)
		req.Header.Set("x-api-key", s.apiKey)
		return s.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIFailure, env.Message)
	}

	return decodeTasks(env.Data, s.logger)
}

// decodeTasks converts the envelope payload, which may be a single task or a
// list, into domain tasks. Malformed date fields are logged and dropped from
// the task rather than failing the whole fetch.
func decodeTasks(data json.RawMessage, logger *log.Logger) ([]models.Task, error) {
	var wire []wireTask
	if err := json.Unmarshal(data, &wire); err != nil {
		var single wireTask
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("failed to decode task payload: %w", err)
		}
		wire = []wireTask{single}
	}

	tasks := make([]models.Task, 0, len(wire))
	for _, w := range wire {
		tasks = append(tasks, w.toTask(logger))
	}
	return tasks, nil
}

func (w wireTask) toTask(logger *log.Logger) models.Task {
	task := models.Task{
		ID:        w.ID,
		Category:  models.Category(w.Type),
		Text:      w.Text,
		Notes:     w.Notes,
		Completed: w.Completed,
		Priority:  w.Priority,
		Tags:      w.Tags,
	}
	if task.ID == "" {
		task.ID = w.LegacyID
	}

	if w.Date != "" {
		if due, err := time.Parse(time.RFC3339, w.Date); err == nil {
			task.DueDate = &due
		} else if logger != nil {
			logger.Warn("dropping malformed due date", "task", task.ID, "date", w.Date)
		}
	}

	for _, raw := range w.NextDue {
		if due, err := time.Parse(time.RFC3339, raw); err == nil {
			task.NextDue = append(task.NextDue, due)
		} else if logger != nil {
			logger.Warn("dropping malformed nextDue entry", "task", task.ID, "date", raw)
		}
	}

	for _, item := range w.Checklist {
		task.Checklist = append(task.Checklist, models.ChecklistItem{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		})
	}

	return task
}
