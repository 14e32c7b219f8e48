package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/yaad/internal/assistant"
	"github.com/kalambet/yaad/internal/storage"
)

const maxUtteranceBodySize = 1 << 20 // 1MB

// Dispatcher processes one final transcript.
type Dispatcher interface {
	Process(ctx context.Context, text string) assistant.Result
}

// ReminderScheduler is the slice of the scheduler the API needs to keep
// timers consistent with task mutations.
type ReminderScheduler interface {
	Schedule(taskID string, due time.Time)
	Cancel(taskID string)
}

type AppDeps struct {
	Store      *storage.Store
	Dispatcher Dispatcher
	Scheduler  ReminderScheduler
	Token      string
}

// NewAppHandler builds the management API. Everything except /health
// requires the bearer token.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/utterances", handleUtterance(deps))
		r.Get("/tasks", handleListTasks(deps))
		r.Patch("/tasks/{id}", handlePatchTask(deps))
		r.Delete("/tasks/{id}", handleDeleteTask(deps))
		r.Get("/items", handleListItems(deps))
		r.Get("/items/search", handleSearchItems(deps))
		r.Delete("/items/{id}", handleDeleteItem(deps))
		r.Get("/settings", handleGetSettings(deps))
		r.Patch("/settings", handlePatchSettings(deps))
	})

	return r
}

type taskJSON struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	DueTime   time.Time `json:"due_time"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func toTaskJSON(t storage.Task) taskJSON {
	return taskJSON{ID: t.ID, Text: t.Text, DueTime: t.DueTime, Completed: t.Completed, CreatedAt: t.CreatedAt}
}

type itemJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func toItemJSON(i storage.Item) itemJSON {
	return itemJSON{ID: i.ID, Name: i.Name, Location: i.Location, CreatedAt: i.CreatedAt}
}

type utteranceRequest struct {
	Text string `json:"text"`
}

type utteranceResponse struct {
	Intent    string    `json:"intent"`
	Duplicate bool      `json:"duplicate,omitempty"`
	Announced string    `json:"announced,omitempty"`
	Task      *taskJSON `json:"task,omitempty"`
	Item      *itemJSON `json:"item,omitempty"`
	Found     *itemJSON `json:"found,omitempty"`
}

func handleUtterance(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUtteranceBodySize)
		defer r.Body.Close()

		var req utteranceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required")
			return
		}

		res := deps.Dispatcher.Process(r.Context(), req.Text)

		resp := utteranceResponse{
			Intent:    res.Kind.String(),
			Duplicate: res.Duplicate,
			Announced: res.Announced,
		}
		if res.Task != nil {
			t := toTaskJSON(*res.Task)
			resp.Task = &t
		}
		if res.Item != nil {
			i := toItemJSON(*res.Item)
			resp.Item = &i
		}
		if res.Found != nil {
			i := toItemJSON(*res.Found)
			resp.Found = &i
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleListTasks(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := deps.Store.ListTasks()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing tasks: %v", err)
			return
		}

		// ?pending=true hides completed tasks.
		pendingOnly, _ := strconv.ParseBool(r.URL.Query().Get("pending"))

		out := make([]taskJSON, 0, len(tasks))
		for _, t := range tasks {
			if pendingOnly && t.Completed {
				continue
			}
			out = append(out, toTaskJSON(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type patchTaskRequest struct {
	Completed *bool `json:"completed"`
}

func handlePatchTask(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req patchTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Completed == nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "completed is required")
			return
		}

		if err := deps.Store.SetTaskCompleted(id, *req.Completed); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "task %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "updating task: %v", err)
			return
		}

		// Keep the reminder consistent with the completion flag: a
		// completed task must never announce, an un-completed one with a
		// future due time gets its reminder back.
		if *req.Completed {
			deps.Scheduler.Cancel(id)
		} else if task, err := deps.Store.GetTask(id); err == nil && task.DueTime.After(time.Now()) {
			deps.Scheduler.Schedule(id, task.DueTime)
		}

		task, err := deps.Store.GetTask(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "reloading task: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, toTaskJSON(task))
	}
}

func handleDeleteTask(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := deps.Store.DeleteTask(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "task %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "deleting task: %v", err)
			return
		}

		// Deleting a task retires its pending reminder.
		deps.Scheduler.Cancel(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListItems(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := deps.Store.ListItems()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing items: %v", err)
			return
		}
		out := make([]itemJSON, 0, len(items))
		for _, i := range items {
			out = append(out, toItemJSON(i))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleSearchItems(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "q is required")
			return
		}

		item, err := deps.Store.SearchItem(q)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "no item matching %q", q)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "searching items: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, toItemJSON(item))
	}
}

func handleDeleteItem(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := deps.Store.DeleteItem(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "item %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "deleting item: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

const mutedSetting = "muted"

type settingsJSON struct {
	Muted bool `json:"muted"`
}

// MutedReader returns the settings-backed mute flag reader used by the
// Speaker. Missing or malformed values read as unmuted.
func MutedReader(store *storage.Store) func() bool {
	return func() bool {
		v, err := store.GetSetting(mutedSetting)
		if err != nil {
			return false
		}
		muted, err := strconv.ParseBool(v)
		return err == nil && muted
	}
}

func handleGetSettings(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, settingsJSON{Muted: MutedReader(deps.Store)()})
	}
}

type patchSettingsRequest struct {
	Muted *bool `json:"muted"`
}

func handlePatchSettings(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Muted == nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "muted is required")
			return
		}

		if err := deps.Store.SetSetting(mutedSetting, strconv.FormatBool(*req.Muted)); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "saving setting: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, settingsJSON{Muted: *req.Muted})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
