package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/yaad/internal/storage"
)

// SpeakAnnouncer voices a phrase through the speech service.
type SpeakAnnouncer interface {
	Announce(ctx context.Context, phrase string)
}

type MCPDeps struct {
	Store     *storage.Store
	Announcer SpeakAnnouncer
	Scheduler ReminderScheduler
}

// NewMCPServer builds the MCP surface so agents can drive the assistant
// alongside the voice path: speak, inspect and complete tasks, look up
// stored items, and toggle the mute flag.
func NewMCPServer(deps MCPDeps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"yaad",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("yaad is a bilingual (Hindi/English) voice assistant. Tasks and item locations come from spoken utterances; these tools expose the same records to agents."),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("say",
		mcp.WithDescription("Speak a phrase aloud through the speech service. Respects the mute flag."),
		mcp.WithString("text", mcp.Description("Phrase to speak"), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		deps.Announcer.Announce(ctx, text)
		return mcpText("spoken"), nil
	})

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks in creation order."),
		mcp.WithBoolean("pending", mcp.Description("Only return tasks that are not completed")),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := deps.Store.ListTasks()
		if err != nil {
			return mcpError("listing tasks: %v", err), nil
		}
		if req.GetBool("pending", false) {
			pending := tasks[:0]
			for _, t := range tasks {
				if !t.Completed {
					pending = append(pending, t)
				}
			}
			tasks = pending
		}
		return mcpJSON(tasksToJSON(tasks))
	})

	s.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task completed and cancel its reminder."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		if err := deps.Store.SetTaskCompleted(id, true); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return mcpError("task %s not found", id), nil
			}
			return mcpError("updating task: %v", err), nil
		}
		deps.Scheduler.Cancel(id)
		return mcpText("task %s completed", id), nil
	})

	s.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List remembered item locations in creation order."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := deps.Store.ListItems()
		if err != nil {
			return mcpError("listing items: %v", err), nil
		}
		return mcpJSON(itemsToJSON(items))
	})

	s.AddTool(mcp.NewTool("find_item",
		mcp.WithDescription("Find where an item was last placed. Checks name and location of each stored item in order; the first match wins."),
		mcp.WithString("name", mcp.Description("Item name, e.g. चार्जर or keys"), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		item, err := deps.Store.SearchItem(name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return mcpText("%s नहीं मिला", name), nil
			}
			return mcpError("searching items: %v", err), nil
		}
		return mcpText("%s %s में है", item.Name, item.Location), nil
	})

	s.AddTool(mcp.NewTool("set_muted",
		mcp.WithDescription("Enable or disable spoken announcements."),
		mcp.WithBoolean("muted", mcp.Description("True silences announcements"), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		muted, err := req.RequireBool("muted")
		if err != nil {
			return mcpError("muted is required"), nil
		}
		if err := deps.Store.SetSetting(mutedSetting, strconv.FormatBool(muted)); err != nil {
			return mcpError("saving setting: %v", err), nil
		}
		return mcpText("muted=%t", muted), nil
	})

	s.AddResource(mcp.NewResource(
		"yaad://tasks",
		"Tasks",
		mcp.WithResourceDescription("All tasks as JSON, in creation order"),
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tasks, err := deps.Store.ListTasks()
		if err != nil {
			return nil, fmt.Errorf("listing tasks: %w", err)
		}
		return resourceJSON(req, tasksToJSON(tasks))
	})

	s.AddResource(mcp.NewResource(
		"yaad://items",
		"Items",
		mcp.WithResourceDescription("All remembered item locations as JSON, in creation order"),
		mcp.WithMIMEType("application/json"),
	), func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		items, err := deps.Store.ListItems()
		if err != nil {
			return nil, fmt.Errorf("listing items: %w", err)
		}
		return resourceJSON(req, itemsToJSON(items))
	})

	return s
}

func tasksToJSON(tasks []storage.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	return out
}

func itemsToJSON(items []storage.Item) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, i := range items {
		out = append(out, toItemJSON(i))
	}
	return out
}

func mcpText(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: fmt.Sprintf(format, args...)}},
	}
}

func mcpError(format string, args ...any) *mcp.CallToolResult {
	res := mcpText(format, args...)
	res.IsError = true
	return res
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	if err := json.NewEncoder(&sb).Encode(v); err != nil {
		return mcpError("encoding response: %v", err), nil
	}
	return mcpText("%s", strings.TrimSuffix(sb.String(), "\n")), nil
}

func resourceJSON(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding resource: %w", err)
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
