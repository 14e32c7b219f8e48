package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/yaad/internal/config"
)

// --- say ---

var sayCmd = &cobra.Command{
	Use:   "say <utterance>",
	Short: "Deliver an utterance to the assistant",
	Long: `Deliver an utterance to the assistant, exactly as if it had been
transcribed from the microphone.

Examples:
  yaad say "कल दवाई लेना है"
  yaad say "मैंने चाबी अलमारी में रखा"
  yaad say "चार्जर कहाँ है"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/utterances", map[string]string{"text": text})
		if err != nil {
			return err
		}

		var result struct {
			Intent    string `json:"intent"`
			Duplicate bool   `json:"duplicate"`
			Announced string `json:"announced"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		switch {
		case result.Duplicate:
			printWarning("Dropped as a repeat of the previous utterance")
		case result.Announced != "":
			printSuccess("%s", result.Announced)
		default:
			fmt.Printf("No command recognized (intent: %s)\n", result.Intent)
		}
		return nil
	},
}

// --- tasks ---

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		pendingOnly, _ := cmd.Flags().GetBool("pending")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/tasks"
		if pendingOnly {
			path += "?pending=true"
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var tasks []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			DueTime   time.Time `json:"due_time"`
			Completed bool      `json:"completed"`
		}
		if err := decodeJSON(resp, &tasks); err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		for _, task := range tasks {
			mark := " "
			if task.Completed {
				mark = colorize(colorGreen, "✓")
			}
			fmt.Printf("[%s] %s  %s  %s\n",
				mark,
				colorize(colorCyan, task.ID[:8]),
				task.DueTime.Local().Format("Mon 15:04"),
				task.Text,
			)
		}
		return nil
	},
}

// --- done / rm-task ---

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.patch(cmd.Context(), "/tasks/"+args[0], map[string]bool{"completed": true})
		if err != nil {
			return err
		}

		var task struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(resp, &task); err != nil {
			return err
		}

		printSuccess("Completed: %s", task.Text)
		return nil
	},
}

var rmTaskCmd = &cobra.Command{
	Use:   "rm-task <id>",
	Short: "Delete a task and its reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/tasks/"+args[0])
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		printSuccess("Deleted task %s", args[0])
		return nil
	},
}

// --- items / find / rm-item ---

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List remembered item locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/items")
		if err != nil {
			return err
		}

		var items []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Location string `json:"location"`
		}
		if err := decodeJSON(resp, &items); err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No items.")
			return nil
		}

		for _, item := range items {
			fmt.Printf("%s  %s %s में\n",
				colorize(colorCyan, item.ID[:8]),
				colorize(colorBold, item.Name),
				item.Location,
			)
		}
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find where an item was last placed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/items/search?q="+url.QueryEscape(name))
		if err != nil {
			return err
		}

		if resp.StatusCode == 404 {
			resp.Body.Close()
			fmt.Printf("%s नहीं मिला\n", name)
			return nil
		}

		var item struct {
			Name     string `json:"name"`
			Location string `json:"location"`
		}
		if err := decodeJSON(resp, &item); err != nil {
			return err
		}

		fmt.Printf("%s %s में है\n", colorize(colorBold, item.Name), item.Location)
		return nil
	},
}

var rmItemCmd = &cobra.Command{
	Use:   "rm-item <id>",
	Short: "Forget an item location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/items/"+args[0])
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		printSuccess("Deleted item %s", args[0])
		return nil
	},
}

// --- mute ---

var muteCmd = &cobra.Command{
	Use:   "mute on|off",
	Short: "Silence or restore spoken announcements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var muted bool
		switch args[0] {
		case "on":
			muted = true
		case "off":
			muted = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.patch(cmd.Context(), "/settings", map[string]bool{"muted": muted})
		if err != nil {
			return err
		}

		var settings struct {
			Muted bool `json:"muted"`
		}
		if err := decodeJSON(resp, &settings); err != nil {
			return err
		}

		if settings.Muted {
			printSuccess("Announcements muted")
		} else {
			printSuccess("Announcements unmuted")
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	tasksCmd.Flags().Bool("pending", false, "only show tasks that are not completed")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
