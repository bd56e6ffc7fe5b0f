package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thinkscotty/ideagen/internal/export"
	"github.com/thinkscotty/ideagen/internal/gemini"
	"github.com/thinkscotty/ideagen/internal/ideas"
	"github.com/thinkscotty/ideagen/internal/mcptools"
)

func newGeminiClient() *gemini.Client {
	return gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey)
}

// newGenerator discovers the model to use and returns a generator bound to
// it. Discovery is bounded by gemini.discovery_seconds and never fails.
func newGenerator(ctx context.Context) *ideas.Generator {
	client := newGeminiClient()

	dctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Gemini.DiscoverySeconds)*time.Second)
	defer cancel()
	model := gemini.Discover(dctx, client, gemini.DiscoveryOpts{
		Preferred: cfg.Gemini.PreferredModel,
		Family:    cfg.Gemini.ModelFamily,
		Fallback:  cfg.Gemini.DefaultModel,
	})

	return ideas.NewGenerator(client, model, cfg.Gemini.IdeaCount)
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one batch of ideas and print it",
	Long: `Generate one batch of ideas and print it.

Examples:
  ideagen generate --niche "home cooking" --audience "college students"
  ideagen generate --niche fitness --audience beginners --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		niche, _ := cmd.Flags().GetString("niche")
		audience, _ := cmd.Flags().GetString("audience")
		asJSON, _ := cmd.Flags().GetBool("json")
		count, _ := cmd.Flags().GetInt("count")

		if strings.TrimSpace(niche) == "" || strings.TrimSpace(audience) == "" {
			return fmt.Errorf("--niche and --audience must not be blank")
		}
		if count > 0 {
			cfg.Gemini.IdeaCount = count
		}

		ctx := cmd.Context()
		batch, err := newGenerator(ctx).Generate(ctx, niche, audience)
		if err != nil {
			return fmt.Errorf("generation failed (%s): %w", ideas.Kind(err), err)
		}
		return printBatch(cmd.OutOrStdout(), batch, asJSON, time.Now())
	},
}

func init() {
	generateCmd.Flags().String("niche", "", "creator niche, e.g. \"home cooking\"")
	generateCmd.Flags().String("audience", "", "target audience, e.g. \"college students\"")
	generateCmd.Flags().Bool("json", false, "print the batch as JSON")
	generateCmd.Flags().Int("count", 0, "number of ideas to request (default gemini.idea_count)")
	generateCmd.MarkFlagRequired("niche")
	generateCmd.MarkFlagRequired("audience")
}

// printBatch writes batch in the plain-text export layout, or as indented
// JSON.
func printBatch(w io.Writer, batch ideas.Batch, asJSON bool, now time.Time) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	}
	blocks := export.IdeasBlocks(export.IdeasTitle, now.Format(export.DateLayout), batch.Ideas)
	_, err := fmt.Fprintln(w, export.Render(blocks))
	return err
}

// --- models ---

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the Gemini models available to the configured key",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newGeminiClient().ListModels(cmd.Context())
		if err != nil {
			return err
		}
		selected := gemini.SelectModel(list, gemini.DiscoveryOpts{
			Preferred: cfg.Gemini.PreferredModel,
			Family:    cfg.Gemini.ModelFamily,
			Fallback:  cfg.Gemini.DefaultModel,
		})
		return printModels(cmd.OutOrStdout(), list, selected)
	},
}

func printModels(w io.Writer, list []gemini.Model, selected string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tMODEL\tNAME")
	for _, m := range list {
		id := gemini.ModelID(m.Name)
		mark := ""
		if id == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, id, m.DisplayName)
	}
	return tw.Flush()
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generate_ideas tool over MCP on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s := mcptools.NewServer(mcptools.Deps{
			Ideas:   newGenerator(ctx),
			Version: version,
		})
		return mcptools.Serve(ctx, s, os.Stdin, os.Stdout)
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ideagen %s (built %s)\n", version, buildTime)
	},
}
