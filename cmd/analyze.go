package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/insight"
)

const analyzeSystemPrompt = `You are an NBA analyst. Answer concisely.

Rules:
- Cite specific numbers when making a claim.
- If you are not sure of a statistic, say so instead of estimating.
- Prefer explaining causes (role, usage, shot selection, health) over listing numbers.`

var analyzePick int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "LLM-written insights (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <player> [question]",
	Short: "Explain a player's season from the stored stats",
	Long: `Explain a player's season from stored averages, the last 20 games and shot zones.

Without a question a season summary is produced and cached for insight-ttl;
later calls return the cached text. A question is always answered fresh.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnalyzePlayer,
}

var analyzeAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the model a free-form basketball question (streamed)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyzeAsk,
}

func init() {
	analyzeCmd.PersistentFlags().String("anthropic-model", insight.DefaultModel, "Anthropic model to use")
	analyzeCmd.PersistentFlags().String("anthropic-api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	for _, name := range []string{"anthropic-model", "anthropic-api-key"} {
		if err := v.BindPFlag(name, analyzeCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
	analyzePlayerCmd.Flags().IntVar(&analyzePick, "pick", 0, "choose the Nth candidate when the name is ambiguous")

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeAskCmd)
}

func newAnthropic() (*insight.Anthropic, error) {
	llm, err := insight.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or use --anthropic-api-key", err)
	}
	return llm, nil
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	llm, err := newAnthropic()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := storedPlayer(ctx, db, args[0], analyzePick)
	if err != nil {
		return err
	}
	req := insight.Request{PlayerID: player.ID, Season: cfg.Season}
	if len(args) == 2 {
		req.Question = args[1]
	}

	svc := insight.NewService(db, llm, cfg.InsightTTL, log, nil)
	res, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	header := "─── AI Analysis ─────────────────────────────────────"
	if res.Cached {
		header = "─── AI Analysis (cached) ────────────────────────────"
	}
	fmt.Fprintln(os.Stdout, "\n"+header)
	fmt.Fprintln(os.Stdout, res.Insight)
	if len(res.Keywords) > 0 {
		fmt.Fprintf(os.Stdout, "\nKeywords: %s\n", strings.Join(res.Keywords, ", "))
	}
	fmt.Fprintln(os.Stdout, "─────────────────────────────────────────────────────")
	return nil
}

func runAnalyzeAsk(cmd *cobra.Command, args []string) error {
	llm, err := newAnthropic()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")
	err = llm.Stream(cmd.Context(), analyzeSystemPrompt, strings.Join(args, " "), os.Stdout)
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	return err
}
