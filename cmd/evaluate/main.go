package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/config"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/logging"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

type predictor interface {
	Predict(text string) (sentiment.PredictionResult, error)
}

type baseline interface {
	Score(text string) (float64, sentiment.Label)
}

type summary struct {
	Reviews int
	Agreed  int
	Failed  int
}

func (s summary) AgreementRate() float64 {
	scored := s.Reviews - s.Failed
	if scored == 0 {
		return 0
	}
	return float64(s.Agreed) / float64(scored)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [file]",
		Short: "Compare the embedding classifier with the VADER baseline",
		Long:  "Reads one review per line (markdown allowed) from a file or stdin and prints both verdicts plus the agreement rate",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvaluate,
	}
	cmd.Flags().Float64("threshold", sentiment.DefaultThreshold, "Confidence threshold for the classifier")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	threshold, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return err
	}

	p, err := sentiment.LoadPredictor(sentiment.ModelConfig{
		EmbeddingsPath:  cfg.EmbeddingsPath,
		EmbeddingDim:    cfg.EmbeddingDim,
		ClassifierPath:  cfg.ClassifierPath,
		StopwordsSource: cfg.StopwordsSource,
		Threshold:       threshold,
	})
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open reviews: %w", err)
		}
		defer f.Close()
		in = f
	}

	s, err := evaluate(in, cmd.OutOrStdout(), p, sentiment.NewLexiconBaseline())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nreviews=%d failed=%d agreement=%.1f%%\n",
		s.Reviews, s.Failed, 100*s.AgreementRate())
	return nil
}

func evaluate(r io.Reader, w io.Writer, p predictor, b baseline) (summary, error) {
	var s summary

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tCONFIDENCE\tVADER\tCOMPOUND\tREVIEW")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		s.Reviews++
		id := uuid.NewString()[:8]

		compound, vaderLabel := b.Score(text)
		result, err := p.Predict(sentiment.MarkdownToText(text))
		if err != nil {
			s.Failed++
			slog.Warn("[Evaluate] Prediction failed", slog.String("id", id), slog.String("error", err.Error()))
			fmt.Fprintf(tw, "%s\t%s\t-\t%s\t%.3f\t%s\n", id, sentiment.Error, vaderLabel, compound, preview(text))
			continue
		}
		if result.Sentiment == vaderLabel {
			s.Agreed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%s\t%.3f\t%s\n",
			id, result.Sentiment, result.Confidence, vaderLabel, compound, preview(text))
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("failed to read reviews: %w", err)
	}
	return s, tw.Flush()
}

func preview(text string) string {
	const limit = 48
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
