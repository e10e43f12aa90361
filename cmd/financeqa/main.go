package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financeqa/internal/agent"
	"financeqa/internal/classify"
	"financeqa/internal/config"
	"financeqa/internal/dataset"
	"financeqa/internal/domain"
	"financeqa/internal/embedding"
	"financeqa/internal/eval"
	"financeqa/internal/index"
	"financeqa/internal/llm"
	"financeqa/internal/report"
	"financeqa/internal/retrieval"
	"financeqa/internal/rules"
	"financeqa/internal/runner"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  = flag.String("config", "", "Path to YAML config (optional; uses ~/.config/financeqa/config.yaml if not provided)")
		csvPath  = flag.String("csv", "data/financeqa_benchmark.csv", "Path to benchmark CSV")
		textbook = flag.String("textbook", "", "Path to extracted textbook text (optional)")
		subset   = flag.Int("subset", 0, "Number of questions to run (0 = all)")
		random   = flag.Bool("random", false, "Random subset instead of first N")
		seed     = flag.Int64("seed", 42, "Random seed for reproducible subsets")
		workers  = flag.Int("workers", 0, "Parallel workers (overrides config)")
		delay    = flag.Float64("delay", -1, "Seconds between a worker's model calls (overrides config)")
		output   = flag.String("output", "results.csv", "Output CSV path (empty to skip)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *workers > 0 {
		cfg.Run.Workers = *workers
	}
	if *delay >= 0 {
		cfg.Run.DelaySecs = *delay
	}

	questions, err := dataset.Load(*csvPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	questions = dataset.Subset(questions, *subset, *random, *seed)
	logger.Info("dataset loaded", "questions", len(questions))

	raw := ""
	if *textbook != "" {
		data, err := os.ReadFile(*textbook)
		if err != nil {
			log.Fatalf("failed to read textbook: %v", err)
		}
		raw = string(data)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = embedding.NewTFIDFEmbedder()
	case "openai":
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var notes []index.Note
	for _, n := range rules.Methodology() {
		notes = append(notes, index.Note{Text: n.Text, Section: n.Topic})
	}
	idx, err := index.Build(raw, index.Options{
		ChunkSize: cfg.Index.ChunkSize,
		Notes:     notes,
		Embedder:  emb,
	})
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}
	logger.Info("index built", "chunks", idx.Len(), "embedder", emb.Name())

	completer, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.Model.BaseURL,
		APIKeyEnv:   cfg.Model.APIKeyEnv,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     time.Duration(cfg.Model.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("model client init failed: %v", err)
	}

	ag := agent.New(
		classify.New(completer),
		retrieval.NewRetriever(idx, cfg.Retrieval.MinScore),
		rules.NewEngine(),
		completer,
		agent.Options{TopK: cfg.Retrieval.TopK, Logger: logger},
	)
	evaluator := &eval.Evaluator{EpsilonAbs: cfg.Eval.EpsilonAbs, EpsilonRel: cfg.Eval.EpsilonRel}
	run := runner.New(ag, evaluator, runner.Options{
		Workers:     cfg.Run.Workers,
		Delay:       time.Duration(cfg.Run.DelaySecs * float64(time.Second)),
		MaxAttempts: cfg.Run.MaxAttempts,
		RetryBase:   time.Duration(cfg.Run.RetryBaseSecs * float64(time.Second)),
		RetryCap:    time.Duration(cfg.Run.RetryCapSecs * float64(time.Second)),
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outcomes := run.Run(ctx, questions)

	summary := report.Summarize(outcomes)
	summary.Elapsed = time.Since(start)
	summary.Workers = cfg.Run.Workers
	if err := report.Write(os.Stdout, summary); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create %s: %v", *output, err)
		}
		if err := report.WriteCSV(f, outcomes); err != nil {
			f.Close()
			log.Fatalf("failed to write %s: %v", *output, err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("failed to close %s: %v", *output, err)
		}
		logger.Info("results saved", "path", *output)
	}
}
