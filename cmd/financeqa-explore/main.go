package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"financeqa/internal/config"
	"financeqa/internal/embedding"
	"financeqa/internal/index"
	"financeqa/internal/retrieval"
	"financeqa/internal/rules"
	"financeqa/internal/summarizer"
	"financeqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	topK := flag.Int("k", 10, "Passages per query")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: financeqa-explore [--config=financeqa.yaml] textbook.txt [more.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	raw := ""
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}
		if raw != "" {
			raw += "\n\n"
		}
		raw += string(data)
	}

	var notes []index.Note
	for _, n := range rules.Methodology() {
		notes = append(notes, index.Note{Text: n.Text, Section: n.Topic})
	}
	idx, err := index.Build(raw, index.Options{
		ChunkSize: cfg.Index.ChunkSize,
		Notes:     notes,
		Embedder:  embedding.NewTFIDFEmbedder(),
	})
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}

	overview := summarizer.New().Overview(idx.Chunks(), 5)
	m := tui.New(retrieval.NewRetriever(idx, cfg.Retrieval.MinScore), overview, *topK)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
