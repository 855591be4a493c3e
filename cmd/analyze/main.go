package main

// Dev tool: run the analyzer and augmenter over a local text file.
//   go run ./cmd/analyze -file notes.txt -title "Meeting notes"

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"content-backend/internal/analysis"
	"content-backend/internal/llm"
	"content-backend/internal/llm/gemini"
	"content-backend/internal/llm/openai"
	"content-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to a text file to analyze")
	title := flag.String("title", "", "Content title (defaults to file name)")
	contentType := flag.String("type", "document", "Content type label")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read file: %v", err))
	}

	name := *title
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(*filePath)
	}

	client, err := buildClient(*provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	ctx := context.Background()
	in := analysis.Input{Title: name, ContentType: *contentType}

	analyzer := &analysis.Analyzer{LLM: client, Model: *model}
	result := analyzer.Analyze(ctx, string(data), in)

	augmenter := &analysis.Augmenter{LLM: client, Model: *model}
	result.ActionItems = augmenter.Augment(ctx, result, in)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("marshal result: %v", err))
	}
	fmt.Println(string(out))
}

func buildClient(provider, model string) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini":
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(context.Background(), apiKey, model)
	case "none":
		return &llm.PlaceholderClient{}, nil
	default:
		apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return openai.NewClient(apiKey, model)
	}
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
