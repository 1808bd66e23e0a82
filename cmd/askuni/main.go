// Package main is the AskUni CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/cli"
	"github.com/campushq/askuni/internal/config"
	"github.com/campushq/askuni/internal/feedback"
	"github.com/campushq/askuni/internal/generate"
	"github.com/campushq/askuni/internal/loader"
	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/retrieval"
	"github.com/campushq/askuni/internal/server"
	"github.com/campushq/askuni/internal/watcher"
	"github.com/campushq/askuni/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/askuni/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "askuni server" from the project dir uses the project's
// config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "query":
		runQuery()
	case "feedback":
		runFeedback()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("askuni version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Ledger       *feedback.Ledger
	Orchestrator *retrieval.Orchestrator
	Generator    server.Generator
}

func (c *Components) Close() {
	if c.Orchestrator != nil {
		_ = c.Orchestrator.Close()
	}
	if c.Ledger != nil {
		_ = c.Ledger.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ledger := feedback.Open(cfg.Storage.LedgerPath, logger)

	load := func() ([]models.Collection, []*models.InstructionPair, error) {
		collections, err := loader.LoadCollections(cfg.Storage.DatasetDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("load collections: %w", err)
		}
		// The instruction collection is optional; a deployment without one
		// runs on the main corpus alone.
		var pairs []*models.InstructionPair
		if _, statErr := os.Stat(cfg.Storage.InstructionFile); statErr == nil {
			pairs, err = loader.LoadInstructionPairs(cfg.Storage.InstructionFile, logger)
			if err != nil {
				return nil, nil, fmt.Errorf("load instruction pairs: %w", err)
			}
		}
		return collections, pairs, nil
	}

	orch, err := retrieval.New(load, &cfg.Retrieval.Weights, ledger, cfg.Retrieval.MaxReferences, logger)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	var gen server.Generator
	if cfg.Generation.Enabled {
		gen = generate.New(os.Getenv(cfg.Generation.APIKeyEnv), cfg.Generation.BaseURL, cfg.Generation.Model)
		logger.Info("generation fallback enabled",
			zap.String("model", cfg.Generation.Model),
			zap.String("base_url", cfg.Generation.BaseURL))
	}

	return &Components{Ledger: ledger, Orchestrator: orch, Generator: gen}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		orch := components.Orchestrator
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(cfg.Storage.DatasetDir, func() {
			if err := orch.Rebuild(); err != nil {
				logger.Warn("watch rebuild failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(components.Orchestrator, components.Generator, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuestion joins all positional args with spaces so multi-word
// questions work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// queryArgsReorder moves any flags (and their values) that appear after the
// question to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument.
func queryArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runQuery() {
	queryArgs := queryArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without a server)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(queryArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: askuni query [flags] <question>")
		os.Exit(1)
	}
	question := buildQuestion(fs.Args())
	if question == "" {
		fmt.Println("Usage: askuni query [flags] <question>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a SQLite
		// lock conflict on the ledger).
		resp, err := queryViaHTTP(*serverURL, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteQueryResult(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Local mode: build the engine in-process.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	result := components.Orchestrator.Retrieve(context.Background(), question)
	resp := &models.QueryResponse{
		Answer:     result.Answer,
		Score:      result.Score,
		Method:     result.Method,
		Source:     result.Source,
		Department: result.Department,
		Categories: result.Categories,
		References: result.References,
	}
	if result.DeferToGeneration && components.Generator != nil {
		hint, _ := components.Ledger.MatchingPattern(primaryCategory(result.Categories))
		answer, genErr := components.Generator.Generate(context.Background(), question, result.References, hint)
		if genErr != nil {
			logger.Warn("generation failed", zap.Error(genErr))
		} else {
			resp.Answer = answer
			resp.Generated = true
		}
	}
	if err := cli.WriteQueryResult(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func primaryCategory(categories []string) string {
	if len(categories) == 0 {
		return "general"
	}
	return categories[0]
}

func queryViaHTTP(serverURL, question string) (*models.QueryResponse, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/query", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runFeedback() {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	question := fs.String("question", "", "the question that was asked")
	answer := fs.String("answer", "", "the answer being judged")
	verdict := fs.String("verdict", "", "accepted or rejected")
	_ = fs.Parse(os.Args[2:])

	if *question == "" || *answer == "" || *verdict == "" {
		fmt.Println("Usage: askuni feedback -question <q> -answer <a> -verdict <accepted|rejected>")
		os.Exit(1)
	}
	if _, err := models.ParseVerdict(*verdict); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	body, _ := json.Marshal(map[string]string{
		"question": *question,
		"answer":   *answer,
		"verdict":  *verdict,
	})
	resp, err := http.Post(*serverURL+"/api/v1/feedback", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Feedback failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Status string               `json:"status"`
		Stats  models.LearningStats `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Feedback %s. Ledger: %d total (%d accepted, %d rejected)\n",
		out.Status, out.Stats.Total, out.Stats.Accepted, out.Stats.Rejected)
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	resp, err := http.Get(*serverURL + "/api/v1/stats")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Stats failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStats(os.Stdout, stats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`askuni - University Q/A retrieval and feedback engine

Usage:
  askuni server [flags]             Start the HTTP server
  askuni query [flags] <question>   Ask a question
  askuni feedback [flags]           Record a verdict on a served answer
  askuni stats [flags]              Show corpus and feedback stats
  askuni version                    Show version
  askuni help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/askuni/config.yaml)
  --debug            Enable debug logging

Query Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer locally without a server.
  --output string    Output format: text or json (default: text)

Feedback Flags:
  --server string    Server URL (default: http://localhost:8080)
  --question string  The question that was asked
  --answer string    The answer being judged
  --verdict string   accepted or rejected

Stats Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Examples:
  askuni server
  askuni query what are the admission requirements
  askuni query --output json "semester fee for cse"
  askuni feedback -question "semester fee for cse" -answer "..." -verdict rejected
  askuni stats`)
}
