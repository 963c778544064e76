package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/contentops/content-tracker/internal/config"
	"github.com/contentops/content-tracker/internal/content"
	"github.com/contentops/content-tracker/internal/document"
	"github.com/contentops/content-tracker/internal/index"
	"github.com/contentops/content-tracker/internal/sync"
	"github.com/contentops/content-tracker/internal/tracker"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing directories: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	svc, idx, err := buildService(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}
	defer idx.Close()

	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "rebuild":
		runRebuild(ctx, svc)
	case "search":
		searchFlags := flag.NewFlagSet("search", flag.ExitOnError)
		contentType := searchFlags.String("type", "", "Filter by content type")
		status := searchFlags.String("status", "", "Filter by status")
		tag := searchFlags.String("tag", "", "Filter by tag")
		client := searchFlags.String("client", "", "Filter by client")
		limit := searchFlags.Int("limit", 20, "Maximum results")
		offset := searchFlags.Int("offset", 0, "Pagination offset")
		searchFlags.Parse(os.Args[2:])

		f := index.Filter{Limit: *limit, Offset: *offset, Client: *client}
		if *contentType != "" {
			f.ContentTypes = []string{*contentType}
		}
		if *status != "" {
			f.Statuses = []string{*status}
		}
		if *tag != "" {
			f.Tags = []string{*tag}
		}
		if searchFlags.NArg() > 0 {
			f.Query = searchFlags.Arg(0)
		}
		runSearch(ctx, svc, f)
	case "get":
		if len(os.Args) < 3 {
			fmt.Println("Error: content id required")
			fmt.Println("Usage: content-tracker get <id>")
			os.Exit(1)
		}
		runGet(ctx, svc, os.Args[2])
	case "stats":
		runStats(ctx, svc, idx)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Content Tracker - markdown content library with a searchable index")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  content-tracker <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  rebuild                  Rebuild the search index from all markdown files")
	fmt.Println("  search [flags] [query]   Search and filter content items")
	fmt.Println("  get <id>                 Print a content item, including its body")
	fmt.Println("  stats                    Show index statistics")
	fmt.Println()
	fmt.Println("Search Flags:")
	fmt.Println("  -type=<type>      Filter by content type")
	fmt.Println("  -status=<status>  Filter by status")
	fmt.Println("  -tag=<tag>        Filter by tag")
	fmt.Println("  -client=<client>  Filter by client")
	fmt.Println("  -limit=<n>        Maximum results (default 20)")
	fmt.Println("  -offset=<n>       Pagination offset")
	fmt.Println()
	fmt.Println("Configuration comes from the environment (or a .env file):")
	fmt.Println("  CONTENT_LIBRARY_PATH  Root of the markdown library (default ./content_library)")
	fmt.Println("  CONTENT_INDEX_PATH    SQLite index file (default ./data/content_index.db)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  content-tracker rebuild")
	fmt.Println("  content-tracker search seo")
	fmt.Println("  content-tracker search -type=blog -status=published")
	fmt.Println("  content-tracker get 6f1f3d2a-8c7e-4e2b-9f53-0f6f5ad1c001")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildService(cfg config.Config, log *zap.Logger) (*tracker.Service, *index.DB, error) {
	docs := document.NewStore(cfg.LibraryPath, cfg.ContentTypes)
	idx, err := index.Open(cfg.IndexPath, index.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	syncer := sync.NewSyncer(docs, idx, log)
	return tracker.NewService(docs, idx, syncer, log), idx, nil
}

func runRebuild(ctx context.Context, svc *tracker.Service) {
	fmt.Println("Rebuilding index from content library...")
	count, err := svc.Rebuild(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rebuilding index: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d items\n", count)
}

func runSearch(ctx context.Context, svc *tracker.Service, f index.Filter) {
	items, total, err := svc.Search(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		os.Exit(1)
	}

	if total == 0 {
		fmt.Println("No results found")
		return
	}

	fmt.Printf("Showing %d of %d results:\n\n", len(items), total)
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item.Title)
		fmt.Printf("   ID: %s\n", item.ID)
		fmt.Printf("   Type: %s  Status: %s  Updated: %s\n", item.ContentType, item.Status, item.UpdatedDate)
		if item.Client != "" {
			fmt.Printf("   Client: %s\n", item.Client)
		}
		if len(item.Tags) > 0 {
			fmt.Printf("   Tags: %v\n", item.Tags)
		}
		fmt.Println()
	}
}

func runGet(ctx context.Context, svc *tracker.Service, id string) {
	item, err := svc.Get(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		fmt.Printf("Content item not found: %s\n", id)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading item: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Title:   %s\n", item.Title)
	fmt.Printf("Type:    %s\n", item.ContentType)
	fmt.Printf("Status:  %s\n", item.Status)
	fmt.Printf("Created: %s  Updated: %s\n", item.CreatedDate, item.UpdatedDate)
	fmt.Printf("File:    %s\n", item.FilePath)
	fmt.Println()
	fmt.Println(item.Body)
}

func runStats(ctx context.Context, svc *tracker.Service, idx *index.DB) {
	count, err := idx.Count(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting index count: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Index Statistics ===")
	fmt.Printf("Indexed items: %d\n", count)

	for _, field := range []string{"content_type", "status", "client"} {
		values, err := svc.FilterOptions(ctx, field)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing %s values: %v\n", field, err)
			os.Exit(1)
		}
		fmt.Printf("%-13s %v\n", field+":", values)
	}
}
