// Command vecstore is a command-line interface for managing a persistent
// vector-similarity store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/liliang-cn/vecstore/pkg/core"
	"github.com/liliang-cn/vecstore/pkg/vecstore"
)

var (
	dbPath     string
	dimensions int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vecstore",
	Short: "CLI tool for a persistent vector-similarity store",
	Long:  `A command-line interface for storing fixed-dimension embeddings with metadata and running exact top-K similarity searches over them.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Vector store initialized at %s with %d dimensions\n", dbPath, dimensions)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry (generates an id unless --id is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		metadataStr, _ := cmd.Flags().GetString("metadata")
		id, _ := cmd.Flags().GetString("id")

		vector, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		metadata, err := parseMetadata(metadataStr)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		if id != "" {
			if err := store.AddWithID(ctx, id, vector, metadata); err != nil {
				return fmt.Errorf("failed to add entry: %w", err)
			}
		} else {
			id, err = store.Add(ctx, vector, metadata)
			if err != nil {
				return fmt.Errorf("failed to add entry: %w", err)
			}
		}

		fmt.Printf("Entry '%s' added successfully\n", id)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get an entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		return printJSON(entry)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("Entry '%s' deleted\n", args[0])
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for the entries most similar to one or more query vectors",
	Long: `Runs an exact similarity search for each --vector given. Multiple
queries execute concurrently; the engine's readers never block each other.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStrs, _ := cmd.Flags().GetStringArray("vector")
		limit, _ := cmd.Flags().GetInt("limit")

		if len(vectorStrs) == 0 {
			return fmt.Errorf("at least one --vector is required")
		}

		queries := make([]core.Embedding, len(vectorStrs))
		for i, s := range vectorStrs {
			q, err := parseVector(s)
			if err != nil {
				return err
			}
			queries[i] = q
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		results := make([][]core.SearchResult, len(queries))
		g, ctx := errgroup.WithContext(context.Background())
		for i, q := range queries {
			g.Go(func() error {
				res, err := store.SearchN(ctx, q, limit)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		for i, res := range results {
			if len(queries) > 1 {
				fmt.Printf("query %d:\n", i)
			}
			for _, r := range res {
				fmt.Printf("  %s  score=%.6f\n", r.ID, r.Score)
				if verbose {
					if err := printJSON(r); err != nil {
						return err
					}
				}
			}
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entry ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.GetAll(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		for _, e := range entries {
			if verbose {
				if err := printJSON(e); err != nil {
					return err
				}
			} else {
				fmt.Println(e.ID)
			}
		}
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(context.Background())
		if err != nil {
			return fmt.Errorf("failed to count entries: %w", err)
		}

		fmt.Println(n)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		return printJSON(stats)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Write a compressed snapshot of all entries to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create dump file: %w", err)
		}
		defer f.Close()

		stats, err := store.Dump(context.Background(), f)
		if err != nil {
			return fmt.Errorf("dump failed: %w", err)
		}

		fmt.Printf("Dumped %d entries (%d bytes) to %s\n", stats.Entries, stats.BytesWritten, args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replay a snapshot file into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dump file: %w", err)
		}
		defer f.Close()

		stats, err := store.Restore(context.Background(), f)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %d entries (%d skipped)\n", stats.Entries, stats.Failed)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the store's search tunables",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current tunables",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("default_limit=%d\nsimilarity_threshold=%g\n",
			store.DefaultLimit(), store.SimilarityThreshold())
		return nil
	},
}

var configSetLimitCmd = &cobra.Command{
	Use:   "set-limit <n>",
	Short: "Set the default search result limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid limit: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetDefaultLimit(n); err != nil {
			return err
		}

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		settings.DefaultLimit = &n
		if err := saveSettings(settings); err != nil {
			return err
		}

		fmt.Printf("default_limit=%d\n", n)
		return nil
	},
}

var configSetThresholdCmd = &cobra.Command{
	Use:   "set-threshold <t>",
	Short: "Set the similarity threshold (0.0 to 1.0)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid threshold: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetSimilarityThreshold(t); err != nil {
			return err
		}

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		settings.SimilarityThreshold = &t
		if err := saveSettings(settings); err != nil {
			return err
		}

		fmt.Printf("similarity_threshold=%g\n", t)
		return nil
	},
}

func openStore() (*vecstore.Store, error) {
	opts := []vecstore.Option{}
	if verbose {
		opts = append(opts, vecstore.WithLogger(core.NewStdLogger(core.LevelDebug)))
	}

	store, err := vecstore.Open(vecstore.DefaultConfig(dbPath, dimensions), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := applySettings(store); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// settingsFileName holds the CLI-set tunables next to the database. The
// engine keeps tunables per instance and in memory only, so the CLI persists
// them itself to make config set-limit/set-threshold stick between
// invocations.
const settingsFileName = "config.json"

type cliSettings struct {
	DefaultLimit        *int     `json:"defaultLimit,omitempty"`
	SimilarityThreshold *float64 `json:"similarityThreshold,omitempty"`
}

func settingsPath() string {
	return filepath.Join(dbPath, settingsFileName)
}

func loadSettings() (cliSettings, error) {
	var s cliSettings

	data, err := os.ReadFile(settingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("invalid settings file %s: %w", settingsPath(), err)
	}
	return s, nil
}

func saveSettings(s cliSettings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(settingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func applySettings(store *vecstore.Store) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	if s.DefaultLimit != nil {
		if err := store.SetDefaultLimit(*s.DefaultLimit); err != nil {
			return err
		}
	}
	if s.SimilarityThreshold != nil {
		if err := store.SetSimilarityThreshold(*s.SimilarityThreshold); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parseVector(s string) (core.Embedding, error) {
	if s == "" {
		return nil, fmt.Errorf("vector is required")
	}

	parts := strings.Split(s, ",")
	vector := make(core.Embedding, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector format: %w", err)
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

func parseMetadata(s string) (core.Metadata, error) {
	if s == "" {
		return nil, nil
	}

	var metadata core.Metadata
	if err := json.Unmarshal([]byte(s), &metadata); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON: %w", err)
	}
	return metadata, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./vecstore-data", "store directory path")
	rootCmd.PersistentFlags().IntVar(&dimensions, "dimensions", 384, "embedding dimensions")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addCmd.Flags().String("id", "", "entry id (optional, generated when empty)")
	addCmd.Flags().String("vector", "", "comma-separated vector components")
	addCmd.Flags().String("metadata", "", "metadata as a JSON object")

	searchCmd.Flags().StringArray("vector", nil, "comma-separated query vector (repeatable)")
	searchCmd.Flags().Int("limit", -1, "maximum results per query (-1 uses the store default)")

	configCmd.AddCommand(configShowCmd, configSetLimitCmd, configSetThresholdCmd)
	rootCmd.AddCommand(initCmd, addCmd, getCmd, deleteCmd, searchCmd, listCmd, countCmd, statsCmd, dumpCmd, restoreCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
