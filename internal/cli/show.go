package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"
	"github.com/pfrederiksen/fix-tags/internal/storage"
	"github.com/pfrederiksen/fix-tags/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var flagOutput string

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show VERSION [TAG...]",
		Short: "Print tags from a previously saved dictionary file",
		Long: `Reads fix_{VERSION} from the output directory and prints its entries.
With --db, the entries are read from that SQLite database instead.
With TAG arguments, only those tags are printed; unknown tags are listed as
(unknown) and make the command fail.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShow,
	}

	cmd.Flags().StringVar(&flagOutput, "output", string(FormatText), "Output format: text or json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	output := OutputFormat(strings.ToLower(flagOutput))
	if output != FormatText && output != FormatJSON {
		return fmt.Errorf("invalid output: %s (must be 'text' or 'json')", flagOutput)
	}

	version := args[0]
	tags := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		tag, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid tag %q: must be an integer", arg)
		}
		tags = append(tags, tag)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var mapping dictionary.VersionMapping
	if cfg.DB != "" {
		mapping, err = loadFromDB(cmd.Context(), cfg.DB, version, tags)
	} else {
		format, _ := storage.ParseFormat(cfg.Format)
		mapping, err = storage.New(cfg.OutputDir, format).Load(version)
	}
	if err != nil {
		return fmt.Errorf("loading mapping: %w", err)
	}

	result := NewOutputResult(version, mapping, tags)
	if err := WriteOutput(cmd.OutOrStdout(), result, output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(result.Missing) > 0 {
		return fmt.Errorf("%d tag(s) not found in FIX %s", len(result.Missing), version)
	}
	return nil
}

// loadFromDB reads a version from the SQLite sink. With tags, only those rows
// are fetched; the returned mapping then omits tags the database lacks.
func loadFromDB(ctx context.Context, path, version string, tags []int) (dictionary.VersionMapping, error) {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	n, err := db.Count(ctx, version)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("FIX %s not found in %s", version, db.Path())
	}

	if len(tags) == 0 {
		return db.Load(ctx, version)
	}

	mapping := make(dictionary.VersionMapping, len(tags))
	for _, tag := range tags {
		name, ok, err := db.Lookup(ctx, version, tag)
		if err != nil {
			return nil, err
		}
		if ok {
			mapping[tag] = name
		}
	}
	return mapping, nil
}
