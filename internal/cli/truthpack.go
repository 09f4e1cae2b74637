package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truthgate/internal/truthpack"
)

var tpDir string

// truthpackCmd groups truthpack inspection subcommands
var truthpackCmd = &cobra.Command{
	Use:   "truthpack",
	Short: "Inspect the ground-truth snapshot",
}

// truthpackShowCmd represents the truthpack show command
var truthpackShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a summary of the loaded truthpack categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadTruthpack()
		if err != nil {
			return err
		}

		fmt.Printf("Snapshot: %s\n\n", store.SnapshotID())

		summary := store.Summary()
		categories := make([]string, 0, len(summary))
		for c := range summary {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		for _, c := range categories {
			s := summary[c]
			version := s.Version
			if version == "" {
				version = "-"
			}
			fmt.Printf("%-10s  %4d entries  version %s\n", c, s.Count, version)
		}
		return nil
	},
}

// truthpackDigestCmd represents the truthpack digest command
var truthpackDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the snapshot id of the truthpack",
	Long: `Digest prints the content-addressed snapshot id of the truthpack. Two
truthpacks with the same id contain byte-equivalent category documents, so
the id is suitable for pinning results in CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadTruthpack()
		if err != nil {
			return err
		}
		fmt.Println(store.SnapshotID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(truthpackCmd)
	truthpackCmd.AddCommand(truthpackShowCmd)
	truthpackCmd.AddCommand(truthpackDigestCmd)

	truthpackCmd.PersistentFlags().StringVar(&tpDir, "truthpack", "", "truthpack directory (default from config)")
}

func loadTruthpack() (*truthpack.Store, error) {
	cfg := loadConfig()
	dir := cfg.Truthpack.Dir
	if tpDir != "" {
		dir = tpDir
	}
	store, err := truthpack.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load truthpack: %w", err)
	}
	return store, nil
}
