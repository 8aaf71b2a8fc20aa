package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/store"
)

var seedSkipRules bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default cost centers and classification rules",
	Long:  "Upserts the default cost centers and keyword rules. Running it again refreshes them without creating duplicates.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("migrate"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := store.Migrate(ctx, st.Pool()); err != nil {
			return eris.Wrap(err, "migrate")
		}

		centers, err := st.UpsertCostCenters(ctx, model.DefaultCostCenters)
		if err != nil {
			return eris.Wrap(err, "seed cost centers")
		}
		var rules int64
		if !seedSkipRules {
			rules, err = st.UpsertClassificationRules(ctx, classify.DefaultRules())
			if err != nil {
				return eris.Wrap(err, "seed classification rules")
			}
		}

		zap.L().Info("seed complete",
			zap.Int64("cost_centers", centers),
			zap.Int64("rules", rules),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSkipRules, "skip-rules", false, "only seed cost centers")
	rootCmd.AddCommand(seedCmd)
}
