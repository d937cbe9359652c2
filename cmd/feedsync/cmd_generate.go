package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	generatorpkg "github.com/stormhead-org/feedsync/internal/generator"
	metricspkg "github.com/stormhead-org/feedsync/internal/metrics"
	"github.com/stormhead-org/feedsync/internal/model"
	storepkg "github.com/stormhead-org/feedsync/internal/store"
)

var generateRegion string

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "dump a generated feed pool as JSON",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateCommandImpl()
	},
}

func generateCommandImpl() error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	st := storepkg.NewStore(generatorpkg.New(), logger, metricspkg.NewNopMetrics())

	region := generateRegion
	if region == "" {
		region = model.RegionGlobal
	}
	posts := st.Read(region)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(posts)
}

func init() {
	generateCommand.Flags().StringVar(&generateRegion, "region", "", "region pool to dump (defaults to the aggregate pool)")
	rootCommand.AddCommand(generateCommand)
}
