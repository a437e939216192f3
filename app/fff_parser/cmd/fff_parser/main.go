package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// flagconf 配置文件路径
	flagconf string
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "fff_parser",
	Short: "Decode Equifax FFF reports into per-segment warehouse tables",
	Long: `fff_parser reads raw FFF hard-pull reports from the warehouse for a range of
report months, decodes every fixed-width segment it recognises, drops candidates
that fail structural validation and appends the rest to one table per entity.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagconf, "conf", "app/fff_parser/configs/config.yaml", "config path, eg: --conf config.yaml")
	rootCmd.AddCommand(runCmd, tablesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
