package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/config"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/engine"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/logger"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/warehouse"
)

var (
	runBegin      string
	runEnd        string
	runTables     []string
	runPushHeader bool
	runDebug      bool
	runResume     bool
)

// runCmd 解析一个月份区间的报告并推送
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Decode and push one month or a range of months",
	Example: `  fff_parser run --begin 2024-03
  fff_parser run --begin 2024-01 --end 2024-03 --tables address,name
  fff_parser run --begin 2024-03 --resume`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBegin, "begin", "", "first report month, YYYY-MM")
	runCmd.Flags().StringVar(&runEnd, "end", "", "last report month, YYYY-MM (defaults to --begin)")
	runCmd.Flags().StringSliceVar(&runTables, "tables", nil, "destination tables to decode (defaults to all active tables)")
	runCmd.Flags().BoolVar(&runPushHeader, "push-header", true, "also push the report header summary table")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "fetch at most 200 reports and log instead of appending")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "push only the tables left by the previous run of this range")
	_ = runCmd.MarkFlagRequired("begin")
}

func runRun(cmd *cobra.Command, args []string) error {
	// 1. 加载配置
	cfg, err := config.Load(flagconf)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	logger.Log.Info("启动 FFF 解析...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 连接仓库
	opts := warehouse.Options{Limit: cfg.Warehouse.FetchLimit}
	if runDebug {
		opts.Limit = engine.DebugFetchLimit
	}
	wh, err := warehouse.Open(ctx, cfg.Warehouse, opts)
	if err != nil {
		return fmt.Errorf("无法连接仓库: %w", err)
	}
	defer wh.Close()
	logger.Log.Infof("已连接 %s 仓库", cfg.Warehouse.Driver)

	// 4. 运行
	tables := runTables
	if !cmd.Flags().Changed("tables") {
		tables = cfg.Run.Tables
	}
	pushHeader := runPushHeader
	if !cmd.Flags().Changed("push-header") {
		pushHeader = cfg.Run.ShouldPushHeader()
	}

	e := engine.NewEngine(cfg, wh, wh)
	res, err := e.Run(ctx, engine.RunOptions{
		Begin:      runBegin,
		End:        runEnd,
		Tables:     tables,
		PushHeader: pushHeader,
		Debug:      runDebug,
		Resume:     runResume,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d reports, pushed [%s]\n", res.RunID, res.Reports, strings.Join(res.Pushed, ", "))
	return nil
}
