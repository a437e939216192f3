package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/assembler"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/config"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/ledger"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/logger"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/segment"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/warehouse"
)

// ReasonInvalidPeriod 运行区间缺失或格式错误
const ReasonInvalidPeriod = "INVALID_PERIOD"

// DebugFetchLimit 调试模式下最多读取的报告数
const DebugFetchLimit = 200

// Engine 核心处理引擎：读取报告、解码段、按表推送
type Engine struct {
	registry  *segment.Registry
	source    warehouse.Source
	sink      warehouse.Sink
	ledgers   *ledger.Store
	limiter   *rate.Limiter
	namespace string
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Bootstrap, source warehouse.Source, sink warehouse.Sink) *Engine {
	// 两次表写入之间的最小间隔
	limit := rate.Inf
	if cfg.Run.PushIntervalMs > 0 {
		limit = rate.Every(time.Duration(cfg.Run.PushIntervalMs) * time.Millisecond)
	}

	return &Engine{
		registry:  segment.Default(),
		source:    source,
		sink:      sink,
		ledgers:   ledger.NewStore(cfg.Ledger.Dir),
		limiter:   rate.NewLimiter(limit, 1),
		namespace: cfg.Warehouse.Namespace,
	}
}

// RunOptions 运行选项
type RunOptions struct {
	// Begin/End 报告月份 YYYY-MM，End 为空时只处理 Begin 当月
	Begin      string
	End        string
	Tables     []string
	PushHeader bool
	// Debug 只解码不写入，也不落台账
	Debug bool
	// Resume 按上次台账只推送剩余的表
	Resume           bool
	ProgressCallback func(status string, progress int)
}

// Result 一次运行的统计
type Result struct {
	RunID   string
	Reports int
	// Rows 各表解码出的行数（含头表）
	Rows    map[string]int
	Pushed  []string
	Dropped map[segment.Code]int
}

// Run 执行一次解析与推送
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	progress := func(status string, p int) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}

	// 1. 校验运行参数
	if opts.Begin == "" {
		return nil, kerrors.BadRequest(ReasonInvalidPeriod, "begin month is required")
	}
	end := opts.End
	if end == "" {
		end = opts.Begin
	}
	period, err := model.NewPeriod(opts.Begin, end)
	if err != nil {
		return nil, kerrors.BadRequest(ReasonInvalidPeriod, err.Error())
	}

	// 2. 确定本次处理的表与台账
	book, err := e.openLedger(opts, period)
	if err != nil {
		return nil, err
	}
	if book.Done() {
		logger.Log.Infof("区间 %s 已全部推送，无需续跑", period)
		return &Result{RunID: book.RunID}, nil
	}
	tables, err := e.registry.Select(tableNames(book.NeedPushed))
	if err != nil {
		return nil, err
	}
	pushHeader := slices.Contains(book.NeedPushed, ledger.Header)
	logger.Log.Infof("开始处理区间 %s，运行 ID %s，目标表 %d 张，推送头表: %v", period, book.RunID, len(tables), pushHeader)
	progress("starting", 0)

	// 3. 读取报告
	reports, err := e.source.FetchReports(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports for %s: %w", period, err)
	}
	logger.Log.Infof("区间 %s 读取到 %d 份报告", period, len(reports))
	progress("fetched", 10)

	// 4. 解码
	asm := assembler.New(e.registry, tables)
	for i, r := range reports {
		if err := asm.Add(r); err != nil {
			return nil, err
		}
		if (i+1)%1000 == 0 {
			logger.Log.Debugf("已解码 %d/%d 份报告", i+1, len(reports))
		}
	}
	for code, n := range asm.Dropped() {
		logger.Log.Debugf("段 %s 丢弃 %d 条未通过校验的候选", code, n)
	}
	progress("decoded", 50)

	res := &Result{
		RunID:   book.RunID,
		Reports: asm.Reports(),
		Rows:    make(map[string]int, len(tables)+1),
		Dropped: asm.Dropped(),
	}

	// 5. 按表推送，头表最后
	type job struct {
		name   string
		table  model.TableID
		schema model.Schema
		rows   []model.Row
	}
	var jobs []job
	for _, b := range asm.Batches() {
		jobs = append(jobs, job{b.Table.Name, b.Table.Identifier(e.namespace), b.Schema(), b.Rows()})
	}
	if pushHeader {
		jobs = append(jobs, job{ledger.Header, assembler.HeaderTable(e.namespace), asm.HeaderSchema(), asm.HeaderRows()})
	}

	for i, j := range jobs {
		res.Rows[j.name] = len(j.rows)
		if !book.Pending(j.name) {
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			e.saveLedger(book, opts.Debug)
			return res, err
		}
		if err := e.push(ctx, j.table, j.schema, j.rows, opts.Debug); err != nil {
			e.saveLedger(book, opts.Debug)
			logger.Log.Errorf("推送 %s 失败，剩余 %v 待续跑: %v", j.table, book.LeftPushed, err)
			return res, fmt.Errorf("failed to push %s: %w", j.name, err)
		}

		book.MarkPushed(j.name)
		e.saveLedger(book, opts.Debug)
		res.Pushed = append(res.Pushed, j.name)
		progress(fmt.Sprintf("pushed table: %s", j.name), 50+int(float64(i+1)/float64(len(jobs))*50))
	}

	logger.Log.Infof("区间 %s 推送完成，共 %d 份报告", period, res.Reports)
	progress("completed", 100)
	return res, nil
}

func (e *Engine) push(ctx context.Context, table model.TableID, schema model.Schema, rows []model.Row, debug bool) error {
	if len(rows) == 0 {
		logger.Log.Debugf("%s 没有记录，跳过写入", table)
		return nil
	}
	if debug {
		logger.Log.Infof("[debug] %s 共 %d 行，未写入", table, len(rows))
		return nil
	}
	if err := e.sink.Append(ctx, table, schema, rows); err != nil {
		return err
	}
	logger.Log.Infof("%s 已写入 %d 行", table, len(rows))
	return nil
}

// openLedger 续跑时读取上次台账，否则按本次参数新建
func (e *Engine) openLedger(opts RunOptions, period model.Period) (*ledger.Ledger, error) {
	begin, end := monthKey(period.Start()), monthKey(period.End())
	if opts.Resume {
		book, err := e.ledgers.Load(begin, end)
		if err == nil {
			logger.Log.Infof("续跑运行 %s，已推送 %v，待推送 %v", book.RunID, book.AlreadyPushed, book.LeftPushed)
			return book, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logger.Log.Warnf("区间 %s 没有台账，按新运行处理", period)
	}

	tables, err := e.registry.Select(opts.Tables)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return ledger.New(begin, end, names, opts.PushHeader), nil
}

func (e *Engine) saveLedger(book *ledger.Ledger, debug bool) {
	if debug {
		return
	}
	if err := e.ledgers.Save(book); err != nil {
		logger.Log.Errorf("保存推送台账失败: %v", err)
	}
}

func tableNames(need []string) []string {
	var names []string
	for _, n := range need {
		if n != ledger.Header {
			names = append(names, n)
		}
	}
	return names
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
