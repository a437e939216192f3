package warehouse

import (
	"context"
	"fmt"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/config"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

// Source 报告来源：按月份区间读取原始报告
type Source interface {
	// FetchReports 返回 file_date 落在区间内的报告，按业务伙伴、日期排序
	// 内容为空或不含正文标记的行被静默跳过
	FetchReports(ctx context.Context, period model.Period) ([]*model.Report, error)
}

// Sink 段表写入端，只追加不去重
type Sink interface {
	Append(ctx context.Context, table model.TableID, schema model.Schema, rows []model.Row) error
}

// Warehouse 同时作为来源与写入端的仓库连接
type Warehouse interface {
	Source
	Sink
	Close() error
}

// Options 打开仓库时的运行期参数
type Options struct {
	// Limit 单次最多读取的报告行数，0 表示不限
	Limit int
}

// Open 根据配置创建对应驱动的仓库
func Open(ctx context.Context, cfg *config.Warehouse, opts Options) (Warehouse, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewSQL(ctx, Postgres, cfg.PostgresDSN(), cfg.SourceTable, opts)
	case config.DriverSQLite:
		return NewSQL(ctx, SQLite, cfg.DSN, cfg.SourceTable, opts)
	case config.DriverBigQuery:
		return NewBigQuery(ctx, cfg.Project, cfg.Dataset, cfg.SourceTable, opts)
	default:
		return nil, fmt.Errorf("unsupported warehouse driver: %s", cfg.Driver)
	}
}
