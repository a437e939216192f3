package config

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/errors"
)

// ReasonInvalidConfig 配置项缺失或取值非法
const ReasonInvalidConfig = "INVALID_CONFIG"

// 支持的仓库驱动
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBigQuery = "bigquery"
)

// Bootstrap 项目配置结构体
type Bootstrap struct {
	Log       *Log       `json:"log"`
	Warehouse *Warehouse `json:"warehouse"`
	Run       *Run       `json:"run"`
	Ledger    *Ledger    `json:"ledger"`
}

// Log 日志相关配置
type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Warehouse 数据仓库配置，报告来源表与段表写入同一个仓库
type Warehouse struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// DSN 非空时优先于 host/port 等字段；sqlite 下为数据库文件路径
	DSN string `json:"dsn"`
	// Project/Dataset 仅 bigquery 使用
	Project     string `json:"project"`
	Dataset     string `json:"dataset"`
	SourceTable string `json:"source_table"`
	// Namespace 段表所在的 schema 或 dataset，bigquery 下默认等于 Dataset
	Namespace  string `json:"namespace"`
	FetchLimit int    `json:"fetch_limit"`
}

// Run 单次运行的默认参数，可被命令行覆盖
type Run struct {
	Tables         []string `json:"tables"`
	PushHeader     *bool    `json:"push_header"`
	PushIntervalMs int      `json:"push_interval_ms"`
}

// Ledger 推送台账配置
type Ledger struct {
	Dir string `json:"dir"`
}

// ShouldPushHeader 未配置时默认推送报告头表
func (r *Run) ShouldPushHeader() bool {
	return r.PushHeader == nil || *r.PushHeader
}

// PostgresDSN 由配置拼出 lib/pq 连接串
func (w *Warehouse) PostgresDSN() string {
	if w.DSN != "" {
		return w.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		w.Host, w.Port, w.User, w.Password, w.Name)
}

// Load 从指定路径加载配置并补全默认值
func Load(path string) (*Bootstrap, error) {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, fmt.Errorf("failed to scan config %s: %w", path, err)
	}
	bc.setDefaults()
	return &bc, nil
}

func (b *Bootstrap) setDefaults() {
	if b.Log == nil {
		b.Log = &Log{}
	}
	if b.Log.Level == "" {
		b.Log.Level = "info"
	}
	if b.Warehouse == nil {
		b.Warehouse = &Warehouse{}
	}
	if b.Warehouse.Driver == "" {
		b.Warehouse.Driver = DriverPostgres
	}
	if b.Warehouse.Port == 0 && b.Warehouse.Driver == DriverPostgres {
		b.Warehouse.Port = 5432
	}
	if b.Warehouse.SourceTable == "" {
		b.Warehouse.SourceTable = "fff_reports"
	}
	if b.Warehouse.Namespace == "" && b.Warehouse.Driver == DriverBigQuery {
		b.Warehouse.Namespace = b.Warehouse.Dataset
	}
	if b.Run == nil {
		b.Run = &Run{}
	}
	if b.Ledger == nil {
		b.Ledger = &Ledger{}
	}
	if b.Ledger.Dir == "" {
		b.Ledger.Dir = "data/ledger"
	}
}

// Validate 在处理任何报告之前检查配置，错误均为 INVALID_CONFIG
func (b *Bootstrap) Validate() error {
	w := b.Warehouse
	switch w.Driver {
	case DriverPostgres:
		if w.DSN == "" && w.Host == "" {
			return invalid("warehouse.host or warehouse.dsn is required for postgres")
		}
	case DriverSQLite:
		if w.DSN == "" {
			return invalid("warehouse.dsn is required for sqlite")
		}
	case DriverBigQuery:
		if w.Project == "" || w.Dataset == "" {
			return invalid("warehouse.project and warehouse.dataset are required for bigquery")
		}
	default:
		return invalid("unsupported warehouse.driver %q", w.Driver)
	}
	if w.FetchLimit < 0 {
		return invalid("warehouse.fetch_limit must not be negative")
	}
	if b.Run.PushIntervalMs < 0 {
		return invalid("run.push_interval_ms must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.BadRequest(ReasonInvalidConfig, fmt.Sprintf(format, args...))
}
