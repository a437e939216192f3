package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Header 报告头汇总表在台账中的名称
const Header = "header"

// Ledger 一次运行的推送台账：应推、已推、待推的表
// 写入失败后据此续跑，只推送剩余的表
type Ledger struct {
	RunID         string    `yaml:"run_id"`
	Begin         string    `yaml:"begin"`
	End           string    `yaml:"end"`
	CreatedAt     time.Time `yaml:"created_at"`
	UpdatedAt     time.Time `yaml:"updated_at"`
	NeedPushed    []string  `yaml:"need_pushed"`
	AlreadyPushed []string  `yaml:"already_pushed"`
	LeftPushed    []string  `yaml:"left_pushed"`
}

// New 为一次新运行建台账，pushHeader 为真时头表排在最后
func New(begin, end string, tables []string, pushHeader bool) *Ledger {
	need := slices.Clone(tables)
	if pushHeader {
		need = append(need, Header)
	}
	now := time.Now()
	return &Ledger{
		RunID:         uuid.NewString(),
		Begin:         begin,
		End:           end,
		CreatedAt:     now,
		UpdatedAt:     now,
		NeedPushed:    need,
		AlreadyPushed: []string{},
		LeftPushed:    slices.Clone(need),
	}
}

// MarkPushed 记录一张表已写入
func (l *Ledger) MarkPushed(name string) {
	i := slices.Index(l.LeftPushed, name)
	if i < 0 {
		return
	}
	l.LeftPushed = slices.Delete(l.LeftPushed, i, i+1)
	l.AlreadyPushed = append(l.AlreadyPushed, name)
	l.UpdatedAt = time.Now()
}

// Pending 该表是否仍待推送
func (l *Ledger) Pending(name string) bool {
	return slices.Contains(l.LeftPushed, name)
}

// Done 是否已全部推送
func (l *Ledger) Done() bool {
	return len(l.LeftPushed) == 0
}

// Store 以 YAML 文件保存台账，按运行区间区分
type Store struct {
	dir string
}

// NewStore 创建台账目录存储
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path 区间对应的台账文件
func (s *Store) Path(begin, end string) string {
	return filepath.Join(s.dir, fmt.Sprintf("fff_%s_%s.yaml", begin, end))
}

// Save 先写临时文件再改名，避免中断时留下半个文件
func (s *Store) Save(l *Ledger) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	path := s.Path(l.Begin, l.End)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load 读取区间的台账，不存在时返回的错误满足 errors.Is(err, os.ErrNotExist)
func (s *Store) Load(begin, end string) (*Ledger, error) {
	data, err := os.ReadFile(s.Path(begin, end))
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	var l Ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return &l, nil
}
