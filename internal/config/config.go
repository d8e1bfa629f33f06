package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/John-Robertt/nfosum/internal/domain"
)

const (
	// ErrCodeInvalid 表示配置文件或参数组合不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultTitle 是报告标题兼默认产物文件名（<title>.md/html/pdf）。
	DefaultTitle = "内容汇总"
	// DefaultFormat 是输出格式的内置默认值。
	DefaultFormat = domain.FormatMarkdown
)

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息，
// 保证覆盖优先级可实现（flag > 配置文件 > 内置默认）。
type CLIArgs struct {
	Dir string

	Format    string
	FormatSet bool

	Output  string
	Open    bool
	Verbose bool
}

// Effective 是合并并做最小规范化后的最终配置
// （实现层直接消费，不再做二次默认/优先级判断）。
type Effective struct {
	Dir    string // 扫描根目录，clean + absolute
	Format string
	Output string // 显式输出路径；为空表示用 <Dir>/<Title>.<ext>
	Title  string

	ExcludeDirs []string

	Open    bool
	Verbose bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取配置文件（可选）并与 CLI 参数合并为最终配置。
//
// 配置文件：nfosum.yaml，查找顺序 ~/.config/nfosum → ~ → cwd；
// 不存在不算错误。环境变量前缀 NFOSUM_。
//
// 覆盖优先级（固定）：
// - dir：CLI 位置参数 > config path > cwd
// - format：CLI > config > md
// - title / exclude_dirs：仅由 config 控制（CLI 不暴露）
func Load(cwd string, cli CLIArgs) (Effective, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	v := viper.New()
	v.SetDefault("path", "")
	v.SetDefault("title", DefaultTitle)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("exclude_dirs", []string{})

	v.SetConfigName("nfosum")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "nfosum"))
		v.AddConfigPath(home)
	}
	v.AddConfigPath(cwdAbs)

	v.SetEnvPrefix("NFOSUM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Effective{}, &Error{Code: ErrCodeInvalid, Err: err}
		}
		// 没有配置文件：全部走默认。
	}

	// dir：CLI > config path > cwd。
	dir := cwdAbs
	if strings.TrimSpace(cli.Dir) != "" {
		dir = absCleanFrom(cwdAbs, cli.Dir)
	} else if p := strings.TrimSpace(v.GetString("path")); p != "" {
		dir = absCleanFrom(cwdAbs, expandTilde(p))
	}

	// format：CLI > config > 默认。
	format := v.GetString("format")
	if cli.FormatSet {
		format = cli.Format
	}
	if err := validateFormat(format); err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	// --open 只对超文本产物有意义。
	if cli.Open && format != domain.FormatHTML && format != domain.FormatAll {
		return Effective{}, &Error{
			Code: ErrCodeInvalid,
			Err:  fmt.Errorf("--open 只能配合 html 或 all 格式使用，当前是 %q", format),
		}
	}

	title := strings.TrimSpace(v.GetString("title"))
	if title == "" {
		title = DefaultTitle
	}

	output := strings.TrimSpace(cli.Output)
	if output != "" {
		output = absCleanFrom(cwdAbs, output)
	}

	return Effective{
		Dir:         dir,
		Format:      format,
		Output:      output,
		Title:       title,
		ExcludeDirs: append([]string(nil), v.GetStringSlice("exclude_dirs")...),
		Open:        cli.Open,
		Verbose:     cli.Verbose,
	}, nil
}

func validateFormat(f string) error {
	switch f {
	case domain.FormatMarkdown, domain.FormatHTML, domain.FormatPDF, domain.FormatAll:
		return nil
	case "":
		return fmt.Errorf("format 不能为空")
	default:
		return fmt.Errorf("format 只能是 md/html/pdf/all，实际是 %q", f)
	}
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

func expandTilde(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
