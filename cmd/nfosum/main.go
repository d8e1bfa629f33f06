package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/nfosum/internal/app/run"
	"github.com/John-Robertt/nfosum/internal/config"
	"github.com/John-Robertt/nfosum/internal/domain"
)

var version = "0.1.0"

// errRunFailed 表示运行已经自行输出了诊断信息，main 只需要退出码。
var errRunFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "nfosum [directory]",
	Short: "扫描 nfo 元数据文件并生成分类汇总报告",
	Long: `nfosum 递归扫描目录下的 .nfo 元数据文件，提取 title/tag/plot，
按 tag 分类汇总，生成 Markdown、自包含 HTML 或带书签大纲的 PDF 报告。

目录未指定时读取配置文件 nfosum.yaml 的 path，最终回退到当前目录。
pdf 格式依赖本机可用的 Chromium/Chrome；缺失时请改用 md/html。`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringP("format", "f", "", "输出格式：md|html|pdf|all（未指定则读配置文件；最终默认 md）")
	rootCmd.Flags().StringP("output", "o", "", "输出文件路径（默认 <目录>/<标题>.<格式>）")
	rootCmd.Flags().Bool("open", false, "生成后在默认浏览器中打开（仅 html/all）")
	rootCmd.Flags().BoolP("verbose", "v", false, "输出逐文件跳过原因与调试日志")
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errRunFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "参数错误：%v\n", err)
		os.Exit(2)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cli := config.CLIArgs{}
	if len(args) > 0 {
		cli.Dir = args[0]
	}
	cli.Format, _ = cmd.Flags().GetString("format")
	cli.FormatSet = cmd.Flags().Changed("format")
	cli.Output, _ = cmd.Flags().GetString("output")
	cli.Open, _ = cmd.Flags().GetBool("open")
	cli.Verbose, _ = cmd.Flags().GetBool("verbose")

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return errRunFailed
	}

	eff, err := config.Load(cwd, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		emitReport(configErrorReport(cwd, err))
		return errRunFailed
	}

	var obs run.Observer
	if isTTY(os.Stderr) {
		obs = &consoleObserver{w: os.Stderr}
	}

	rr := run.Execute(context.Background(), eff, run.Deps{Log: log}, obs)
	emitReport(rr)

	if eff.Open {
		openHypertext(rr)
	}

	// 退出约定：零记录（或运行级错误）非零退出；
	// 个别文件被跳过、个别格式失败而至少一个产物成功时仍视为成功。
	if rr.ErrorCode != "" {
		return errRunFailed
	}
	if rr.Written() == 0 {
		return errRunFailed
	}
	return nil
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：records=%d skipped=%d read_errors=%d categories=%d\n",
			rr.Summary.Records, rr.Summary.Skipped, rr.Summary.ReadErrors, rr.Summary.Categories,
		)
		for _, f := range rr.Formats {
			if f.Status == domain.FormatStatusWritten {
				fmt.Fprintf(os.Stdout, "%s：%s\n", f.Format, f.Output)
			} else {
				fmt.Fprintf(os.Stderr, "%s 失败 %s：%s\n", f.Format, f.ErrorCode, f.ErrorMsg)
			}
		}
		if rr.ErrorCode != "" {
			fmt.Fprintf(os.Stderr, "%s：%s\n", rr.ErrorCode, rr.ErrorMsg)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：records=%d skipped=%d read_errors=%d categories=%d\n",
		rr.Summary.Records, rr.Summary.Skipped, rr.Summary.ReadErrors, rr.Summary.Categories,
	)
}

func configErrorReport(cwd string, err error) domain.RunReport {
	rr := domain.RunReport{
		Path:      cwd,
		ErrorCode: config.Code(err),
		ErrorMsg:  err.Error(),
	}
	if rr.ErrorCode == "" {
		rr.ErrorCode = domain.ErrCodeConfigInvalid
	}
	rr.Finalize()
	return rr
}

// openHypertext 在默认浏览器中打开本次成功落盘的 html 产物。
// 打开失败只提示，不影响退出码（产物本身已经生成）。
func openHypertext(rr domain.RunReport) {
	for _, f := range rr.Formats {
		if f.Format != domain.FormatHTML || f.Status != domain.FormatStatusWritten {
			continue
		}
		if err := openInViewer(f.Output); err != nil {
			fmt.Fprintf(os.Stderr, "无法在浏览器中打开 %s：%v\n", f.Output, err)
		}
		return
	}
}

func openInViewer(path string) error {
	name, args := viewerCommand(runtime.GOOS, path)
	return exec.Command(name, args...).Start()
}

// viewerCommand 返回各平台“用默认程序打开”的命令。
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
