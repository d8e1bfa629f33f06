package collect

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/John-Robertt/nfosum/internal/domain"
	"github.com/John-Robertt/nfosum/internal/extract"
)

// Result 是一次采集的确定性汇总。
//
// 计数约定：Skipped 包含 ReadErrors（读失败的文件同样计入跳过），
// 因此 len(files) == len(Records) + Skipped 恒成立。
type Result struct {
	Records []domain.Record
	Skipped int
	Errors  []domain.SkippedFile
}

// Run 按输入顺序逐个读取文件并提取字段。
//
// 单个坏文件（不可读、乱码、提取不到 title）永远不会中断整次运行：
// 读失败记入 Errors 并递增 Skipped；提取失败只递增 Skipped。
func Run(files []domain.SourceFile, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}

	res := Result{Records: make([]domain.Record, 0, len(files))}
	for _, f := range files {
		b, err := os.ReadFile(f.AbsPath)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, domain.SkippedFile{
				Path:   f.RelPath,
				Reason: fmt.Sprintf("读取失败：%v", err),
			})
			log.Debug("读取失败", "path", f.RelPath, "err", err)
			continue
		}
		if !utf8.Valid(b) {
			res.Skipped++
			res.Errors = append(res.Errors, domain.SkippedFile{
				Path:   f.RelPath,
				Reason: "不是合法的 UTF-8 文本",
			})
			log.Debug("编码无效", "path", f.RelPath)
			continue
		}

		rec, ok := extract.Fields(string(b))
		if !ok {
			res.Skipped++
			log.Debug("无有效 title，跳过", "path", f.RelPath)
			continue
		}
		rec.Source = f.RelPath
		res.Records = append(res.Records, rec)
	}

	log.Debug("采集完成",
		"files", len(files),
		"records", len(res.Records),
		"skipped", res.Skipped,
		"read_errors", len(res.Errors),
	)
	return res
}
