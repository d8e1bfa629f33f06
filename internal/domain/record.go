package domain

// UncategorizedTag 是 tag 缺失时的兜底分类名。
// 与历史产物保持一致，不做本地化。
const UncategorizedTag = "未分类"

// Record 是从单个 nfo 文件提取出的一条元数据。
//
// 不变量（实现必须遵守）：
// - Title 非空（trim 后）；没有 title 的文件在采集阶段就被跳过
// - 创建后只读，后续分组/渲染阶段不得修改
type Record struct {
	Title    string
	Tag      string // 可能为空；分组阶段用 UncategorizedTag 兜底
	Synopsis string // plot 原文，保留换行；可能为空
	Source   string // 相对扫描根目录的路径，用于诊断与报告脚注
}

// SourceFile 描述一次扫描得到的候选文件（只做 stat，不读内容）。
//
// 不变量：AbsPath 必须是 clean + absolute。
type SourceFile struct {
	AbsPath string
	RelPath string
	Size    int64
	ModUnix int64
}
