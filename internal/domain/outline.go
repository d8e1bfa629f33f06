package domain

// OutlineNode 是导航树的一个节点：HTML 目录与 PDF 书签共用同一棵树，
// 保证两种产物的导航结构永远不会漂移。
//
// Anchor 由分组阶段分配的数字索引派生（ASCII、稳定、无冲突），
// 不依赖标题文本本身（标题可能是非 ASCII，部分消费端无法解析）。
type OutlineNode struct {
	Label    string
	Anchor   string
	Children []OutlineNode
}
