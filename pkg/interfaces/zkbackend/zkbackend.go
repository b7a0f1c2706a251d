// Package zkbackend 提供Frostgate系统的零知识证明后端接口定义
//
// 🔐 **零知识证明后端调度契约 (ZK Backend Dispatch Contract)**
//
// 本文件定义了Frostgate系统的证明后端调度接口，专注于：
// - 证明生成：单次证明与批量并行证明
// - 证明验证：结构校验与电路语义校验的组合
// - 缓存管理：电路缓存与证明缓存的统一清理入口
// - 可观测性：统计数据、资源占用与健康状态查询
//
// 🎯 **设计原则**
// - 引擎无关：SNARK/STARK数学细节由证明引擎承担，调度层不感知
// - 安全失败：任何解码或验证失败都返回类型化错误，绝不静默截断
// - 顺序保持：批量操作的结果顺序与输入顺序严格一致
//
// 🔗 **组件关系**
// - ZkBackend：基础调度契约，被上层服务和CLI使用
// - ZkBackendExt：扩展契约，追加批量编排与能力自描述
package zkbackend

import "context"

// ZkBackend 定义证明后端调度的基础契约
//
// 所有证明后端实现必须满足本接口：
// - 证明生成走缓存快速路径，未命中时才调用证明引擎
// - 验证同时检查证明结构有效性和电路收据谓词
// - 统计与资源计数在成功和失败路径上都保持准确
type ZkBackend interface {
	// Prove 为给定程序和输入生成证明
	//
	// 流程：证明缓存命中 → 直接返回；未命中 → 解码程序 → 解析电路 →
	// 调用证明引擎 → 收据自洽校验 → 序列化并写入缓存。
	//
	// 参数：
	//   - ctx: 上下文（引擎调用可能耗时较长）
	//   - program: 程序字节串（电路类型标签 + 固定公开参数 + 引擎载荷）
	//   - input: 电路私有见证数据
	//   - opts: 可选的单次调用配置（nil表示使用后端默认值）
	// 返回：证明字节串、证明元数据、错误
	Prove(ctx context.Context, program, input []byte, opts *ProveOptions) ([]byte, *ProofMetadata, error)

	// Verify 验证证明对给定程序是否有效
	//
	// 验证不需要原始输入：电路收据谓词只依赖程序的固定公开参数
	// 和证明内嵌的公开输出日志。
	//
	// 返回：仅当结构校验与收据谓词同时通过时为true
	Verify(ctx context.Context, program, proof []byte, opts *VerifyOptions) (bool, error)

	// ResourceUsage 返回当前资源占用快照（非阻塞）
	ResourceUsage() *ResourceUsage

	// HealthCheck 返回后端健康状态
	//
	// CPU占用超过90%或内存超过配置上限时返回Degraded；
	// 检查从不阻塞在未完成的证明任务上。
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Stats 返回累计统计数据快照
	Stats() *ZkStats

	// CacheStats 返回缓存统计数据快照
	CacheStats() *CacheStats

	// ClearCache 清空电路缓存和证明缓存（不重置统计数据）
	ClearCache()
}

// ZkBackendExt 扩展契约：批量编排与能力自描述
type ZkBackendExt interface {
	ZkBackend

	// BatchProve 批量并行生成证明
	//
	// 并发度受配置线程数限制；结果顺序与items顺序一致。
	// 任一项失败时返回按输入顺序的第一个错误，已完成项的
	// 副作用（缓存写入、统计更新）保留不回滚。
	BatchProve(ctx context.Context, items []ProveItem, opts *ProveOptions) ([]*ProofResult, error)

	// BatchVerify 批量并行验证证明
	//
	// 语义同BatchProve：并发受限、顺序保持、首错上报。
	BatchVerify(ctx context.Context, items []VerifyItem, opts *VerifyOptions) ([]bool, error)

	// Capabilities 返回后端能力标签列表（仅用于自省，不参与运行时分支）
	Capabilities() []string
}
