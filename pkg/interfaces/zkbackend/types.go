// Package zkbackend 提供Frostgate系统的证明后端数据类型定义
package zkbackend

import "time"

// ProveItem 批量证明的单个工作项
type ProveItem struct {
	Program []byte // 程序字节串
	Input   []byte // 私有见证数据
}

// VerifyItem 批量验证的单个工作项
type VerifyItem struct {
	Program []byte // 程序字节串
	Proof   []byte // 待验证的证明字节串
}

// ProofResult 单个证明结果
type ProofResult struct {
	Proof    []byte         // 证明字节串
	Metadata *ProofMetadata // 证明元数据
}

// ProofMetadata 证明元数据
//
// 🎯 **缓存语义**：缓存命中时GenerationTime取自缓存条目的原始
// 生成耗时而非重新测量，调用方据此可观测到命中的近零成本。
type ProofMetadata struct {
	ProgramHash    [32]byte      // 程序内容哈希
	InputHash      [32]byte      // 输入内容哈希
	ProofSize      int           // 证明字节数
	GenerationTime time.Duration // 证明生成耗时
	EngineName     string        // 生成该证明的引擎名称
	CacheHit       bool          // 是否来自证明缓存
	Timestamp      time.Time     // 生成时间点
}

// ProveOptions 单次证明调用的可选配置
type ProveOptions struct {
	Priority int           // 任务优先级（数值越大越优先）
	Timeout  time.Duration // 单项超时（0表示不限制）
}

// VerifyOptions 单次验证调用的可选配置
type VerifyOptions struct {
	Timeout time.Duration // 单项超时（0表示不限制）
}

// ZkStats 进程级累计统计
//
// 构造时归零，每次prove/verify尝试后更新（无论成败），
// 除显式运维操作外从不重置。
type ZkStats struct {
	TotalProofs         uint64        // 成功生成的证明总数
	TotalVerifications  uint64        // 完成的验证总数
	TotalFailures       uint64        // 失败总数（生成与验证合计）
	AvgProvingTime      time.Duration // 平均证明生成耗时
	AvgVerificationTime time.Duration // 平均验证耗时
}

// ResourceUsage 资源占用快照
//
// ActiveTasks/QueueDepth在工作开始前递增、结束后递减，
// 任何批次完成后（含部分失败）必须回到批次前的基线，永不为负。
type ResourceUsage struct {
	ActiveTasks   int64   // 进行中的任务数
	QueueDepth    int64   // 排队中的任务数
	MaxConcurrent int     // 最大并发度
	CPUUsage      float64 // CPU占用率（0-100）
	MemoryUsage   uint64  // 内存占用字节数
}

// HealthState 健康状态枚举
type HealthState string

const (
	HealthHealthy   HealthState = "healthy"
	HealthDegraded  HealthState = "degraded"
	HealthUnhealthy HealthState = "unhealthy"
)

// HealthStatus 后端健康状态
type HealthStatus struct {
	State  HealthState // 健康状态
	Reason string      // Degraded/Unhealthy时的原因描述
}

// CacheStats 缓存统计快照
//
// ⚠️ 命中计数来自驻留条目的访问历史：条目被淘汰后其历史一并丢弃。
type CacheStats struct {
	CircuitEntries int    // 电路缓存当前条目数
	ProofEntries   int    // 证明缓存当前条目数
	MaxCircuits    int    // 电路缓存容量上限
	MaxProofs      int    // 证明缓存容量上限
	CircuitHits    uint64 // 驻留电路条目的累计命中数
	ProofHits      uint64 // 驻留证明条目的累计命中数
}
