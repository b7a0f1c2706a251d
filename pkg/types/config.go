// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 描述部署的生命周期阶段，只影响日志级别、指标上报等运维属性
	Environment *string `json:"environment,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 证明后端配置
	Zk *UserZkConfig `json:"zk,omitempty"`
}

// UserLogConfig 用户日志配置
// 对应配置文件中的 log 字段，字段使用指针类型以区分"未配置"和"配置为零值"
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// UserZkConfig 用户证明后端配置
// 对应配置文件中的 zk 字段
type UserZkConfig struct {
	MaxThreads         *int    `json:"max_threads,omitempty"`           // 最大并发证明线程数
	MaxMemoryMB        *uint64 `json:"max_memory_mb,omitempty"`         // 内存上限(MB)
	MaxCircuits        *int    `json:"max_circuits,omitempty"`          // 电路缓存容量
	MaxProofs          *int    `json:"max_proofs,omitempty"`            // 证明缓存容量
	CacheMaxAgeSeconds *int    `json:"cache_max_age_seconds,omitempty"` // 缓存条目最大存活秒数
	EnableProofCache   *bool   `json:"enable_proof_cache,omitempty"`    // 是否启用证明缓存
	Engine             *string `json:"engine,omitempty"`                // 证明引擎名称：simulated | gnark
}
