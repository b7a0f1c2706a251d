// Package zkbackend 提供证明后端的配置管理
//
// ⚙️ **证明后端配置 (ZK Backend Configuration)**
//
// 本包定义证明后端调度器的完整配置结构，专注于：
// - 并发控制：证明工作池的线程数上限
// - 缓存策略：两级缓存的容量与条目存活时间
// - 资源约束：内存上限与健康检查阈值
//
// 配置遵循"默认值 + 用户覆盖"模式：先构造生产可用的默认配置，
// 再用JSON配置文件中实际出现的字段逐项覆盖。
package zkbackend

import (
	"time"

	configtypes "github.com/frostgate/v1/pkg/types"
)

// ZkOptions 证明后端配置选项
type ZkOptions struct {
	// === 并发配置 ===
	MaxThreads int `json:"max_threads"` // 最大并发证明线程数

	// === 资源配置 ===
	MaxMemoryBytes uint64 `json:"max_memory_bytes"` // 内存上限(字节)，0表示按系统总内存比例推导

	// === 缓存配置 ===
	MaxCircuits      int           `json:"max_circuits"`       // 电路缓存容量
	MaxProofs        int           `json:"max_proofs"`         // 证明缓存容量
	CacheMaxAge      time.Duration `json:"cache_max_age"`      // 缓存条目最大存活时间
	EnableProofCache bool          `json:"enable_proof_cache"` // 是否启用证明缓存

	// === 引擎配置 ===
	Engine string `json:"engine"` // 证明引擎名称：simulated | gnark
}

// Config 证明后端配置实现
type Config struct {
	options *ZkOptions
}

// New 创建证明后端配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultZkOptions()

	if userConfig != nil {
		applyUserZkConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultZkOptions 创建默认证明后端配置
func createDefaultZkOptions() *ZkOptions {
	return &ZkOptions{
		MaxThreads:       defaultMaxThreads,
		MaxMemoryBytes:   defaultMaxMemoryBytes,
		MaxCircuits:      defaultMaxCircuits,
		MaxProofs:        defaultMaxProofs,
		CacheMaxAge:      defaultCacheMaxAge,
		EnableProofCache: defaultEnableProofCache,
		Engine:           defaultEngine,
	}
}

// applyUserZkConfig 应用用户配置覆盖默认值
func applyUserZkConfig(options *ZkOptions, userConfig interface{}) {
	if zkConfig, ok := userConfig.(*configtypes.UserZkConfig); ok && zkConfig != nil {
		if zkConfig.MaxThreads != nil && *zkConfig.MaxThreads > 0 {
			options.MaxThreads = *zkConfig.MaxThreads
		}
		if zkConfig.MaxMemoryMB != nil {
			options.MaxMemoryBytes = *zkConfig.MaxMemoryMB * 1024 * 1024
		}
		if zkConfig.MaxCircuits != nil && *zkConfig.MaxCircuits > 0 {
			options.MaxCircuits = *zkConfig.MaxCircuits
		}
		if zkConfig.MaxProofs != nil && *zkConfig.MaxProofs > 0 {
			options.MaxProofs = *zkConfig.MaxProofs
		}
		if zkConfig.CacheMaxAgeSeconds != nil && *zkConfig.CacheMaxAgeSeconds > 0 {
			options.CacheMaxAge = time.Duration(*zkConfig.CacheMaxAgeSeconds) * time.Second
		}
		if zkConfig.EnableProofCache != nil {
			options.EnableProofCache = *zkConfig.EnableProofCache
		}
		if zkConfig.Engine != nil && *zkConfig.Engine != "" {
			options.Engine = *zkConfig.Engine
		}
	}
}

// GetOptions 获取完整的证明后端配置选项
func (c *Config) GetOptions() *ZkOptions {
	return c.options
}

// GetMaxThreads 获取最大并发证明线程数
func (c *Config) GetMaxThreads() int {
	return c.options.MaxThreads
}

// GetMaxMemoryBytes 获取内存上限(字节)
func (c *Config) GetMaxMemoryBytes() uint64 {
	return c.options.MaxMemoryBytes
}

// GetMaxCircuits 获取电路缓存容量
func (c *Config) GetMaxCircuits() int {
	return c.options.MaxCircuits
}

// GetMaxProofs 获取证明缓存容量
func (c *Config) GetMaxProofs() int {
	return c.options.MaxProofs
}

// GetCacheMaxAge 获取缓存条目最大存活时间
func (c *Config) GetCacheMaxAge() time.Duration {
	return c.options.CacheMaxAge
}

// IsProofCacheEnabled 是否启用证明缓存
func (c *Config) IsProofCacheEnabled() bool {
	return c.options.EnableProofCache
}

// GetEngine 获取证明引擎名称
func (c *Config) GetEngine() string {
	return c.options.Engine
}
