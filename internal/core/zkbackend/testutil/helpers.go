// Package testutil 提供证明后端模块测试的辅助工具
//
// 🧪 **测试辅助函数**
//
// 本文件提供测试辅助函数，用于简化测试代码编写。
//
// ⚠️ **注意**：本文件不包含依赖调度器具体类型的辅助函数，
// 避免循环依赖。调度器相关的构造应该在各自的测试文件中完成。

package testutil

import (
	"github.com/frostgate/v1/internal/core/infrastructure/crypto/hash"
	"github.com/frostgate/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
)

// NewTestLogger 创建测试用的Logger
func NewTestLogger() log.Logger {
	return &MockLogger{}
}

// NewTestHashManager 创建测试用的HashManager
//
// 返回真实的哈希服务而非Mock：缓存键和程序哈希的正确性
// 依赖真实SHA256语义。
func NewTestHashManager() crypto.HashManager {
	return hash.NewHashService()
}
