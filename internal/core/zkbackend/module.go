// Package zkbackend 提供Frostgate系统的证明后端调度实现
//
// 📋 **证明后端核心模块 (ZK Backend Core Module)**
//
// 本包是Frostgate证明服务的调度实现模块，站在可插拔证明引擎之前，
// 负责程序解码、电路装配、两级缓存、批量并发调度与资源计量。
// 通过fx依赖注入框架，将调度器、缓存、统计、工作线程池组织为
// 统一的服务层，对外提供完整的证明生成与验证功能。
//
// 🎯 **模块职责**：
// - 实现pkg/interfaces/zkbackend中定义的所有公共接口
// - 协调engine、guest、engines等子模块
// - 管理依赖注入和服务生命周期
// - 提供统一的配置和错误处理机制
//
// 🏗️ **架构特点**：
// - fx依赖注入：使用fx框架管理组件生命周期和依赖关系
// - 引擎可插拔：按配置选择simulated或gnark证明引擎
// - 接口导向：通过接口而非具体类型进行依赖，便于测试和扩展
// - 配置驱动：支持灵活的配置管理和环境适配
//
// 📦 **子模块组织**：
// - engine/  - 证明引擎契约与收据编解码
// - guest/   - 客体程序语义（消息/交易/区块验证）
// - engines/ - 证明引擎实现（simulated、gnark）
package zkbackend

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	zkconfig "github.com/frostgate/v1/internal/config/zkbackend"
	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	"github.com/frostgate/v1/internal/core/zkbackend/engines/gnark"
	"github.com/frostgate/v1/internal/core/zkbackend/engines/simulated"
	cryptointf "github.com/frostgate/v1/pkg/interfaces/infrastructure/crypto"
	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// ==================== 模块输入依赖 ====================

// ModuleInput 定义证明后端模块的输入依赖
//
// 🎯 **依赖注入配置说明**：
// 本结构体定义了zkbackend模块运行所需的所有外部依赖。
// 通过fx.In标签，fx框架会自动注入这些依赖到模块构造函数中。
//
// ⚠️ **可选性控制**：
// - optional:"false" - 必需依赖，缺失时启动失败
// - optional:"true"  - 可选依赖，允许为nil，模块内需要nil检查
type ModuleInput struct {
	fx.In

	// 基础设施组件
	Logger      logintf.Logger         `optional:"false"`
	HashManager cryptointf.HashManager `optional:"false"`
	Registerer  prometheus.Registerer  `optional:"true"`

	// 配置组件
	ZkConfig *zkconfig.Config `optional:"false"`
}

// ==================== 模块输出服务 ====================

// ModuleOutput 定义证明后端模块的输出服务
//
// 📋 **导出服务**：
// - ZkBackend:    基础证明契约（单项prove/verify与可观测性）
// - ZkBackendExt: 扩展契约（批量操作与能力查询）
//
// 两个接口由同一个调度器实例实现，分开导出让调用方按需依赖。
type ModuleOutput struct {
	fx.Out

	ZkBackend    ifacezk.ZkBackend
	ZkBackendExt ifacezk.ZkBackendExt
}

// NewProvingEngine 按配置名称创建证明引擎
//
// 🎯 **引擎选择**：
// - "simulated": 哈希封签引擎，快速且确定性，适合开发与测试
// - "gnark":     Groth16引擎，产生真实的密码学证明
func NewProvingEngine(options *zkconfig.ZkOptions, logger logintf.Logger) (engine.ProvingEngine, error) {
	switch options.Engine {
	case simulated.EngineName, "":
		return simulated.New(logger), nil
	case gnark.EngineName:
		return gnark.New(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrEngineNotConfigured, options.Engine)
	}
}

// ==================== 模块构建器 ====================

// Module 构建并返回证明后端模块的fx配置
//
// 🏗️ **构建流程**：
// 1. 创建指标集（未注入Registerer时回退到默认注册表）
// 2. 按配置选择并创建证明引擎
// 3. 创建调度器（缓存、统计、资源计量、工作线程池随之就绪）
// 4. 注册生命周期钩子：应用停止时优雅关闭工作线程池
//
// 🔧 **使用方式**：
//
//	app := fx.New(
//	    zkbackend.Module(),
//	    // 其他模块...
//	)
func Module() fx.Option {
	return fx.Module("zkbackend",
		fx.Provide(
			// 指标集
			func(input ModuleInput) *Metrics {
				registerer := input.Registerer
				if registerer == nil {
					registerer = prometheus.DefaultRegisterer
				}
				return NewMetrics(registerer)
			},

			// 证明引擎（按配置选择）
			func(input ModuleInput) (engine.ProvingEngine, error) {
				zkLogger := input.Logger.With("module", "zkbackend")
				return NewProvingEngine(input.ZkConfig.GetOptions(), zkLogger)
			},

			// 证明后端调度器
			func(input ModuleInput, provingEngine engine.ProvingEngine, metrics *Metrics) (*Backend, error) {
				zkLogger := input.Logger.With("module", "zkbackend")
				return NewBackend(provingEngine, input.ZkConfig.GetOptions(),
					input.HashManager, zkLogger, metrics)
			},

			// 模块输出聚合
			func(backend *Backend) ModuleOutput {
				return ModuleOutput{
					ZkBackend:    backend,
					ZkBackendExt: backend,
				}
			},
		),

		// 生命周期管理：应用停止时关闭工作线程池
		fx.Invoke(func(lc fx.Lifecycle, backend *Backend, input ModuleInput) {
			logger := input.Logger.With("module", "zkbackend")
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					logger.Info("✅ 证明后端模块已启动")
					return nil
				},
				OnStop: func(ctx context.Context) error {
					logger.Info("🔄 开始关闭证明后端...")
					backend.Close()
					logger.Info("✅ 证明后端已成功关闭")
					return nil
				},
			})
		}),
	)
}
