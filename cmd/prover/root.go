package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	zkconfig "github.com/frostgate/v1/internal/config/zkbackend"
	"github.com/frostgate/v1/internal/core/infrastructure/crypto/hash"
	corelog "github.com/frostgate/v1/internal/core/infrastructure/log"
	"github.com/frostgate/v1/internal/core/zkbackend"
	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
	"github.com/frostgate/v1/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
	Engine     string // 证明引擎名称（覆盖配置文件）
	Verbose    bool   // 详细模式
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "frostgate-prover",
	Short: "Frostgate 证明后端命令行工具",
	Long: `Frostgate Prover - 零知识证明后端的命令行入口

为消息、交易和区块验证电路生成与验证证明:
- prove:  读取见证文件，产出可独立验证的证明文件
- verify: 校验证明文件对给定程序是否有效
- stats:  展示后端配置、能力与资源状况

引擎可选 simulated（哈希封签，开发测试用）或 gnark（Groth16）。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// CLI模式下抑制日志的控制台输出，保持终端整洁
		return os.Setenv("FROSTGATE_CLI_MODE", "true")
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "配置文件路径 (JSON)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Engine, "engine", "", "证明引擎: simulated|gnark (覆盖配置文件)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细输出")

	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadUserConfig 读取JSON配置文件（未指定时返回nil）
func loadUserConfig() (*types.AppConfig, error) {
	if globalFlags.ConfigPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(globalFlags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件: %w", err)
	}
	var config types.AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件: %w", err)
	}
	return &config, nil
}

// newBackend 按全局标志构造证明后端
func newBackend() (*zkbackend.Backend, logintf.Logger, error) {
	appConfig, err := loadUserConfig()
	if err != nil {
		return nil, nil, err
	}

	var userZk *types.UserZkConfig
	if appConfig != nil {
		userZk = appConfig.Zk
	}
	options := zkconfig.New(userZk).GetOptions()
	if globalFlags.Engine != "" {
		options.Engine = globalFlags.Engine
	}

	level := "error"
	if globalFlags.Verbose {
		level = "debug"
	}
	logger, err := corelog.NewLoggerFromConfig(level, "stderr", false, false)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志: %w", err)
	}

	provingEngine, err := zkbackend.NewProvingEngine(options, logger)
	if err != nil {
		return nil, nil, err
	}

	backend, err := zkbackend.NewBackend(provingEngine, options, hash.NewHashService(),
		logger, zkbackend.NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		return nil, nil, err
	}
	return backend, logger, nil
}
