package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statsCmd 后端状态命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "展示后端配置、能力与资源状况",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, logger, err := newBackend()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer logger.Sync()

		health, err := backend.HealthCheck(context.Background())
		if err != nil {
			return err
		}

		usage := backend.ResourceUsage()
		cacheStats := backend.CacheStats()

		pterm.DefaultSection.Println("证明后端状态")
		pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(pterm.TableData{
			{"字段", "值"},
			{"健康状态", string(health.State)},
			{"能力", strings.Join(backend.Capabilities(), ", ")},
			{"并发上限", fmt.Sprintf("%d", usage.MaxConcurrent)},
			{"活跃任务", fmt.Sprintf("%d", usage.ActiveTasks)},
			{"队列深度", fmt.Sprintf("%d", usage.QueueDepth)},
			{"内存占用", fmt.Sprintf("%d 字节", usage.MemoryUsage)},
			{"电路缓存", fmt.Sprintf("%d / %d", cacheStats.CircuitEntries, cacheStats.MaxCircuits)},
			{"证明缓存", fmt.Sprintf("%d / %d", cacheStats.ProofEntries, cacheStats.MaxProofs)},
		}).Render()

		return nil
	},
}
