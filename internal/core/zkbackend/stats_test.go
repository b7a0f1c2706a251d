package zkbackend

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// stats.go 测试
// ============================================================================

// TestStatsTracker_InitialSnapshot 测试构造时统计归零
func TestStatsTracker_InitialSnapshot(t *testing.T) {
	stats := NewStatsTracker(NewMetrics(prometheus.NewRegistry()))

	snapshot := stats.Snapshot()
	require.Zero(t, snapshot.TotalProofs)
	require.Zero(t, snapshot.TotalVerifications)
	require.Zero(t, snapshot.TotalFailures)
	require.Zero(t, snapshot.AvgProvingTime)
	require.Zero(t, snapshot.AvgVerificationTime)
}

// TestStatsTracker_ProofAccounting 测试证明生成的成败计数
func TestStatsTracker_ProofAccounting(t *testing.T) {
	stats := NewStatsTracker(NewMetrics(prometheus.NewRegistry()))

	stats.RecordProofGenerated(100 * time.Millisecond)
	stats.RecordProofGenerated(300 * time.Millisecond)
	stats.RecordProofFailure()

	snapshot := stats.Snapshot()
	require.Equal(t, uint64(2), snapshot.TotalProofs)
	require.Equal(t, uint64(1), snapshot.TotalFailures)
	require.Equal(t, 200*time.Millisecond, snapshot.AvgProvingTime)
}

// TestStatsTracker_VerificationAccounting 测试验证计数（返回false也计入失败）
func TestStatsTracker_VerificationAccounting(t *testing.T) {
	stats := NewStatsTracker(NewMetrics(prometheus.NewRegistry()))

	stats.RecordVerification(10*time.Millisecond, true)
	stats.RecordVerification(30*time.Millisecond, false)
	stats.RecordVerificationFailure()

	snapshot := stats.Snapshot()
	require.Equal(t, uint64(2), snapshot.TotalVerifications)
	require.Equal(t, uint64(2), snapshot.TotalFailures)
	require.Equal(t, 20*time.Millisecond, snapshot.AvgVerificationTime)
}

// TestStatsTracker_SnapshotIsolation 测试快照是所有权副本
func TestStatsTracker_SnapshotIsolation(t *testing.T) {
	stats := NewStatsTracker(NewMetrics(prometheus.NewRegistry()))
	stats.RecordProofGenerated(time.Millisecond)

	first := stats.Snapshot()
	stats.RecordProofGenerated(time.Millisecond)

	require.Equal(t, uint64(1), first.TotalProofs)
	require.Equal(t, uint64(2), stats.Snapshot().TotalProofs)
}

// ============================================================================
// resources.go 测试
// ============================================================================

// TestResourceTracker_Baseline 测试计数的增减与基线恢复
func TestResourceTracker_Baseline(t *testing.T) {
	resources := NewResourceTracker(4, 1<<30, NewMetrics(prometheus.NewRegistry()))

	resources.AddActive(3)
	resources.AddQueued(2)

	usage := resources.Snapshot()
	require.Equal(t, int64(3), usage.ActiveTasks)
	require.Equal(t, int64(2), usage.QueueDepth)
	require.Equal(t, 4, usage.MaxConcurrent)

	resources.DoneActive(3)
	resources.DoneQueued(2)

	usage = resources.Snapshot()
	require.Zero(t, usage.ActiveTasks)
	require.Zero(t, usage.QueueDepth)
}

// TestResourceTracker_NeverNegative 测试计数钳制为非负
func TestResourceTracker_NeverNegative(t *testing.T) {
	resources := NewResourceTracker(4, 1<<30, NewMetrics(prometheus.NewRegistry()))

	resources.DoneActive(5)
	resources.DoneQueued(5)

	usage := resources.Snapshot()
	require.Zero(t, usage.ActiveTasks)
	require.Zero(t, usage.QueueDepth)
}

// TestResourceTracker_CPUEstimate 测试CPU占用按并发占比估算并钳制到100
func TestResourceTracker_CPUEstimate(t *testing.T) {
	resources := NewResourceTracker(4, 1<<30, NewMetrics(prometheus.NewRegistry()))

	require.Zero(t, resources.Snapshot().CPUUsage)

	resources.AddActive(2)
	require.InDelta(t, 50.0, resources.Snapshot().CPUUsage, 0.01)

	resources.AddActive(6)
	require.InDelta(t, 100.0, resources.Snapshot().CPUUsage, 0.01)
}

// TestResourceTracker_MemoryLimitDefault 测试未配置内存上限时按系统总内存推导
func TestResourceTracker_MemoryLimitDefault(t *testing.T) {
	resources := NewResourceTracker(4, 0, NewMetrics(prometheus.NewRegistry()))
	require.Greater(t, resources.MaxMemoryBytes(), uint64(0))

	explicit := NewResourceTracker(4, 1<<20, NewMetrics(prometheus.NewRegistry()))
	require.Equal(t, uint64(1<<20), explicit.MaxMemoryBytes())
}
