package zkbackend

import (
	"runtime"
	"sync/atomic"

	"github.com/pbnjay/memory"

	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// memoryLimitRatio 未显式配置内存上限时，按系统总内存的80%推导
const memoryLimitRatio = 0.8

// ResourceTracker 在途工作量追踪器
//
// 🎯 **计量纪律**：活跃任务数与队列深度在工作开始前递增、
// 结束后递减（成功与失败路径都递减），任何批次完成后必须
// 回到批次前的基线，永不为负。
type ResourceTracker struct {
	activeTasks atomic.Int64
	queueDepth  atomic.Int64

	maxConcurrent  int
	maxMemoryBytes uint64

	metrics *Metrics
}

// NewResourceTracker 创建资源追踪器
//
// maxMemoryBytes为0时按系统总内存比例推导上限。
func NewResourceTracker(maxConcurrent int, maxMemoryBytes uint64, metrics *Metrics) *ResourceTracker {
	if maxMemoryBytes == 0 {
		maxMemoryBytes = uint64(float64(memory.TotalMemory()) * memoryLimitRatio)
	}
	return &ResourceTracker{
		maxConcurrent:  maxConcurrent,
		maxMemoryBytes: maxMemoryBytes,
		metrics:        metrics,
	}
}

// AddActive 增加活跃任务计数
func (r *ResourceTracker) AddActive(n int64) {
	value := r.activeTasks.Add(n)
	if r.metrics != nil {
		r.metrics.ActiveTasks.Set(float64(value))
	}
}

// DoneActive 减少活跃任务计数
func (r *ResourceTracker) DoneActive(n int64) {
	value := r.activeTasks.Add(-n)
	if value < 0 {
		// 计数纪律被破坏属于编程错误，钳制为零避免负值外泄
		r.activeTasks.Store(0)
		value = 0
	}
	if r.metrics != nil {
		r.metrics.ActiveTasks.Set(float64(value))
	}
}

// AddQueued 增加队列深度计数
func (r *ResourceTracker) AddQueued(n int64) {
	value := r.queueDepth.Add(n)
	if r.metrics != nil {
		r.metrics.QueueDepth.Set(float64(value))
	}
}

// DoneQueued 减少队列深度计数
func (r *ResourceTracker) DoneQueued(n int64) {
	value := r.queueDepth.Add(-n)
	if value < 0 {
		r.queueDepth.Store(0)
		value = 0
	}
	if r.metrics != nil {
		r.metrics.QueueDepth.Set(float64(value))
	}
}

// MaxMemoryBytes 返回生效的内存上限
func (r *ResourceTracker) MaxMemoryBytes() uint64 {
	return r.maxMemoryBytes
}

// Snapshot 返回资源占用的即时快照（非阻塞）
//
// CPU占用按在途任务对并发上限的占比估算：证明任务是CPU
// 密集型，饱和的工作池近似等价于饱和的CPU。
func (r *ResourceTracker) Snapshot() *ifacezk.ResourceUsage {
	active := r.activeTasks.Load()

	cpuUsage := float64(0)
	if r.maxConcurrent > 0 {
		cpuUsage = float64(active) / float64(r.maxConcurrent) * 100
		if cpuUsage > 100 {
			cpuUsage = 100
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &ifacezk.ResourceUsage{
		ActiveTasks:   active,
		QueueDepth:    r.queueDepth.Load(),
		MaxConcurrent: r.maxConcurrent,
		CPUUsage:      cpuUsage,
		MemoryUsage:   memStats.Alloc,
	}
}
