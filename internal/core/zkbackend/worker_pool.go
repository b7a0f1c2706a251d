package zkbackend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// ============================================================================
// 证明工作线程池（批量证明/验证的并发调度）
// ============================================================================
//
// 🎯 **设计目的**：
// 用固定大小的常驻工作池限制批量操作的并发度，避免为每个批次
// 临时孵化无上界的goroutine。
//
// 🏗️ **实现策略**：
// - goroutine池 + 任务通道（避免goroutine泄漏）
// - stopCh/doneCh成对的优雅关闭协议
// - 每个工作线程维护原子计数的处理统计与健康状态
//
// ⚠️ **注意**：
// - 工作线程执行的是调度器的单项prove/verify逻辑
// - 结果按任务下标写回，完成顺序不影响输出顺序
//
// ============================================================================

// taskExecutor 单项任务的执行入口（由调度器实现）
type taskExecutor interface {
	proveOne(ctx context.Context, program, input []byte, opts *ifacezk.ProveOptions) ([]byte, *ifacezk.ProofMetadata, error)
	verifyOne(ctx context.Context, program, proof []byte, opts *ifacezk.VerifyOptions) (bool, error)
}

// WorkerHealthStatus 工作线程健康状态
type WorkerHealthStatus string

const (
	// WorkerHealthHealthy 健康
	WorkerHealthHealthy WorkerHealthStatus = "healthy"

	// WorkerHealthDegraded 降级（失败率偏高）
	WorkerHealthDegraded WorkerHealthStatus = "degraded"

	// WorkerHealthUnhealthy 不健康（连续失败）
	WorkerHealthUnhealthy WorkerHealthStatus = "unhealthy"
)

// ProofWorker 证明工作线程
//
// 🎯 **核心职责**：
// - 从任务通道获取任务
// - 调用调度器的单项执行逻辑
// - 处理任务完成和失败
type ProofWorker struct {
	// 工作线程ID
	workerID int

	// 任务通道（池内共享）
	tasks <-chan *proofTask

	// 单项执行入口
	executor taskExecutor

	// 控制通道
	stopCh chan struct{}
	doneCh chan struct{}

	// 日志记录器
	logger logintf.Logger

	// 统计信息
	processedCount atomic.Int64
	successCount   atomic.Int64
	errorCount     atomic.Int64

	// 健康状态
	healthStatus    atomic.Value // WorkerHealthStatus
	lastHealthCheck atomic.Value // time.Time
}

// newProofWorker 创建证明工作线程
func newProofWorker(workerID int, tasks <-chan *proofTask, executor taskExecutor, logger logintf.Logger) *ProofWorker {
	worker := &ProofWorker{
		workerID: workerID,
		tasks:    tasks,
		executor: executor,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   logger,
	}

	worker.healthStatus.Store(WorkerHealthHealthy)
	worker.lastHealthCheck.Store(time.Now())

	return worker
}

// Start 启动工作线程
func (w *ProofWorker) Start() {
	go w.run()
}

// run 工作线程主循环
func (w *ProofWorker) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case task := <-w.tasks:
			if task == nil {
				return
			}
			w.processTask(task)
		}
	}
}

// processTask 处理任务
func (w *ProofWorker) processTask(task *proofTask) {
	task.MarkRunning()

	// 单项超时来自调用配置
	ctx := context.Background()
	var cancel context.CancelFunc
	switch {
	case task.Kind == taskProve && task.proveOpts != nil && task.proveOpts.Timeout > 0:
		ctx, cancel = context.WithTimeout(ctx, task.proveOpts.Timeout)
	case task.Kind == taskVerify && task.verifyOpts != nil && task.verifyOpts.Timeout > 0:
		ctx, cancel = context.WithTimeout(ctx, task.verifyOpts.Timeout)
	}
	if cancel != nil {
		defer cancel()
	}

	var err error
	switch task.Kind {
	case taskProve:
		var proof []byte
		var metadata *ifacezk.ProofMetadata
		proof, metadata, err = w.executor.proveOne(ctx, task.Program, task.Input, task.proveOpts)
		if err == nil {
			task.result = &ifacezk.ProofResult{Proof: proof, Metadata: metadata}
		}
	case taskVerify:
		task.verifyOK, err = w.executor.verifyOne(ctx, task.Program, task.Proof, task.verifyOpts)
	}

	w.processedCount.Add(1)

	if err != nil {
		w.errorCount.Add(1)
		task.MarkFailed(err)
		w.updateHealthStatus(false)
	} else {
		w.successCount.Add(1)
		task.MarkCompleted()
		w.updateHealthStatus(true)
	}
}

// updateHealthStatus 更新健康状态
func (w *ProofWorker) updateHealthStatus(success bool) {
	now := time.Now()
	w.lastHealthCheck.Store(now)

	if success {
		w.healthStatus.Store(WorkerHealthHealthy)
		return
	}

	errorCount := w.errorCount.Load()
	successCount := w.successCount.Load()

	if errorCount > 0 && successCount > 0 {
		// 有成功也有失败，检查失败率
		failureRate := float64(errorCount) / float64(errorCount+successCount)
		if failureRate > 0.5 {
			w.healthStatus.Store(WorkerHealthDegraded)
		} else {
			w.healthStatus.Store(WorkerHealthHealthy)
		}
	} else if errorCount > 10 {
		// 连续失败超过10次，设置为不健康
		w.healthStatus.Store(WorkerHealthUnhealthy)
	}
}

// Stop 停止工作线程
func (w *ProofWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// GetStats 获取统计信息
func (w *ProofWorker) GetStats() map[string]interface{} {
	healthStatus, _ := w.healthStatus.Load().(WorkerHealthStatus)
	lastHealthCheck, _ := w.lastHealthCheck.Load().(time.Time)

	return map[string]interface{}{
		"worker_id":         w.workerID,
		"processed_count":   w.processedCount.Load(),
		"success_count":     w.successCount.Load(),
		"error_count":       w.errorCount.Load(),
		"health_status":     string(healthStatus),
		"last_health_check": lastHealthCheck,
	}
}

// GetHealthStatus 获取健康状态
func (w *ProofWorker) GetHealthStatus() WorkerHealthStatus {
	status, _ := w.healthStatus.Load().(WorkerHealthStatus)
	return status
}

// ============================================================================
// 证明工作线程池（ProofWorkerPool）
// ============================================================================

// ProofWorkerPool 证明工作线程池
//
// 🎯 **核心职责**：
// - 管理固定数量的工作线程
// - 任务分发与优雅关闭
type ProofWorkerPool struct {
	// 工作线程列表
	workers []*ProofWorker

	// 任务通道
	tasks chan *proofTask

	// 单项执行入口
	executor taskExecutor

	// 工作线程数量
	workerCount int

	// 日志记录器
	logger logintf.Logger

	// 是否已启动
	started    bool
	startMutex sync.Mutex
}

// NewProofWorkerPool 创建证明工作线程池
func NewProofWorkerPool(executor taskExecutor, workerCount int, logger logintf.Logger) *ProofWorkerPool {
	if workerCount <= 0 {
		workerCount = 4 // 默认4个工作线程
	}

	return &ProofWorkerPool{
		tasks:       make(chan *proofTask, workerCount*16),
		executor:    executor,
		workerCount: workerCount,
		logger:      logger,
	}
}

// Start 启动工作线程池
func (p *ProofWorkerPool) Start() {
	p.startMutex.Lock()
	defer p.startMutex.Unlock()

	if p.started {
		return
	}

	p.workers = make([]*ProofWorker, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		worker := newProofWorker(i, p.tasks, p.executor, p.logger)
		p.workers[i] = worker
		worker.Start()
	}

	p.started = true

	if p.logger != nil {
		p.logger.Infof("✅ 证明工作线程池已启动: workerCount=%d", p.workerCount)
	}
}

// Stop 停止工作线程池
func (p *ProofWorkerPool) Stop() {
	p.startMutex.Lock()
	defer p.startMutex.Unlock()

	if !p.started {
		return
	}

	for _, worker := range p.workers {
		worker.Stop()
	}

	p.started = false

	if p.logger != nil {
		p.logger.Infof("✅ 证明工作线程池已停止")
	}
}

// Submit 提交任务
//
// 通道缓冲满时阻塞提交方，形成天然的背压。
func (p *ProofWorkerPool) Submit(task *proofTask) {
	p.tasks <- task
}

// WorkerCount 返回工作线程数量
func (p *ProofWorkerPool) WorkerCount() int {
	return p.workerCount
}

// GetStats 获取统计信息
func (p *ProofWorkerPool) GetStats() map[string]interface{} {
	p.startMutex.Lock()
	defer p.startMutex.Unlock()

	totalProcessed := int64(0)
	totalSuccess := int64(0)
	totalErrors := int64(0)
	healthyWorkers := 0
	degradedWorkers := 0
	unhealthyWorkers := 0

	for _, worker := range p.workers {
		totalProcessed += worker.processedCount.Load()
		totalSuccess += worker.successCount.Load()
		totalErrors += worker.errorCount.Load()

		switch worker.GetHealthStatus() {
		case WorkerHealthHealthy:
			healthyWorkers++
		case WorkerHealthDegraded:
			degradedWorkers++
		case WorkerHealthUnhealthy:
			unhealthyWorkers++
		}
	}

	return map[string]interface{}{
		"worker_count":      p.workerCount,
		"total_processed":   totalProcessed,
		"total_success":     totalSuccess,
		"total_errors":      totalErrors,
		"healthy_workers":   healthyWorkers,
		"degraded_workers":  degradedWorkers,
		"unhealthy_workers": unhealthyWorkers,
	}
}
