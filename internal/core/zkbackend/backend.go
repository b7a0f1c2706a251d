package zkbackend

import (
	"context"
	"sync"
	"time"

	zkconfig "github.com/frostgate/v1/internal/config/zkbackend"
	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	cryptointf "github.com/frostgate/v1/pkg/interfaces/infrastructure/crypto"
	logintf "github.com/frostgate/v1/pkg/interfaces/infrastructure/log"
	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// ============================================================================
//                          证明后端调度器（Backend）
// ============================================================================

// 确保Backend实现了公开契约
var _ ifacezk.ZkBackend = (*Backend)(nil)
var _ ifacezk.ZkBackendExt = (*Backend)(nil)

// Backend 证明后端调度器
//
// 🎯 **设计理念**：
// 调度器站在可插拔证明引擎之前，廉价且安全地回答两个问题：
// "这个电路是否已经编译过？"和"这对(程序,输入)是否已经证明过？"
// 引擎只在两级缓存都未命中时才被调用。
//
// 🏗️ **组件组合**：
// - Cache: 电路缓存 + 证明缓存（LRU + 存活时间）
// - StatsTracker: 累计统计（成败路径都更新）
// - ResourceTracker: 在途工作量计量
// - ProofWorkerPool: 批量操作的并发调度
//
// ⚠️ **并发契约**：调度器可被多goroutine安全共享；缓存与统计
// 的临界区只做O(1)的map操作，从不横跨引擎调用持锁。
type Backend struct {
	engine    engine.ProvingEngine
	cache     *Cache
	stats     *StatsTracker
	resources *ResourceTracker
	pool      *ProofWorkerPool

	options *zkconfig.ZkOptions
	hasher  cryptointf.HashManager
	logger  logintf.Logger
}

// NewBackend 创建证明后端调度器
//
// 工作线程池在构造时启动，Close负责优雅关闭。
func NewBackend(provingEngine engine.ProvingEngine, options *zkconfig.ZkOptions,
	hasher cryptointf.HashManager, logger logintf.Logger, metrics *Metrics) (*Backend, error) {

	if provingEngine == nil {
		return nil, ErrEngineNotConfigured
	}

	cache, err := NewCache(options.MaxCircuits, options.MaxProofs, options.CacheMaxAge,
		options.EnableProofCache, hasher, logger, metrics)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		engine:    provingEngine,
		cache:     cache,
		stats:     NewStatsTracker(metrics),
		resources: NewResourceTracker(options.MaxThreads, options.MaxMemoryBytes, metrics),
		options:   options,
		hasher:    hasher,
		logger:    logger,
	}
	b.pool = NewProofWorkerPool(b, options.MaxThreads, logger)
	b.pool.Start()

	logger.Infof("✅ 证明后端调度器已创建: engine=%s, maxThreads=%d, maxCircuits=%d, maxProofs=%d, proofCache=%v",
		provingEngine.Name(), options.MaxThreads, options.MaxCircuits, options.MaxProofs, options.EnableProofCache)

	return b, nil
}

// Close 关闭调度器（停止工作线程池）
func (b *Backend) Close() {
	b.pool.Stop()
}

// ==================== 单项操作 ====================

// Prove 为给定程序和输入生成证明
func (b *Backend) Prove(ctx context.Context, program, input []byte, opts *ifacezk.ProveOptions) ([]byte, *ifacezk.ProofMetadata, error) {
	return b.proveOne(ctx, program, input, opts)
}

// proveOne 单项证明逻辑（Prove与批量路径共用）
func (b *Backend) proveOne(ctx context.Context, program, input []byte, opts *ifacezk.ProveOptions) ([]byte, *ifacezk.ProofMetadata, error) {
	if len(program) == 0 {
		return nil, nil, WrapInvalidInputError("empty program")
	}
	if len(input) == 0 {
		return nil, nil, WrapInvalidInputError("empty input")
	}

	programHash := b.cache.HashBytes(program)
	inputHash := b.cache.HashBytes(input)

	// 1. 证明缓存快速路径：命中时GenerationTime取自缓存条目的
	// 原始生成耗时，而非重新测量
	if entry, ok := b.cache.GetProof(programHash, inputHash); ok {
		b.logger.Debugf("证明缓存命中: program=%x, input=%x", programHash[:8], inputHash[:8])
		metadata := &ifacezk.ProofMetadata{
			ProgramHash:    programHash,
			InputHash:      inputHash,
			ProofSize:      len(entry.Proof),
			GenerationTime: entry.GenerationTime,
			EngineName:     b.engine.Name(),
			CacheHit:       true,
			Timestamp:      time.Now(),
		}
		return entry.Proof, metadata, nil
	}

	// 2. 未命中：进入在途计量
	b.resources.AddActive(1)
	defer b.resources.DoneActive(1)

	started := time.Now()

	desc, err := DecodeProgram(program)
	if err != nil {
		b.stats.RecordProofFailure()
		return nil, nil, err
	}
	circuit := NewCircuit(desc, input)

	// 3. 解析电路：缓存未命中时编译并写回
	compiled, err := b.resolveCircuit(ctx, program, circuit)
	if err != nil {
		b.stats.RecordProofFailure()
		return nil, nil, err
	}

	// 4. 调用证明引擎
	receipt, err := b.engine.Execute(ctx, compiled, circuit.PublicInputs(), circuit.PrivateInputs())
	if err != nil {
		b.stats.RecordProofFailure()
		return nil, nil, WrapProofGenerationError(desc.Kind.String(), err)
	}

	// 5. 收据自洽门：引擎输出未通过电路谓词时绝不返回证明
	if !circuit.VerifyReceipt(receipt.Journal) {
		b.stats.RecordProofFailure()
		return nil, nil, WrapVerificationFailedError(desc.Kind.String(), "engine output failed receipt predicate")
	}

	// 6. 序列化、写缓存、记统计
	proof := engine.MarshalReceipt(receipt)
	elapsed := time.Since(started)
	b.cache.StoreProof(programHash, inputHash, proof, elapsed)
	b.stats.RecordProofGenerated(elapsed)

	metadata := &ifacezk.ProofMetadata{
		ProgramHash:    programHash,
		InputHash:      inputHash,
		ProofSize:      len(proof),
		GenerationTime: elapsed,
		EngineName:     b.engine.Name(),
		CacheHit:       false,
		Timestamp:      time.Now(),
	}
	return proof, metadata, nil
}

// resolveCircuit 经由电路缓存解析编译产物
func (b *Backend) resolveCircuit(ctx context.Context, program []byte, circuit Circuit) (*engine.CompiledCircuit, error) {
	if entry, ok := b.cache.GetCircuit(program); ok {
		return entry.Compiled, nil
	}

	compileStart := time.Now()
	compiled, err := b.engine.Compile(ctx, circuit.ImagePayload())
	if err != nil {
		return nil, WrapBackendError(b.engine.Name(), err)
	}
	b.cache.StoreCircuit(program, compiled, time.Since(compileStart))
	return compiled, nil
}

// Verify 验证证明对给定程序是否有效
func (b *Backend) Verify(ctx context.Context, program, proof []byte, opts *ifacezk.VerifyOptions) (bool, error) {
	return b.verifyOne(ctx, program, proof, opts)
}

// verifyOne 单项验证逻辑（Verify与批量路径共用）
//
// 验证不需要原始输入：电路谓词只依赖程序的固定公开参数和
// 收据内嵌的公开输出日志。
func (b *Backend) verifyOne(ctx context.Context, program, proof []byte, opts *ifacezk.VerifyOptions) (bool, error) {
	if len(program) == 0 {
		return false, WrapInvalidInputError("empty program")
	}
	if len(proof) == 0 {
		return false, WrapInvalidInputError("empty proof")
	}

	started := time.Now()

	desc, err := DecodeProgram(program)
	if err != nil {
		b.stats.RecordVerificationFailure()
		return false, err
	}
	circuit := NewCircuit(desc, nil)

	receipt, ok := engine.UnmarshalReceipt(proof)
	if !ok {
		b.stats.RecordVerificationFailure()
		return false, WrapSerializationError("unmarshal receipt", ErrInvalidInput)
	}

	// 结构有效性 AND 电路收据谓词，两者都通过才算验证成功
	structOK, err := b.engine.Check(ctx, receipt)
	if err != nil {
		b.stats.RecordVerificationFailure()
		return false, WrapBackendError(b.engine.Name(), err)
	}

	valid := structOK && circuit.VerifyReceipt(receipt.Journal)
	b.stats.RecordVerification(time.Since(started), valid)
	return valid, nil
}

// ==================== 批量操作 ====================

// BatchProve 批量并行生成证明
//
// 散集协议：按原始下标打标分发，结果按下标写回，输出顺序与
// 输入顺序严格一致；任一项失败时返回按输入顺序的第一个错误，
// 已完成项的副作用保留。
func (b *Backend) BatchProve(ctx context.Context, items []ifacezk.ProveItem, opts *ifacezk.ProveOptions) ([]*ifacezk.ProofResult, error) {
	if len(items) == 0 {
		return []*ifacezk.ProofResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, WrapInvalidInputError(err.Error())
	}

	n := int64(len(items))
	b.resources.AddActive(n)
	b.resources.AddQueued(n)
	defer func() {
		// 全部条目结清后一次性恢复基线，从不部分恢复
		b.resources.DoneActive(n)
		b.resources.DoneQueued(n)
	}()

	var done sync.WaitGroup
	done.Add(len(items))

	tasks := make([]*proofTask, len(items))
	for i, item := range items {
		tasks[i] = newProveTask(i, item.Program, item.Input, opts, &done)
		b.pool.Submit(tasks[i])
	}
	done.Wait()

	results := make([]*ifacezk.ProofResult, len(items))
	for i, task := range tasks {
		if task.err != nil {
			return nil, task.err
		}
		results[i] = task.result
	}
	return results, nil
}

// BatchVerify 批量并行验证证明
func (b *Backend) BatchVerify(ctx context.Context, items []ifacezk.VerifyItem, opts *ifacezk.VerifyOptions) ([]bool, error) {
	if len(items) == 0 {
		return []bool{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, WrapInvalidInputError(err.Error())
	}

	n := int64(len(items))
	b.resources.AddActive(n)
	b.resources.AddQueued(n)
	defer func() {
		b.resources.DoneActive(n)
		b.resources.DoneQueued(n)
	}()

	var done sync.WaitGroup
	done.Add(len(items))

	tasks := make([]*proofTask, len(items))
	for i, item := range items {
		tasks[i] = newVerifyTask(i, item.Program, item.Proof, opts, &done)
		b.pool.Submit(tasks[i])
	}
	done.Wait()

	results := make([]bool, len(items))
	for i, task := range tasks {
		if task.err != nil {
			return nil, task.err
		}
		results[i] = task.verifyOK
	}
	return results, nil
}

// ==================== 可观测性 ====================

// ResourceUsage 返回资源占用快照
func (b *Backend) ResourceUsage() *ifacezk.ResourceUsage {
	return b.resources.Snapshot()
}

// HealthCheck 返回后端健康状态
//
// 检查只读取即时快照，从不阻塞在未完成的证明任务上。
func (b *Backend) HealthCheck(ctx context.Context) (*ifacezk.HealthStatus, error) {
	usage := b.resources.Snapshot()

	if usage.CPUUsage > 90 {
		return &ifacezk.HealthStatus{
			State:  ifacezk.HealthDegraded,
			Reason: "cpu usage above 90%",
		}, nil
	}
	if usage.MemoryUsage > b.resources.MaxMemoryBytes() {
		return &ifacezk.HealthStatus{
			State:  ifacezk.HealthDegraded,
			Reason: "memory usage exceeds configured limit",
		}, nil
	}
	return &ifacezk.HealthStatus{State: ifacezk.HealthHealthy}, nil
}

// Stats 返回累计统计快照
func (b *Backend) Stats() *ifacezk.ZkStats {
	return b.stats.Snapshot()
}

// CacheStats 返回缓存统计快照
func (b *Backend) CacheStats() *ifacezk.CacheStats {
	return b.cache.Stats()
}

// ClearCache 清空两级缓存（统计数据不重置）
func (b *Backend) ClearCache() {
	b.cache.ClearAll()
	b.logger.Info("证明后端缓存已清空")
}

// ClearExpired 主动清扫过期缓存条目，返回淘汰数量
func (b *Backend) ClearExpired() int {
	return b.cache.ClearExpired()
}

// Capabilities 返回后端能力标签列表
func (b *Backend) Capabilities() []string {
	capabilities := []string{"circuit_caching", "parallel_proving", "batch_verification"}
	if b.options.EnableProofCache {
		capabilities = append(capabilities, "proof_caching")
	}
	return append(capabilities, b.engine.Capabilities()...)
}
