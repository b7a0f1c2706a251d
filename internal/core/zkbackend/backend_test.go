package zkbackend

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	zkconfig "github.com/frostgate/v1/internal/config/zkbackend"
	"github.com/frostgate/v1/internal/core/zkbackend/engine"
	"github.com/frostgate/v1/internal/core/zkbackend/engines/simulated"
	"github.com/frostgate/v1/internal/core/zkbackend/testutil"
	ifacezk "github.com/frostgate/v1/pkg/interfaces/zkbackend"
)

// ============================================================================
// backend.go 测试
// ============================================================================

// testZkOptions 测试用配置
func testZkOptions() *zkconfig.ZkOptions {
	return &zkconfig.ZkOptions{
		MaxThreads:       4,
		MaxMemoryBytes:   1 << 30,
		MaxCircuits:      16,
		MaxProofs:        64,
		CacheMaxAge:      time.Hour,
		EnableProofCache: true,
		Engine:           simulated.EngineName,
	}
}

// newTestBackend 创建测试用调度器（默认模拟引擎）
func newTestBackend(t *testing.T, provingEngine engine.ProvingEngine, options *zkconfig.ZkOptions) *Backend {
	t.Helper()
	if provingEngine == nil {
		provingEngine = simulated.New(testutil.NewTestLogger())
	}
	if options == nil {
		options = testZkOptions()
	}

	backend, err := NewBackend(provingEngine, options, testutil.NewTestHashManager(),
		testutil.NewTestLogger(), NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	return backend
}

// TestNewBackend_NilEngine 测试缺失引擎时构造失败
func TestNewBackend_NilEngine(t *testing.T) {
	_, err := NewBackend(nil, testZkOptions(), testutil.NewTestHashManager(),
		testutil.NewTestLogger(), NewMetrics(prometheus.NewRegistry()))
	require.ErrorIs(t, err, ErrEngineNotConfigured)
}

// TestBackend_ProveVerify_MessageVerify 测试消息验证的完整证明验证周期
func TestBackend_ProveVerify_MessageVerify(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	message := []byte("Hello, World!")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	proof, metadata, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	require.False(t, metadata.CacheHit)
	require.Equal(t, simulated.EngineName, metadata.EngineName)
	require.Equal(t, len(proof), metadata.ProofSize)

	valid, err := backend.Verify(ctx, program, proof, nil)
	require.NoError(t, err)
	require.True(t, valid)
}

// TestBackend_Prove_WrongExpectedHash 测试期望哈希不匹配时拒绝产出证明
func TestBackend_Prove_WrongExpectedHash(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	// 程序声明全零哈希，实际消息摘要必然不匹配
	program := testutil.MessageProgram([32]byte{}, nil)

	_, _, err := backend.Prove(context.Background(), program, []byte("Hello, World!"), nil)
	require.ErrorIs(t, err, ErrVerificationFailed)
	require.Equal(t, uint64(1), backend.Stats().TotalFailures)
	require.Zero(t, backend.Stats().TotalProofs)
}

// TestBackend_Prove_InvalidArguments 测试空参数与畸形程序
func TestBackend_Prove_InvalidArguments(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	_, _, err := backend.Prove(ctx, nil, []byte("input"), nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = backend.Prove(ctx, testutil.MessageProgram(testutil.RandomHash(), nil), nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = backend.Prove(ctx, append([]byte{0xEE}, testutil.RandomBytes(40)...), []byte("input"), nil)
	require.ErrorIs(t, err, ErrUnknownCircuitKind)
}

// TestBackend_ProofCache_Determinism 测试证明缓存命中的确定性语义
//
// 第二次证明必须逐字节等于第一次，元数据标记缓存命中，
// GenerationTime取原始生成耗时，且引擎不被再次调用。
func TestBackend_ProofCache_Determinism(t *testing.T) {
	counting := &testutil.CountingEngine{Inner: simulated.New(testutil.NewTestLogger())}
	backend := newTestBackend(t, counting, nil)
	ctx := context.Background()

	message := []byte("deterministic message")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	first, firstMeta, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)
	require.False(t, firstMeta.CacheHit)

	second, secondMeta, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.True(t, secondMeta.CacheHit)
	require.Equal(t, firstMeta.GenerationTime, secondMeta.GenerationTime)
	require.Equal(t, firstMeta.ProgramHash, secondMeta.ProgramHash)
	require.Equal(t, firstMeta.InputHash, secondMeta.InputHash)

	require.Equal(t, 1, counting.ExecuteCalls())

	// 缓存命中不计入证明生成总数
	require.Equal(t, uint64(1), backend.Stats().TotalProofs)
}

// TestBackend_ProofCache_Disabled 测试禁用证明缓存时每次都重新生成
func TestBackend_ProofCache_Disabled(t *testing.T) {
	options := testZkOptions()
	options.EnableProofCache = false
	counting := &testutil.CountingEngine{Inner: simulated.New(testutil.NewTestLogger())}
	backend := newTestBackend(t, counting, options)
	ctx := context.Background()

	message := []byte("no cache")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	_, firstMeta, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)
	_, secondMeta, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)

	require.False(t, firstMeta.CacheHit)
	require.False(t, secondMeta.CacheHit)
	require.Equal(t, 2, counting.ExecuteCalls())
}

// TestBackend_CircuitCache_SharedAcrossInputs 测试电路缓存跨输入复用
//
// 同一程序对不同输入的两次证明只编译一次电路。
func TestBackend_CircuitCache_SharedAcrossInputs(t *testing.T) {
	counting := &testutil.CountingEngine{Inner: simulated.New(testutil.NewTestLogger())}
	backend := newTestBackend(t, counting, nil)
	ctx := context.Background()

	messageA := []byte("input-a")
	messageB := []byte("input-b")

	proofA, _, err := backend.Prove(ctx, testutil.MessageProgram(sha256.Sum256(messageA), nil), messageA, nil)
	require.NoError(t, err)
	proofB, _, err := backend.Prove(ctx, testutil.MessageProgram(sha256.Sum256(messageB), nil), messageB, nil)
	require.NoError(t, err)

	// 程序不同（期望哈希不同）时编译两次；证明互不相同
	require.NotEqual(t, proofA, proofB)
	require.Equal(t, 2, counting.CompileCalls())

	// 同一程序重复证明不再编译
	_, _, err = backend.Prove(ctx, testutil.MessageProgram(sha256.Sum256(messageA), nil), messageA, nil)
	require.NoError(t, err)
	require.Equal(t, 2, counting.CompileCalls())
}

// TestBackend_Verify_TamperedProof 测试被篡改的证明验证为false（不报错）
func TestBackend_Verify_TamperedProof(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	message := []byte("tamper target")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	proof, _, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)

	// 篡改journal首字节：收据仍可反序列化，但封签校验失败
	tampered := append([]byte(nil), proof...)
	tampered[4] ^= 0x01

	valid, err := backend.Verify(ctx, program, tampered, nil)
	require.NoError(t, err)
	require.False(t, valid)
	require.Equal(t, uint64(1), backend.Stats().TotalFailures)
}

// TestBackend_Verify_GarbageProof 测试无法反序列化的证明返回序列化错误
func TestBackend_Verify_GarbageProof(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	program := testutil.MessageProgram(testutil.RandomHash(), nil)

	_, err := backend.Verify(context.Background(), program, []byte{0xFF, 0xFE}, nil)
	require.ErrorIs(t, err, ErrSerialization)
}

// TestBackend_Verify_WrongProgram 测试证明对错误程序验证为false
func TestBackend_Verify_WrongProgram(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	message := []byte("bound to program A")
	programA := testutil.MessageProgram(sha256.Sum256(message), nil)
	programB := testutil.MessageProgram(testutil.RandomHash(), nil)

	proof, _, err := backend.Prove(ctx, programA, message, nil)
	require.NoError(t, err)

	valid, err := backend.Verify(ctx, programB, proof, nil)
	require.NoError(t, err)
	require.False(t, valid)
}

// TestBackend_BatchProve_OrderPreserved 测试批量证明结果顺序与输入一致
func TestBackend_BatchProve_OrderPreserved(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	const n = 12
	items := make([]ifacezk.ProveItem, n)
	expected := make([][]byte, n)
	for i := 0; i < n; i++ {
		message := []byte{byte(i), 0xA0}
		program := testutil.MessageProgram(sha256.Sum256(message), nil)
		items[i] = ifacezk.ProveItem{Program: program, Input: message}

		proof, _, err := backend.Prove(ctx, program, message, nil)
		require.NoError(t, err)
		expected[i] = proof
	}
	backend.ClearCache()

	results, err := backend.BatchProve(ctx, items, nil)
	require.NoError(t, err)
	require.Len(t, results, n)
	for i, result := range results {
		require.Equal(t, expected[i], result.Proof, "index=%d", i)
	}
}

// TestBackend_BatchProve_FirstErrorInInputOrder 测试批量失败返回按输入顺序的第一个错误
func TestBackend_BatchProve_FirstErrorInInputOrder(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	good := []byte("good")
	items := []ifacezk.ProveItem{
		{Program: testutil.MessageProgram(sha256.Sum256(good), nil), Input: good},
		{Program: append([]byte{0xAA}, testutil.RandomBytes(40)...), Input: []byte("x")},
		{Program: append([]byte{0xBB}, testutil.RandomBytes(40)...), Input: []byte("y")},
	}

	_, err := backend.BatchProve(context.Background(), items, nil)
	require.ErrorIs(t, err, ErrUnknownCircuitKind)
	require.Contains(t, err.Error(), "0xaa")
}

// TestBackend_BatchProve_SideEffectsKept 测试失败批次中已完成项的副作用保留
func TestBackend_BatchProve_SideEffectsKept(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	good := []byte("kept")
	goodProgram := testutil.MessageProgram(sha256.Sum256(good), nil)
	items := []ifacezk.ProveItem{
		{Program: goodProgram, Input: good},
		{Program: append([]byte{0xEE}, testutil.RandomBytes(40)...), Input: []byte("x")},
	}

	_, err := backend.BatchProve(ctx, items, nil)
	require.Error(t, err)

	// 成功项的证明已入缓存：单项重证命中缓存
	_, metadata, err := backend.Prove(ctx, goodProgram, good, nil)
	require.NoError(t, err)
	require.True(t, metadata.CacheHit)
}

// TestBackend_Batch_ResourceBaselineRestored 测试批次后资源计数回到基线
func TestBackend_Batch_ResourceBaselineRestored(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	items := []ifacezk.ProveItem{
		{Program: append([]byte{0xEE}, testutil.RandomBytes(40)...), Input: []byte("x")},
		{Program: append([]byte{0xEF}, testutil.RandomBytes(40)...), Input: []byte("y")},
	}
	_, err := backend.BatchProve(ctx, items, nil)
	require.Error(t, err)

	usage := backend.ResourceUsage()
	require.Zero(t, usage.ActiveTasks)
	require.Zero(t, usage.QueueDepth)
}

// TestBackend_Batch_EmptyInput 测试空批次返回空结果
func TestBackend_Batch_EmptyInput(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	proveResults, err := backend.BatchProve(ctx, nil, nil)
	require.NoError(t, err)
	require.Empty(t, proveResults)

	verifyResults, err := backend.BatchVerify(ctx, nil, nil)
	require.NoError(t, err)
	require.Empty(t, verifyResults)
}

// TestBackend_Batch_CancelledContext 测试已取消的上下文直接拒绝批次
func TestBackend_Batch_CancelledContext(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	message := []byte("m")
	items := []ifacezk.ProveItem{
		{Program: testutil.MessageProgram(sha256.Sum256(message), nil), Input: message},
	}
	_, err := backend.BatchProve(ctx, items, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

// TestBackend_BatchVerify_MixedResults 测试批量验证的混合结果
func TestBackend_BatchVerify_MixedResults(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	message := []byte("batch verify")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)
	proof, _, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)

	tampered := append([]byte(nil), proof...)
	tampered[4] ^= 0x01

	results, err := backend.BatchVerify(ctx, []ifacezk.VerifyItem{
		{Program: program, Proof: proof},
		{Program: program, Proof: tampered},
		{Program: program, Proof: proof},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, results)
}

// TestBackend_TxVerify_EndToEnd 测试交易验证电路的完整周期
func TestBackend_TxVerify_EndToEnd(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	txBytes := testutil.SampleTransactionJSON("0xalice", "0xbob", 42_000)
	program := testutil.TxProgram(sha256.Sum256(txBytes), nil)

	proof, _, err := backend.Prove(ctx, program, txBytes, nil)
	require.NoError(t, err)

	valid, err := backend.Verify(ctx, program, proof, nil)
	require.NoError(t, err)
	require.True(t, valid)

	// 结构畸形的交易在客体断言处失败
	_, _, err = backend.Prove(ctx,
		testutil.TxProgram(sha256.Sum256([]byte("{}")), nil), []byte("{}"), nil)
	require.ErrorIs(t, err, ErrProofGeneration)
}

// TestBackend_BlockVerify_EndToEnd 测试区块验证电路的完整周期
func TestBackend_BlockVerify_EndToEnd(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	headerBytes := testutil.SampleBlockHeaderJSON(7_000_000, testutil.ValidBlockTimestamp(), 12_000_000, 30_000_000)
	program := testutil.BlockProgram(sha256.Sum256(headerBytes), 7_000_000, nil)

	proof, _, err := backend.Prove(ctx, program, headerBytes, nil)
	require.NoError(t, err)

	valid, err := backend.Verify(ctx, program, proof, nil)
	require.NoError(t, err)
	require.True(t, valid)

	// 程序期望区块号与区块头不一致
	mismatched := testutil.BlockProgram(sha256.Sum256(headerBytes), 7_000_001, nil)
	_, _, err = backend.Prove(ctx, mismatched, headerBytes, nil)
	require.ErrorIs(t, err, ErrProofGeneration)
}

// TestBackend_BlockVerify_Year2010Timestamp 测试带过期时间戳的区块头被拒绝
func TestBackend_BlockVerify_Year2010Timestamp(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	headerBytes := testutil.SampleBlockHeaderJSON(100, 1_262_304_000, 0, 1)
	program := testutil.BlockProgram(sha256.Sum256(headerBytes), 100, nil)

	_, _, err := backend.Prove(context.Background(), program, headerBytes, nil)
	require.ErrorIs(t, err, ErrProofGeneration)
}

// TestBackend_FailingEngine 测试引擎失败映射为证明生成错误
func TestBackend_FailingEngine(t *testing.T) {
	backend := newTestBackend(t, &testutil.FailingEngine{FailExecute: true}, nil)

	message := []byte("m")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	_, _, err := backend.Prove(context.Background(), program, message, nil)
	require.ErrorIs(t, err, ErrProofGeneration)
	require.Equal(t, uint64(1), backend.Stats().TotalFailures)
}

// TestBackend_FailingEngine_Compile 测试编译失败映射为后端错误
func TestBackend_FailingEngine_Compile(t *testing.T) {
	backend := newTestBackend(t, &testutil.FailingEngine{FailCompile: true}, nil)

	message := []byte("m")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)

	_, _, err := backend.Prove(context.Background(), program, message, nil)
	require.ErrorIs(t, err, ErrBackend)
}

// TestBackend_HealthCheck 测试空闲后端健康
func TestBackend_HealthCheck(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	status, err := backend.HealthCheck(context.Background())
	require.NoError(t, err)
	require.Equal(t, ifacezk.HealthHealthy, status.State)
}

// TestBackend_ClearCache_PreservesStats 测试清空缓存不影响累计统计
func TestBackend_ClearCache_PreservesStats(t *testing.T) {
	backend := newTestBackend(t, nil, nil)
	ctx := context.Background()

	message := []byte("stats survive")
	program := testutil.MessageProgram(sha256.Sum256(message), nil)
	_, _, err := backend.Prove(ctx, program, message, nil)
	require.NoError(t, err)

	require.Equal(t, 1, backend.CacheStats().CircuitEntries)
	require.Equal(t, 1, backend.CacheStats().ProofEntries)

	backend.ClearCache()

	cacheStats := backend.CacheStats()
	require.Zero(t, cacheStats.CircuitEntries)
	require.Zero(t, cacheStats.ProofEntries)
	require.Equal(t, uint64(1), backend.Stats().TotalProofs)
}

// TestBackend_Capabilities 测试能力标签
func TestBackend_Capabilities(t *testing.T) {
	backend := newTestBackend(t, nil, nil)

	capabilities := backend.Capabilities()
	require.Contains(t, capabilities, "circuit_caching")
	require.Contains(t, capabilities, "proof_caching")
	require.Contains(t, capabilities, "parallel_proving")
	require.Contains(t, capabilities, "batch_verification")
	require.Contains(t, capabilities, "deterministic")

	options := testZkOptions()
	options.EnableProofCache = false
	noCacheBackend := newTestBackend(t, nil, options)
	require.NotContains(t, noCacheBackend.Capabilities(), "proof_caching")
}
