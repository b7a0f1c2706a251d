package zkbackend

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frostgate/v1/internal/core/zkbackend/testutil"
)

// ============================================================================
// circuits.go 测试
// ============================================================================

// buildBlockJournal 按客体布局拼装区块journal
func buildBlockJournal(digest [32]byte, number, timestamp, gasUsed, gasLimit uint64) []byte {
	journal := make([]byte, 64)
	copy(journal[:32], digest[:])
	binary.LittleEndian.PutUint64(journal[32:40], number)
	binary.LittleEndian.PutUint64(journal[40:48], timestamp)
	binary.LittleEndian.PutUint64(journal[48:56], gasUsed)
	binary.LittleEndian.PutUint64(journal[56:64], gasLimit)
	return journal
}

// TestNewCircuit_KindDispatch 测试电路构造按类型分发
func TestNewCircuit_KindDispatch(t *testing.T) {
	hash := testutil.RandomHash()
	for _, kind := range []CircuitKind{CircuitMessageVerify, CircuitTxVerify, CircuitBlockVerify} {
		circuit := NewCircuit(&ProgramDescriptor{Kind: kind, ExpectedHash: hash}, nil)
		require.Equal(t, kind, circuit.Kind())
	}
}

// TestCircuit_ImagePayload_BuiltIn 测试程序无载荷时使用内置单字节镜像
func TestCircuit_ImagePayload_BuiltIn(t *testing.T) {
	circuit := NewCircuit(&ProgramDescriptor{Kind: CircuitTxVerify, ExpectedHash: testutil.RandomHash()}, nil)
	require.Equal(t, []byte{byte(CircuitTxVerify)}, circuit.ImagePayload())
}

// TestCircuit_ImagePayload_Explicit 测试程序自带载荷时原样透传
func TestCircuit_ImagePayload_Explicit(t *testing.T) {
	payload := append([]byte{byte(CircuitMessageVerify)}, testutil.RandomBytes(8)...)
	circuit := NewCircuit(&ProgramDescriptor{
		Kind:          CircuitMessageVerify,
		ExpectedHash:  testutil.RandomHash(),
		EnginePayload: payload,
	}, nil)
	require.Equal(t, payload, circuit.ImagePayload())
}

// TestCircuit_PublicInputs 测试公开输入字序列派生
func TestCircuit_PublicInputs(t *testing.T) {
	var hash [32]byte
	binary.LittleEndian.PutUint32(hash[0:4], 0xDEADBEEF)

	message := NewCircuit(&ProgramDescriptor{Kind: CircuitMessageVerify, ExpectedHash: hash}, nil)
	words := message.PublicInputs()
	require.Len(t, words, 8)
	require.Equal(t, uint32(0xDEADBEEF), words[0])

	// 区块电路在哈希字之后追加区块号的低32位与高32位
	number := uint64(0x0000000500000007)
	block := NewCircuit(&ProgramDescriptor{
		Kind:           CircuitBlockVerify,
		ExpectedHash:   hash,
		ExpectedNumber: number,
	}, nil)
	words = block.PublicInputs()
	require.Len(t, words, 10)
	require.Equal(t, uint32(0x00000007), words[8])
	require.Equal(t, uint32(0x00000005), words[9])
}

// TestMessageCircuit_VerifyReceipt 测试消息电路收据谓词
func TestMessageCircuit_VerifyReceipt(t *testing.T) {
	message := []byte("Hello, World!")
	expectedHash := sha256.Sum256(message)
	circuit := NewCircuit(&ProgramDescriptor{Kind: CircuitMessageVerify, ExpectedHash: expectedHash}, message)

	journal := sha256.Sum256(message)
	require.True(t, circuit.VerifyReceipt(journal[:]))

	// 错误长度
	require.False(t, circuit.VerifyReceipt(journal[:16]))
	require.False(t, circuit.VerifyReceipt(nil))

	// 哈希不匹配
	wrong := testutil.RandomHash()
	require.False(t, circuit.VerifyReceipt(wrong[:]))
}

// TestTxCircuit_VerifyReceipt 测试交易电路收据谓词
func TestTxCircuit_VerifyReceipt(t *testing.T) {
	txBytes := testutil.SampleTransactionJSON("0xabc", "0xdef", 1000)
	expectedHash := sha256.Sum256(txBytes)
	circuit := NewCircuit(&ProgramDescriptor{Kind: CircuitTxVerify, ExpectedHash: expectedHash}, txBytes)

	journal := make([]byte, 64)
	copy(journal[:32], expectedHash[:])
	require.True(t, circuit.VerifyReceipt(journal))

	// journal不足64字节
	require.False(t, circuit.VerifyReceipt(journal[:63]))

	// 前32字节不等于期望哈希
	tampered := append([]byte(nil), journal...)
	tampered[0] ^= 0x01
	require.False(t, circuit.VerifyReceipt(tampered))
}

// TestBlockCircuit_VerifyReceipt 测试区块电路收据谓词的四项合取检查
func TestBlockCircuit_VerifyReceipt(t *testing.T) {
	headerBytes := testutil.SampleBlockHeaderJSON(100, testutil.ValidBlockTimestamp(), 21_000, 30_000_000)
	digest := sha256.Sum256(headerBytes)
	circuit := NewCircuit(&ProgramDescriptor{
		Kind:           CircuitBlockVerify,
		ExpectedHash:   digest,
		ExpectedNumber: 100,
	}, headerBytes)

	valid := buildBlockJournal(digest, 100, testutil.ValidBlockTimestamp(), 21_000, 30_000_000)
	require.True(t, circuit.VerifyReceipt(valid))

	// 区块号不匹配
	require.False(t, circuit.VerifyReceipt(
		buildBlockJournal(digest, 101, testutil.ValidBlockTimestamp(), 21_000, 30_000_000)))

	// 时间戳在窗口下界之前（2010年）
	require.False(t, circuit.VerifyReceipt(
		buildBlockJournal(digest, 100, 1_262_304_000, 21_000, 30_000_000)))

	// 时间戳达到窗口上界
	require.False(t, circuit.VerifyReceipt(
		buildBlockJournal(digest, 100, 2_000_000_000, 21_000, 30_000_000)))

	// gas_used 超过 gas_limit
	require.False(t, circuit.VerifyReceipt(
		buildBlockJournal(digest, 100, testutil.ValidBlockTimestamp(), 30_000_001, 30_000_000)))

	// 哈希不匹配
	require.False(t, circuit.VerifyReceipt(
		buildBlockJournal(testutil.RandomHash(), 100, testutil.ValidBlockTimestamp(), 21_000, 30_000_000)))

	// journal过短
	require.False(t, circuit.VerifyReceipt(valid[:63]))
}
