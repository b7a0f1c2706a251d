package zkbackend

import (
	"encoding/binary"

	"github.com/frostgate/v1/internal/core/infrastructure/crypto/hash"
)

// ==================== 电路验证契约 ====================

// Circuit 电路验证契约
//
// 🎯 **契约职责**：每种电路类型规定三件事：
// - 喂给证明引擎的公开输入字序列（由程序的固定公开参数确定性派生）
// - 私有见证字节（原始消息/交易/区块头，缓存键之外从不以明文存储）
// - 收据谓词：对引擎公开输出日志的纯判定
type Circuit interface {
	// Kind 返回电路类型
	Kind() CircuitKind

	// ImagePayload 返回交给引擎编译的载荷
	//
	// 程序自带载荷时原样返回；否则返回内置的单字节入口镜像。
	ImagePayload() []byte

	// PublicInputs 返回公开输入字序列
	PublicInputs() []uint32

	// PrivateInputs 返回私有见证字节
	PrivateInputs() []byte

	// VerifyReceipt 收据谓词：判定引擎公开输出日志是否自洽
	//
	// 纯函数，只返回布尔值；诊断细节是日志层的职责。
	VerifyReceipt(journal []byte) bool
}

// NewCircuit 根据程序描述符和见证构造电路
func NewCircuit(desc *ProgramDescriptor, input []byte) Circuit {
	base := baseCircuit{desc: desc, input: input}
	switch desc.Kind {
	case CircuitTxVerify:
		return &txVerifyCircuit{base}
	case CircuitBlockVerify:
		return &blockVerifyCircuit{base}
	default:
		return &messageVerifyCircuit{base}
	}
}

// baseCircuit 三种电路共享的程序参数与见证
type baseCircuit struct {
	desc  *ProgramDescriptor
	input []byte
}

// Kind 返回电路类型
func (c *baseCircuit) Kind() CircuitKind {
	return c.desc.Kind
}

// ImagePayload 返回引擎载荷
func (c *baseCircuit) ImagePayload() []byte {
	if len(c.desc.EnginePayload) > 0 {
		return c.desc.EnginePayload
	}
	// 内置镜像：单字节客体入口标签
	return []byte{byte(c.desc.Kind)}
}

// PrivateInputs 返回私有见证
func (c *baseCircuit) PrivateInputs() []byte {
	return c.input
}

// hashWords 把32字节期望哈希拆成8个小端32位字
func (c *baseCircuit) hashWords() []uint32 {
	words := make([]uint32, 0, 10)
	for i := 0; i < 32; i += 4 {
		words = append(words, binary.LittleEndian.Uint32(c.desc.ExpectedHash[i:i+4]))
	}
	return words
}

// ==================== 消息验证电路 ====================

// messageVerifyCircuit 消息验证电路
//
// 收据谓词：journal必须恰为32字节且等于期望哈希。
type messageVerifyCircuit struct {
	baseCircuit
}

func (c *messageVerifyCircuit) PublicInputs() []uint32 {
	return c.hashWords()
}

func (c *messageVerifyCircuit) VerifyReceipt(journal []byte) bool {
	if len(journal) != 32 {
		return false
	}
	return hash.ConstantTimeCompare(journal, c.desc.ExpectedHash[:])
}

// ==================== 交易验证电路 ====================

// txVerifyCircuit 交易验证电路
//
// 收据谓词：journal至少64字节，前32字节等于期望哈希；
// 其余是客体提交的交易元数据，谓词不检视。
type txVerifyCircuit struct {
	baseCircuit
}

func (c *txVerifyCircuit) PublicInputs() []uint32 {
	return c.hashWords()
}

func (c *txVerifyCircuit) VerifyReceipt(journal []byte) bool {
	if len(journal) < 64 {
		return false
	}
	return hash.ConstantTimeCompare(journal[:32], c.desc.ExpectedHash[:])
}

// ==================== 区块验证电路 ====================

// blockVerifyCircuit 区块验证电路
//
// 收据谓词为四项独立检查的合取：
//  1. journal[0:32]等于期望哈希
//  2. journal[32:40]（u64小端）等于期望区块号
//  3. journal[40:48]时间戳落在合法窗口内
//  4. journal[48:56] gas_used <= journal[56:64] gas_limit
type blockVerifyCircuit struct {
	baseCircuit
}

// 区块时间戳合法窗口（秒），与客体断言保持一致
const (
	blockTimestampMin = 1_600_000_000
	blockTimestampMax = 2_000_000_000
)

func (c *blockVerifyCircuit) PublicInputs() []uint32 {
	words := c.hashWords()
	words = append(words, uint32(c.desc.ExpectedNumber), uint32(c.desc.ExpectedNumber>>32))
	return words
}

func (c *blockVerifyCircuit) VerifyReceipt(journal []byte) bool {
	if len(journal) < 64 {
		return false
	}
	if !hash.ConstantTimeCompare(journal[:32], c.desc.ExpectedHash[:]) {
		return false
	}
	if binary.LittleEndian.Uint64(journal[32:40]) != c.desc.ExpectedNumber {
		return false
	}
	timestamp := binary.LittleEndian.Uint64(journal[40:48])
	if timestamp < blockTimestampMin || timestamp >= blockTimestampMax {
		return false
	}
	gasUsed := binary.LittleEndian.Uint64(journal[48:56])
	gasLimit := binary.LittleEndian.Uint64(journal[56:64])
	return gasUsed <= gasLimit
}
