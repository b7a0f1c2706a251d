// 程序编解码：从不透明程序字节串解码电路类型与固定公开参数。
//
// 🔐 **程序线格式 (Program Wire Format)**：
// - [0]      电路类型标签（0x01消息 / 0x02交易 / 0x03区块）
// - [1,33)   期望哈希（32字节）
// - [33,41)  期望区块号（小端8字节，仅区块电路）
// - 其余     引擎载荷（不透明转交证明引擎）
//
// ⚠️ **失败关闭**：长度不足或标签未知的程序一律拒绝解码，
// 绝不猜测语义。

package zkbackend

import (
	"encoding/binary"
)

// CircuitKind 电路类型标签
type CircuitKind byte

const (
	// CircuitMessageVerify 消息验证电路
	CircuitMessageVerify CircuitKind = 0x01
	// CircuitTxVerify 交易验证电路
	CircuitTxVerify CircuitKind = 0x02
	// CircuitBlockVerify 区块验证电路
	CircuitBlockVerify CircuitKind = 0x03
)

// String 返回电路类型的可读名称
func (k CircuitKind) String() string {
	switch k {
	case CircuitMessageVerify:
		return "message_verify"
	case CircuitTxVerify:
		return "tx_verify"
	case CircuitBlockVerify:
		return "block_verify"
	default:
		return "unknown"
	}
}

// 程序字节串布局常量
const (
	// programHeaderLen 所有电路类型共有的最小长度：1字节标签 + 32字节期望哈希
	programHeaderLen = 1 + 32

	// programBlockHeaderLen 区块验证电路的最小长度：再加8字节期望区块号
	programBlockHeaderLen = programHeaderLen + 8
)

// ProgramDescriptor 程序描述符
//
// 从程序字节串解码得到的结构化视图：
//
//	| 偏移    | 字段            | 说明                              |
//	|---------|-----------------|-----------------------------------|
//	| 0       | 电路类型标签    | 0x01/0x02/0x03，其余值拒绝        |
//	| 1..33   | expected_hash   | 所有类型必需                      |
//	| 33..41  | expected_number | 仅区块验证电路（小端）            |
//	| 其余    | engine_payload  | 交给证明引擎的不透明载荷          |
type ProgramDescriptor struct {
	Kind           CircuitKind // 电路类型
	ExpectedHash   [32]byte    // 期望的内容哈希
	ExpectedNumber uint64      // 期望的区块号（仅区块验证电路有效）
	EnginePayload  []byte      // 引擎载荷（可执行镜像等）
}

// DecodeProgram 解码程序字节串
//
// 解码是纯函数：无副作用、不触碰缓存。任何布局异常都安全失败，
// 绝不静默截断。
//
// 返回：
//   - ErrProgramTooShort: 长度低于所声明电路类型的最小值
//   - ErrUnknownCircuitKind: 电路类型标签不在已知集合内
func DecodeProgram(program []byte) (*ProgramDescriptor, error) {
	if len(program) < programHeaderLen {
		return nil, WrapProgramTooShortError(len(program), programHeaderLen)
	}

	kind := CircuitKind(program[0])
	switch kind {
	case CircuitMessageVerify, CircuitTxVerify, CircuitBlockVerify:
	default:
		return nil, WrapUnknownCircuitKindError(program[0])
	}

	desc := &ProgramDescriptor{Kind: kind}
	copy(desc.ExpectedHash[:], program[1:programHeaderLen])

	offset := programHeaderLen
	if kind == CircuitBlockVerify {
		if len(program) < programBlockHeaderLen {
			return nil, WrapProgramTooShortError(len(program), programBlockHeaderLen)
		}
		desc.ExpectedNumber = binary.LittleEndian.Uint64(program[programHeaderLen:programBlockHeaderLen])
		offset = programBlockHeaderLen
	}

	if len(program) > offset {
		// 拷贝而非切片引用，调用方可自由持有描述符
		desc.EnginePayload = make([]byte, len(program)-offset)
		copy(desc.EnginePayload, program[offset:])
	}

	return desc, nil
}

// EncodeProgram 将程序描述符编码为程序字节串
//
// 解码的逆操作，供CLI和测试构造程序使用。
func EncodeProgram(desc *ProgramDescriptor) []byte {
	size := programHeaderLen + len(desc.EnginePayload)
	if desc.Kind == CircuitBlockVerify {
		size += 8
	}

	program := make([]byte, 0, size)
	program = append(program, byte(desc.Kind))
	program = append(program, desc.ExpectedHash[:]...)
	if desc.Kind == CircuitBlockVerify {
		var number [8]byte
		binary.LittleEndian.PutUint64(number[:], desc.ExpectedNumber)
		program = append(program, number[:]...)
	}
	program = append(program, desc.EnginePayload...)
	return program
}
