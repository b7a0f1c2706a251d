// Package engine 定义证明引擎的内部契约
//
// 🧩 **证明引擎契约 (Proving Engine Contract)**
//
// 本包定义调度核心与具体证明系统之间的边界：
// - Compile：将引擎载荷编译/装载为可执行电路
// - Execute：在给定公开输入和私有见证下执行并产出收据
// - Check：对收据做结构有效性检查（不含电路语义谓词）
//
// ⚠️ 调度核心从不检视引擎内部的证明结构，只消费收据暴露的
// 公开输出日志（journal）。
package engine

import (
	"context"
	"encoding/binary"

	"github.com/frostgate/v1/internal/core/zkbackend/guest"
)

// CompiledCircuit 编译/装载后的电路
type CompiledCircuit struct {
	EntryTag byte     // 客体入口标签（载荷首字节）
	Image    []byte   // 原始引擎载荷
	Digest   [32]byte // 载荷内容摘要，锚定收据与镜像的对应关系
}

// Receipt 引擎执行收据
//
// Journal是公开输出日志，电路收据谓词只检查这一部分；
// Seal是引擎特定的证明材料，只由产出它的引擎解释。
type Receipt struct {
	Journal     []byte   // 公开输出日志
	Seal        []byte   // 引擎特定的证明材料
	ImageDigest [32]byte // 产出该收据的电路镜像摘要
	EngineName  string   // 产出该收据的引擎名称
}

// ProvingEngine 证明引擎契约
//
// 所有实现（本地模拟、gnark本地证明、未来的远程服务）都满足
// 同一接口，调度核心通过接口多态分发。
type ProvingEngine interface {
	// Name 返回引擎名称
	Name() string

	// Capabilities 返回引擎能力标签列表
	Capabilities() []string

	// Compile 将引擎载荷编译/装载为可执行电路
	Compile(ctx context.Context, payload []byte) (*CompiledCircuit, error)

	// Execute 执行电路并产出收据
	//
	// publicInputs是电路验证契约规定的32位字序列，
	// privateInput是原始见证字节。
	Execute(ctx context.Context, compiled *CompiledCircuit, publicInputs []uint32, privateInput []byte) (*Receipt, error)

	// Check 对收据做结构有效性检查
	//
	// 只验证证明材料本身（封签与镜像摘要、journal的绑定关系），
	// 电路语义谓词由调度核心另行应用。
	Check(ctx context.Context, receipt *Receipt) (bool, error)
}

// 收据序列化格式：
//
//	| 4字节 journal长度(LE) | journal | 4字节 seal长度(LE) | seal |
//	| 32字节 镜像摘要 | 1字节 引擎名长度 | 引擎名 |
const receiptFixedOverhead = 4 + 4 + 32 + 1

// MarshalReceipt 将收据序列化为证明字节串
func MarshalReceipt(r *Receipt) []byte {
	buf := make([]byte, 0, receiptFixedOverhead+len(r.Journal)+len(r.Seal)+len(r.EngineName))

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(r.Journal)))
	buf = append(buf, length[:]...)
	buf = append(buf, r.Journal...)

	binary.LittleEndian.PutUint32(length[:], uint32(len(r.Seal)))
	buf = append(buf, length[:]...)
	buf = append(buf, r.Seal...)

	buf = append(buf, r.ImageDigest[:]...)
	buf = append(buf, byte(len(r.EngineName)))
	buf = append(buf, r.EngineName...)
	return buf
}

// UnmarshalReceipt 从证明字节串还原收据
//
// 任何布局异常返回false，由调用方映射为序列化错误。
func UnmarshalReceipt(proof []byte) (*Receipt, bool) {
	if len(proof) < 4 {
		return nil, false
	}
	journalLen := binary.LittleEndian.Uint32(proof[:4])
	offset := 4 + int(journalLen)
	if len(proof) < offset+4 {
		return nil, false
	}
	journal := proof[4:offset]

	sealLen := binary.LittleEndian.Uint32(proof[offset : offset+4])
	offset += 4
	if len(proof) < offset+int(sealLen)+32+1 {
		return nil, false
	}
	seal := proof[offset : offset+int(sealLen)]
	offset += int(sealLen)

	r := &Receipt{
		Journal: append([]byte(nil), journal...),
		Seal:    append([]byte(nil), seal...),
	}
	copy(r.ImageDigest[:], proof[offset:offset+32])
	offset += 32

	nameLen := int(proof[offset])
	offset++
	if len(proof) != offset+nameLen {
		return nil, false
	}
	r.EngineName = string(proof[offset:])
	return r, true
}

// ExpectedNumberFromPublicInputs 从公开输入字序列还原期望区块号
//
// 区块验证电路的公开输入在32字节哈希（8个字）之后追加两个字，
// 小端组合成64位区块号；其他电路类型没有这两个字。
func ExpectedNumberFromPublicInputs(publicInputs []uint32) (uint64, bool) {
	if len(publicInputs) < 10 {
		return 0, false
	}
	return uint64(publicInputs[8]) | uint64(publicInputs[9])<<32, true
}

// GuestExecute 以客体语义执行电路并返回journal
//
// 供各引擎共享的客体执行逻辑：引擎只负责对journal施加
// 自己的封签方式。
func GuestExecute(compiled *CompiledCircuit, publicInputs []uint32, privateInput []byte) ([]byte, error) {
	expectedNumber, _ := ExpectedNumberFromPublicInputs(publicInputs)
	return guest.Execute(compiled.EntryTag, expectedNumber, privateInput)
}
