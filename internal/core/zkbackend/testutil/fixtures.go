// Package testutil 提供证明后端模块测试的辅助工具
//
// 🧪 **测试数据Fixtures**
//
// 本文件提供测试数据的创建函数：程序字节串构造、客体输入
// 样例等。程序线格式在这里手工拼装而非复用生产编码器，
// 让编码器本身的测试不依赖被测代码。

package testutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// 客体入口标签（与生产代码的电路类型标签一致）
const (
	TagMessageVerify = 0x01
	TagTxVerify      = 0x02
	TagBlockVerify   = 0x03
)

// ==================== 测试数据 Fixtures ====================

// RandomBytes 生成随机字节数组
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	rand.Read(b)
	return b
}

// RandomHash 生成随机哈希（32 字节）
func RandomHash() [32]byte {
	var h [32]byte
	copy(h[:], RandomBytes(32))
	return h
}

// HashOf 计算SHA256摘要
func HashOf(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// MessageProgram 拼装消息验证程序
//
// 线格式：[0x01][期望哈希32B][引擎载荷...]
func MessageProgram(expectedHash [32]byte, enginePayload []byte) []byte {
	program := make([]byte, 0, 33+len(enginePayload))
	program = append(program, TagMessageVerify)
	program = append(program, expectedHash[:]...)
	return append(program, enginePayload...)
}

// TxProgram 拼装交易验证程序
//
// 线格式：[0x02][期望哈希32B][引擎载荷...]
func TxProgram(expectedHash [32]byte, enginePayload []byte) []byte {
	program := make([]byte, 0, 33+len(enginePayload))
	program = append(program, TagTxVerify)
	program = append(program, expectedHash[:]...)
	return append(program, enginePayload...)
}

// BlockProgram 拼装区块验证程序
//
// 线格式：[0x03][期望哈希32B][期望区块号8B小端][引擎载荷...]
func BlockProgram(expectedHash [32]byte, expectedNumber uint64, enginePayload []byte) []byte {
	program := make([]byte, 0, 41+len(enginePayload))
	program = append(program, TagBlockVerify)
	program = append(program, expectedHash[:]...)
	var number [8]byte
	binary.LittleEndian.PutUint64(number[:], expectedNumber)
	program = append(program, number[:]...)
	return append(program, enginePayload...)
}

// SampleTransactionJSON 构造合法的交易JSON输入
func SampleTransactionJSON(from, to string, value uint64) []byte {
	return []byte(fmt.Sprintf(`{"from":"%s","to":"%s","value":"%d"}`, from, to, value))
}

// SampleBlockHeaderJSON 构造合法的区块头JSON输入
func SampleBlockHeaderJSON(number, timestamp, gasUsed, gasLimit uint64) []byte {
	return []byte(fmt.Sprintf(
		`{"parent_hash":"0x%064x","number":%d,"timestamp":%d,"gas_used":%d,"gas_limit":%d,"miner":"0x%040x"}`,
		number, number, timestamp, gasUsed, gasLimit, number))
}

// ValidBlockTimestamp 返回落在可接受窗口内的时间戳
func ValidBlockTimestamp() uint64 {
	return 1_700_000_000
}
