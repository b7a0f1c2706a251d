// Package guest 实现电路客体程序的执行语义
//
// 📜 **客体执行语义 (Guest Program Semantics)**
//
// 每种电路对应一个客体程序：客体读取私有见证、做电路特定的
// 校验、把公开输出提交到journal。各证明引擎共享同一份客体
// 语义，只在封签方式上有差异。
//
// journal布局（按电路类型）：
//   - message_verify: SHA256(message)，32字节
//   - tx_verify: SHA256(tx) ++ 32字节元数据块，64字节
//   - block_verify: SHA256(header) ++ number ++ timestamp ++
//     gas_used ++ gas_limit（各8字节小端），64字节
package guest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 客体入口标签（与程序字节串的电路类型标签同值）
const (
	EntryMessageVerify byte = 0x01
	EntryTxVerify      byte = 0x02
	EntryBlockVerify   byte = 0x03
)

// 区块时间戳合法窗口（秒）
//
// 下界对应2020-09-13，上界对应2033-05-18：窗口外的时间戳
// 在跨链验证场景中只能来自伪造或损坏的区块头。
const (
	blockTimestampMin = 1_600_000_000
	blockTimestampMax = 2_000_000_000
)

// transaction 交易见证的JSON结构
type transaction struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

// blockHeader 区块头见证的JSON结构
type blockHeader struct {
	ParentHash string `json:"parent_hash"`
	Miner      string `json:"miner"`
	Number     uint64 `json:"number"`
	Timestamp  uint64 `json:"timestamp"`
	GasUsed    uint64 `json:"gas_used"`
	GasLimit   uint64 `json:"gas_limit"`
}

// Execute 执行指定入口的客体程序并返回journal
//
// 客体内部的断言失败（JSON解析失败、字段校验失败、区块号
// 不匹配等）以错误返回，由引擎映射为证明生成失败。
func Execute(entryTag byte, expectedNumber uint64, input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty guest input")
	}

	switch entryTag {
	case EntryMessageVerify:
		return executeMessageVerify(input)
	case EntryTxVerify:
		return executeTxVerify(input)
	case EntryBlockVerify:
		return executeBlockVerify(expectedNumber, input)
	default:
		return nil, fmt.Errorf("unknown guest entry tag 0x%02x", entryTag)
	}
}

// executeMessageVerify 消息验证客体
//
// 客体只提交消息摘要；摘要与期望哈希的比对由收据谓词完成。
func executeMessageVerify(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	return digest[:], nil
}

// executeTxVerify 交易验证客体
//
// 校验交易结构合法性后提交摘要与元数据块。
func executeTxVerify(txBytes []byte) ([]byte, error) {
	var tx transaction
	if err := json.Unmarshal(txBytes, &tx); err != nil {
		return nil, fmt.Errorf("malformed transaction: %v", err)
	}
	if !strings.HasPrefix(tx.From, "0x") {
		return nil, fmt.Errorf("transaction from address must start with 0x")
	}
	if !strings.HasPrefix(tx.To, "0x") {
		return nil, fmt.Errorf("transaction to address must start with 0x")
	}
	value, err := strconv.ParseUint(tx.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("transaction value must be a u64 decimal: %v", err)
	}

	digest := sha256.Sum256(txBytes)

	// 元数据块：from长度、to长度、value、保留字段（各8字节小端）
	journal := make([]byte, 64)
	copy(journal[:32], digest[:])
	binary.LittleEndian.PutUint64(journal[32:40], uint64(len(tx.From)))
	binary.LittleEndian.PutUint64(journal[40:48], uint64(len(tx.To)))
	binary.LittleEndian.PutUint64(journal[48:56], value)
	return journal, nil
}

// executeBlockVerify 区块验证客体
//
// 客体内断言区块号匹配、时间戳窗口和gas排序；断言通过后
// 提交摘要与区块头关键字段。
func executeBlockVerify(expectedNumber uint64, headerBytes []byte) ([]byte, error) {
	var header blockHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("malformed block header: %v", err)
	}
	if !strings.HasPrefix(header.ParentHash, "0x") {
		return nil, fmt.Errorf("block parent_hash must start with 0x")
	}
	if !strings.HasPrefix(header.Miner, "0x") {
		return nil, fmt.Errorf("block miner must start with 0x")
	}
	if header.Number != expectedNumber {
		return nil, fmt.Errorf("block number mismatch: header=%d, expected=%d", header.Number, expectedNumber)
	}
	if header.Timestamp < blockTimestampMin || header.Timestamp >= blockTimestampMax {
		return nil, fmt.Errorf("block timestamp %d outside valid window", header.Timestamp)
	}
	if header.GasUsed > header.GasLimit {
		return nil, fmt.Errorf("block gas_used %d exceeds gas_limit %d", header.GasUsed, header.GasLimit)
	}

	digest := sha256.Sum256(headerBytes)

	journal := make([]byte, 64)
	copy(journal[:32], digest[:])
	binary.LittleEndian.PutUint64(journal[32:40], header.Number)
	binary.LittleEndian.PutUint64(journal[40:48], header.Timestamp)
	binary.LittleEndian.PutUint64(journal[48:56], header.GasUsed)
	binary.LittleEndian.PutUint64(journal[56:64], header.GasLimit)
	return journal, nil
}
