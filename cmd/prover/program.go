package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/frostgate/v1/internal/core/zkbackend"
)

// programFlags 程序构造标志（prove与verify共用）
type programFlags struct {
	Kind         string // 电路类型: message|tx|block
	ExpectedHash string // 期望哈希（hex，留空时从见证文件推导）
	Number       uint64 // 期望区块号（仅block电路）
}

// parseCircuitKind 解析电路类型名称
func parseCircuitKind(name string) (zkbackend.CircuitKind, error) {
	switch strings.ToLower(name) {
	case "message", "message_verify":
		return zkbackend.CircuitMessageVerify, nil
	case "tx", "tx_verify":
		return zkbackend.CircuitTxVerify, nil
	case "block", "block_verify":
		return zkbackend.CircuitBlockVerify, nil
	default:
		return 0, fmt.Errorf("未知电路类型 %q (可选: message|tx|block)", name)
	}
}

// buildProgram 按标志构造程序字节串
//
// 期望哈希未显式给出时从见证内容推导：证明自己构造的输入
// 是最常见的使用方式。
func buildProgram(flags *programFlags, witness []byte) ([]byte, error) {
	kind, err := parseCircuitKind(flags.Kind)
	if err != nil {
		return nil, err
	}

	desc := &zkbackend.ProgramDescriptor{
		Kind:           kind,
		ExpectedNumber: flags.Number,
	}

	if flags.ExpectedHash != "" {
		raw, err := hex.DecodeString(strings.TrimPrefix(flags.ExpectedHash, "0x"))
		if err != nil {
			return nil, fmt.Errorf("解析期望哈希: %w", err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("期望哈希必须是32字节，实际%d字节", len(raw))
		}
		copy(desc.ExpectedHash[:], raw)
	} else {
		if len(witness) == 0 {
			return nil, fmt.Errorf("未给出期望哈希时必须提供见证文件用于推导")
		}
		desc.ExpectedHash = sha256.Sum256(witness)
	}

	return zkbackend.EncodeProgram(desc), nil
}
