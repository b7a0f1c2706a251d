// Package zkbackend provides error definitions for proof dispatch operations.
package zkbackend

import (
	"errors"
	"fmt"
)

// ============================================================================
//                            证明后端错误定义
// ============================================================================

var (
	// ErrInvalidInput 无效输入错误（空输入或格式错误的调用参数）
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidProgram 无效程序错误（程序字节串无法解码）
	ErrInvalidProgram = errors.New("invalid program")

	// ErrProgramTooShort 程序过短错误（长度低于所声明电路类型的最小值）
	ErrProgramTooShort = errors.New("program too short")

	// ErrUnknownCircuitKind 未知电路类型错误
	ErrUnknownCircuitKind = errors.New("unknown circuit kind")

	// ErrProofGeneration 证明生成失败错误
	ErrProofGeneration = errors.New("proof generation failed")

	// ErrVerificationFailed 验证失败错误（引擎输出未通过电路谓词，
	// 或提交的证明未通过结构/语义校验）
	ErrVerificationFailed = errors.New("proof verification failed")

	// ErrSerialization 序列化错误（证明编码/解码失败）
	ErrSerialization = errors.New("proof serialization failed")

	// ErrBackend 后端错误（证明引擎上报的不透明失败）
	ErrBackend = errors.New("backend error")

	// ErrEngineNotConfigured 证明引擎未配置错误
	ErrEngineNotConfigured = errors.New("proving engine not configured")
)

// ============================================================================
//                               错误包装函数
// ============================================================================

// WrapInvalidInputError 包装无效输入错误
func WrapInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// WrapProgramTooShortError 包装程序过短错误
func WrapProgramTooShortError(got, want int) error {
	return fmt.Errorf("%w: got=%d, want>=%d", ErrProgramTooShort, got, want)
}

// WrapUnknownCircuitKindError 包装未知电路类型错误
func WrapUnknownCircuitKindError(tag byte) error {
	return fmt.Errorf("%w: tag=0x%02x", ErrUnknownCircuitKind, tag)
}

// WrapProofGenerationError 包装证明生成失败错误
func WrapProofGenerationError(kind string, err error) error {
	return fmt.Errorf("%w: circuit=%s, cause=%v", ErrProofGeneration, kind, err)
}

// WrapVerificationFailedError 包装验证失败错误
func WrapVerificationFailedError(kind, reason string) error {
	return fmt.Errorf("%w: circuit=%s, reason=%s", ErrVerificationFailed, kind, reason)
}

// WrapSerializationError 包装序列化错误
func WrapSerializationError(op string, err error) error {
	return fmt.Errorf("%w: op=%s, cause=%v", ErrSerialization, op, err)
}

// WrapBackendError 包装后端错误
func WrapBackendError(engine string, err error) error {
	return fmt.Errorf("%w: engine=%s, cause=%v", ErrBackend, engine, err)
}
