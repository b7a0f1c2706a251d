package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var verifyFlags struct {
	programFlags
	ProofPath string // 证明文件路径
	InputPath string // 见证文件路径（仅用于推导期望哈希）
}

// verifyCmd 证明验证命令
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "验证证明文件",
	Long: `校验证明文件对给定程序是否有效。

程序由电路类型与期望哈希确定：期望哈希可显式给出，
也可从原始见证文件推导。验证本身不需要见证内容。

示例:
  frostgate-prover verify --kind message --proof msg.proof --input msg.txt
  frostgate-prover verify --kind block --proof header.proof --number 7000000 --expected-hash 0x...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proof, err := os.ReadFile(verifyFlags.ProofPath)
		if err != nil {
			return fmt.Errorf("读取证明文件: %w", err)
		}

		var witness []byte
		if verifyFlags.InputPath != "" {
			witness, err = os.ReadFile(verifyFlags.InputPath)
			if err != nil {
				return fmt.Errorf("读取见证文件: %w", err)
			}
		}

		program, err := buildProgram(&verifyFlags.programFlags, witness)
		if err != nil {
			return err
		}

		backend, logger, err := newBackend()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer logger.Sync()

		valid, err := backend.Verify(context.Background(), program, proof, nil)
		if err != nil {
			return err
		}

		if valid {
			pterm.Success.Println("证明有效")
			return nil
		}
		pterm.Error.Println("证明无效")
		os.Exit(1)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFlags.Kind, "kind", "message", "电路类型: message|tx|block")
	verifyCmd.Flags().StringVar(&verifyFlags.ExpectedHash, "expected-hash", "", "期望哈希 (hex)")
	verifyCmd.Flags().Uint64Var(&verifyFlags.Number, "number", 0, "期望区块号 (仅block电路)")
	verifyCmd.Flags().StringVar(&verifyFlags.ProofPath, "proof", "", "证明文件路径")
	verifyCmd.Flags().StringVar(&verifyFlags.InputPath, "input", "", "见证文件路径 (用于推导期望哈希)")
	_ = verifyCmd.MarkFlagRequired("proof")
}
