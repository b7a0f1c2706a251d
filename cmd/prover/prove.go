package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var proveFlags struct {
	programFlags
	InputPath  string // 见证文件路径
	OutputPath string // 证明输出路径
}

// proveCmd 证明生成命令
var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "为见证文件生成证明",
	Long: `读取见证文件（消息字节、交易JSON或区块头JSON），
构造对应电路的程序并生成证明。

示例:
  frostgate-prover prove --kind message --input msg.txt --out msg.proof
  frostgate-prover prove --kind block --input header.json --number 7000000
  frostgate-prover prove --kind tx --input tx.json --engine gnark`,
	RunE: func(cmd *cobra.Command, args []string) error {
		witness, err := os.ReadFile(proveFlags.InputPath)
		if err != nil {
			return fmt.Errorf("读取见证文件: %w", err)
		}

		program, err := buildProgram(&proveFlags.programFlags, witness)
		if err != nil {
			return err
		}

		backend, logger, err := newBackend()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer logger.Sync()

		spinner, _ := pterm.DefaultSpinner.Start("生成证明中...")
		proof, metadata, err := backend.Prove(context.Background(), program, witness, nil)
		if err != nil {
			spinner.Fail("证明生成失败")
			return err
		}
		spinner.Success("证明生成完成")

		outputPath := proveFlags.OutputPath
		if outputPath == "" {
			outputPath = proveFlags.InputPath + ".proof"
		}
		if err := os.WriteFile(outputPath, proof, 0o644); err != nil {
			return fmt.Errorf("写入证明文件: %w", err)
		}

		pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(pterm.TableData{
			{"字段", "值"},
			{"电路类型", proveFlags.Kind},
			{"证明引擎", metadata.EngineName},
			{"证明大小", fmt.Sprintf("%d 字节", metadata.ProofSize)},
			{"生成耗时", metadata.GenerationTime.String()},
			{"缓存命中", fmt.Sprintf("%v", metadata.CacheHit)},
			{"程序哈希", fmt.Sprintf("%x", metadata.ProgramHash[:8])},
			{"输出文件", outputPath},
		}).Render()

		return nil
	},
}

func init() {
	proveCmd.Flags().StringVar(&proveFlags.Kind, "kind", "message", "电路类型: message|tx|block")
	proveCmd.Flags().StringVar(&proveFlags.ExpectedHash, "expected-hash", "", "期望哈希 (hex, 默认从见证推导)")
	proveCmd.Flags().Uint64Var(&proveFlags.Number, "number", 0, "期望区块号 (仅block电路)")
	proveCmd.Flags().StringVar(&proveFlags.InputPath, "input", "", "见证文件路径")
	proveCmd.Flags().StringVar(&proveFlags.OutputPath, "out", "", "证明输出路径 (默认: <input>.proof)")
	_ = proveCmd.MarkFlagRequired("input")
}
