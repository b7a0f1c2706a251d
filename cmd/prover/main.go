// Frostgate证明后端的命令行入口
//
// 构建:
//
//	go build -o frostgate-prover ./cmd/prover
package main

func main() {
	Execute()
}
