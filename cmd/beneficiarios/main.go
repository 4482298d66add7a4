// Command beneficiarios は受益者登録APIサーバーを起動する。
//
// サブコマンド:
//
//	serve                 APIサーバーを起動する（既定）
//	migrate [up|down N]   データベースマイグレーションを実行する
//	seed <file>           YAMLカタログから身分証明書種別を登録する
//	healthcheck           ローカルの/healthを確認する（Dockerヘルスチェック用）
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/beneficiarios/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "beneficiarios: %v\n", err)
		os.Exit(1)
	}
}
