package app

import (
	"fmt"
	"strconv"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	// "migrate down [N]" でN段階（既定1）ロールバックする。
	CommandMigrate Command = "migrate"
	// CommandSeed はYAMLカタログから身分証明書種別を登録することを示す。
	CommandSeed Command = "seed"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "seed":
		return CommandSeed
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}

// MigrateOptions はmigrateサブコマンドの引数。
type MigrateOptions struct {
	Down  bool
	Steps int
}

// ParseMigrateArgs はmigrateに続く引数を解析する。
// 引数なし（または"up"）は全適用、"down [N]" はN段階のロールバック。
func ParseMigrateArgs(args []string) (MigrateOptions, error) {
	if len(args) == 0 || args[0] == "up" {
		return MigrateOptions{}, nil
	}
	if args[0] != "down" {
		return MigrateOptions{}, fmt.Errorf("unknown migrate direction: %q", args[0])
	}

	opts := MigrateOptions{Down: true, Steps: 1}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return MigrateOptions{}, fmt.Errorf("invalid rollback steps: %q", args[1])
		}
		opts.Steps = n
	}
	return opts, nil
}

// ParseSeedArgs はseedに続く引数からカタログファイルのパスを取り出す。
func ParseSeedArgs(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("seed requires a catalog file path")
	}
	return args[0], nil
}
