package app

import (
	"fmt"
	"strings"
)

// Command はhomeinspectのサブコマンド。
type Command string

const (
	// CommandServe はWebサーバーを起動する。引数なしの場合の既定。
	CommandServe Command = "serve"
	// CommandMigrate はマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中サーバーの /health を確認する。
	// distrolessイメージのHEALTHCHECKから呼ばれる。
	CommandHealthcheck Command = "healthcheck"
)

// commands は受け付けるサブコマンドの一覧（usage表示順）。
var commands = []Command{CommandServe, CommandMigrate, CommandHealthcheck}

// Usage はサブコマンドの一覧を1行で返す。
func Usage() string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = string(c)
	}
	return "usage: homeinspect [" + strings.Join(names, "|") + "]"
}

// ParseCommand は先頭の引数をサブコマンドとして解釈する。残りの引数は無視する。
// 引数がなければCommandServe、未知のサブコマンドはエラーを返す。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}
	for _, c := range commands {
		if args[0] == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q\n%s", args[0], Usage())
}
