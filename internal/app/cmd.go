package app

import (
	"fmt"
	"io"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーを起動する。引数なしの場合のデフォルト。
	CommandServe Command = "serve"
	// CommandHealthcheck は起動中サーバーの/healthを叩き、200以外なら失敗する。
	// distrolessイメージのDocker HEALTHCHECK用。
	CommandHealthcheck Command = "healthcheck"
	// CommandHelp は利用可能なサブコマンドを表示する。
	CommandHelp Command = "help"
)

// commands はサブコマンドと説明の一覧。Usageの表示順を兼ねる。
var commands = []struct {
	cmd  Command
	desc string
}{
	{CommandServe, "start the users API server (default)"},
	{CommandHealthcheck, "GET http://localhost:$PORT/health and exit non-zero unless 200"},
	{CommandHelp, "show this message"},
}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 引数が空の場合はCommandServeを返す。未知のサブコマンドはknown=falseとしてCommandServeにフォールバックする。
func ParseCommand(args []string) (cmd Command, known bool) {
	if len(args) == 0 {
		return CommandServe, true
	}
	for _, c := range commands {
		if string(c.cmd) == args[0] {
			return c.cmd, true
		}
	}
	return CommandServe, false
}

// WriteUsage はサブコマンドの一覧をwに書き込む。
func WriteUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: usersapi [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.cmd, c.desc)
	}
}
