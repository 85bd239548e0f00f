package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はWebサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandLogin はCLIからログインし、トークンをファイルに保存する。
	CommandLogin Command = "login"
	// CommandLogout はCLIのトークンファイルを削除する。
	CommandLogout Command = "logout"
	// CommandStatus はCLIのログイン状態を表示する。
	CommandStatus Command = "status"
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
	case "healthcheck":
		return CommandHealthcheck
	case "login":
		return CommandLogin
	case "logout":
		return CommandLogout
	case "status":
		return CommandStatus
	default:
		return CommandServe
	}
}
