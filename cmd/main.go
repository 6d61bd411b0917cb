package main

import cmd "github.com/kerbaras/mangadesk/cmd/mangadesk"

func main() {
	cmd.Execute()
}
