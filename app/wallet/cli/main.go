package main

import "github.com/foxchain/blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
