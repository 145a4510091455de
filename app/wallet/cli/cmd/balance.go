package cmd

import (
	"fmt"
	"log"

	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

type account struct {
	Address     string `json:"address"`
	Balance     string `json:"balance"`
	NanoBalance uint64 `json:"nanoBalance"`
	Nonce       uint64 `json:"nonce"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	w, err := wallet.Load(getWalletPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Account:", w.Address())

	var acc account
	if err := get(fmt.Sprintf("%s/v1/account/%s", url, w.Address()), &acc); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Balance: %s (nonce %d)\n", acc.Balance, acc.Nonce)
}
