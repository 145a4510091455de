package cmd

import (
	"fmt"
	"log"

	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:     "address",
	Aliases: []string{"account"},
	Short:   "Print the address of the wallet",
	Run:     addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) {
	w, err := wallet.Load(getWalletPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(w.Address())
}
