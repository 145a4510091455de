// Package commands contains the functionality for the set of commands
// currently supported by the admin cli.
package commands

import (
	"fmt"

	"github.com/ardanlabs/conf/v3"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
)

// Balances prints the current set of balances.
func Balances(args conf.Args, gen genesis.Genesis, db *database.Database) error {
	fmt.Printf("LatestBlockHash: %s\n\n", db.LatestBlock().Hash())

	if addr := args.Num(1); addr != "" {
		accountID, err := database.ToAccountID(addr)
		if err != nil {
			return err
		}

		acc, err := db.Account(accountID)
		if err != nil {
			return err
		}

		printAccount(gen, acc)
		return nil
	}

	var total uint64
	for _, acc := range db.SortedAccounts() {
		total += acc.Balance
		printAccount(gen, acc)
	}

	fmt.Printf("\nTotal: %s\n", gen.FormatUnits(total))

	return nil
}

func printAccount(gen genesis.Genesis, acc database.Account) {
	fmt.Printf("Account: %s  Balance: %s  Nonce: %d\n", acc.AccountID, gen.FormatUnits(acc.Balance), acc.Nonce)
}
