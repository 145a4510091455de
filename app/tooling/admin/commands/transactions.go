package commands

import (
	"fmt"

	"github.com/ardanlabs/conf/v3"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
)

// Transactions prints the mined transactions in chain order.
func Transactions(args conf.Args, gen genesis.Genesis, db *database.Database) error {
	var accountID database.AccountID
	if addr := args.Num(1); addr != "" {
		var err error
		if accountID, err = database.ToAccountID(addr); err != nil {
			return err
		}
	}

	for num, block := range db.Blocks() {
		for _, tx := range block.Transactions() {
			if accountID != "" && !tx.Touches(accountID) {
				continue
			}

			fmt.Printf("Block: %d  Hash: %s  From: %s  To: %s  Value: %s  Fee: %s  Nonce: %d  Comment: %q\n",
				num, tx.Hash(), tx.Sender, tx.Recipient, gen.FormatUnits(tx.Value), gen.FormatUnits(tx.Fee), tx.Nonce, tx.Comment)
		}
	}

	return nil
}
