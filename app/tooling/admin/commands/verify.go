package commands

import (
	"fmt"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
)

// Verify walks the chain checking every block against its parent and
// checking every block's merkle tree.
func Verify(db *database.Database) error {
	blocks := db.Blocks()
	noop := func(v string, args ...any) {}

	var failures int
	for num, block := range blocks {
		if block.Trans != nil {
			if err := block.Trans.Verify(); err != nil {
				failures++
				fmt.Printf("Block: %d  Hash: %s  merkle tree: %s\n", num, block.Hash(), err)
			}
		}

		if num == 0 {
			continue
		}

		if err := block.ValidateBlock(blocks[num-1], noop); err != nil {
			failures++
			fmt.Printf("Block: %d  Hash: %s  %s\n", num, block.Hash(), err)
		}
	}

	fmt.Printf("\nBlocks: %d  Failures: %d\n", len(blocks), failures)

	if failures > 0 {
		return fmt.Errorf("%d problems found", failures)
	}

	return nil
}
