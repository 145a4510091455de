// Package genesis maintains access to the genesis file which carries the
// configuration of the ledger.
package genesis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// Defaults used when no genesis file is provided.
const (
	DefaultDifficulty = 4
	DefaultDecimals   = 8
	DefaultFee        = 50
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time         `json:"date"`
	Difficulty   uint16            `json:"difficulty"`    // How many leading '0' hex characters a block hash needs.
	MiningReward uint64            `json:"mining_reward"` // Reward in atomic units for mining a block.
	DefaultFee   uint64            `json:"default_fee"`   // Fee in atomic units used when a request provides none.
	Decimals     uint8             `json:"decimals"`      // Number of atomic unit digits in one main unit.
	Balances     map[string]uint64 `json:"balances"`      // Atomic unit balances credited with the genesis block.
}

// Default returns the genesis used when no file is provided.
func Default() Genesis {
	g := Genesis{
		Date:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: DefaultDifficulty,
		DefaultFee: DefaultFee,
		Decimals:   DefaultDecimals,
	}
	g.MiningReward = g.MainUnits(10)

	return g
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// are taken from the default genesis.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	def := Default()

	genesis := Genesis{
		Decimals:   def.Decimals,
		Difficulty: def.Difficulty,
		DefaultFee: def.DefaultFee,
	}
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.MiningReward == 0 {
		genesis.MiningReward = genesis.MainUnits(10)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the configuration can be used by a node.
func (g Genesis) Validate() error {
	const maxDifficulty = 64
	const maxDecimals = 18

	if g.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty %d is larger than a hash, max %d", g.Difficulty, maxDifficulty)
	}

	if g.Decimals > maxDecimals {
		return fmt.Errorf("decimals %d is too large, max %d", g.Decimals, maxDecimals)
	}

	return nil
}

// UnitsPerMainUnit returns the number of atomic units in one main unit.
func (g Genesis) UnitsPerMainUnit() uint64 {
	units := uint64(1)
	for i := uint8(0); i < g.Decimals; i++ {
		units *= 10
	}

	return units
}

// MainUnits converts a number of main units into atomic units, capping
// the result on overflow.
func (g Genesis) MainUnits(n uint64) uint64 {
	units := g.UnitsPerMainUnit()
	if n > math.MaxUint64/units {
		return math.MaxUint64
	}

	return n * units
}
