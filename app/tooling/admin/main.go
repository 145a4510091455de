// This program performs administrative tasks against a node's ledger. The
// node must be stopped since the store allows a single process at a time.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/foxchain/blockchain/app/tooling/admin/commands"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/database/storage/leveldb"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
	"github.com/foxchain/blockchain/foundation/blockchain/state"
	"github.com/foxchain/blockchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		Port        int    `conf:"default:8080"`
		DataRoot    string `conf:"default:zblock"`
		GenesisPath string `conf:"default:zblock/genesis.json"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "foxchain ledger admin",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.GenesisPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		gen = genesis.Default()
	case err != nil:
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	dbPath, _ := state.Paths(cfg.DataRoot, cfg.Port)

	strg, err := leveldb.New(dbPath)
	if err != nil {
		return err
	}

	// Problems found while loading the ledger are reported through here.
	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	db, err := database.New(strg, ev)
	if err != nil {
		strg.Close()
		return err
	}
	defer db.Close()

	return processCommands(cfg.Args, gen, db)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, gen genesis.Genesis, db *database.Database) error {
	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(args, gen, db); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}

	case "trans":
		if err := commands.Transactions(args, gen, db); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}

	case "verify":
		if err := commands.Verify(db); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}

	default:
		fmt.Println("bals [address]: show the balance of every account or one account")
		fmt.Println("trans [address]: show every mined transaction or those of one account")
		fmt.Println("verify: check every block links to its parent and holds its transactions")
		fmt.Println("provide a command to get more help.")
		return errors.New("command not provided")
	}

	return nil
}
