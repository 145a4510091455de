package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new wallet file",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	path := getWalletPath()
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("wallet %s already exists", path)
	}

	w, err := wallet.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := w.Save(path); err != nil {
		log.Fatal(err)
	}

	fmt.Println(w.Address())
}
