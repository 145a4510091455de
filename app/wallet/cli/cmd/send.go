package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	to      string
	value   string
	fee     string
	nonce   int64
	comment string
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().StringVarP(&value, "value", "v", "", "Value to send in main units.")
	sendCmd.Flags().StringVarP(&fee, "fee", "f", "", "Fee to pay in main units, the node default when empty.")
	sendCmd.Flags().Int64VarP(&nonce, "nonce", "n", -1, "Nonce of the transaction, the account nonce when negative.")
	sendCmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment to attach.")
}

func sendRun(cmd *cobra.Command, args []string) {
	w, err := wallet.Load(getWalletPath())
	if err != nil {
		log.Fatal(err)
	}

	// The node converts amounts with its own decimals, so the wallet signs
	// the same atomic values the node will compute.
	var gen genesis.Genesis
	if err := get(fmt.Sprintf("%s/v1/genesis", url), &gen); err != nil {
		log.Fatal(err)
	}

	atomicValue, err := gen.ParseUnits(value)
	if err != nil {
		log.Fatal(err)
	}

	atomicFee := gen.DefaultFee
	if fee != "" {
		if atomicFee, err = gen.ParseUnits(fee); err != nil {
			log.Fatal(err)
		}
	}

	if nonce < 0 {
		var acc account
		if err := get(fmt.Sprintf("%s/v1/account/%s", url, w.Address()), &acc); err != nil {
			log.Fatal(err)
		}
		nonce = int64(acc.Nonce)
	}

	recipient, err := database.ToAccountID(to)
	if err != nil {
		log.Fatal(err)
	}

	tx, err := database.NewTx(w.Address(), recipient, atomicValue, atomicFee, uint64(nonce), comment)
	if err != nil {
		log.Fatal(err)
	}

	signedTx, err := w.Sign(tx)
	if err != nil {
		log.Fatal(err)
	}

	req := struct {
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
		Value     string `json:"value"`
		Fee       string `json:"fee"`
		Nonce     string `json:"nonce"`
		Comment   string `json:"comment"`
		Signature string `json:"signature"`
		PublicKey string `json:"publicKey"`
	}{
		Sender:    string(w.Address()),
		Recipient: string(recipient),
		Value:     gen.FormatUnits(atomicValue),
		Fee:       gen.FormatUnits(atomicFee),
		Nonce:     fmt.Sprint(nonce),
		Comment:   comment,
		Signature: hexutil.Encode(signedTx.Signature),
		PublicKey: hexutil.Encode(w.PublicKey()),
	}

	var resp struct {
		TxHash string `json:"txHash"`
	}
	if err := post(fmt.Sprintf("%s/v1/tx/send", url), req, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Transaction added:", resp.TxHash)
}
