// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/foxchain/blockchain/business/web/errs"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/state"
	"github.com/foxchain/blockchain/foundation/events"
	"github.com/foxchain/blockchain/foundation/nameservice"
	"github.com/foxchain/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Subscribe(v.TraceID)
	defer h.Evts.Unsubscribe(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns every account the ledger knows about.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	accounts := h.State.RetrieveAccounts()
	acts := make([]account, 0, len(accounts))
	for _, acc := range accounts {
		acts = append(acts, toAccount(gen, h.NS, acc))
	}

	return web.Respond(ctx, w, acts, http.StatusOK)
}

// Account returns the balance and nonce of a single account. The address
// can also be a name known to the name service or the node alias.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := h.resolve(web.Param(r, "address"))
	if err != nil {
		return err
	}

	acc, err := h.State.RetrieveAccount(accountID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrusted(errors.New("account not found"), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toAccount(h.State.RetrieveGenesis(), h.NS, acc), http.StatusOK)
}

// AccountTransactions returns the mined and pending transactions the
// account sent or received.
func (h Handlers) AccountTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := h.resolve(web.Param(r, "address"))
	if err != nil {
		return err
	}

	resp := struct {
		Address database.AccountID `json:"address"`
		Txs     []tx               `json:"txs"`
	}{
		Address: accountID,
		Txs:     toTxs(h.NS, h.State.QueryAccountTransactions(accountID)),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SendTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SendTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req sendRequest
	if err := web.Decode(r, &req); err != nil {
		if web.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, err := h.buildTx(req)
	if err != nil {
		return err
	}

	h.Log.Infow("send tran", "traceid", v.TraceID, "sender", tx.Sender, "nonce", tx.Nonce, "recipient", tx.Recipient, "value", tx.Value, "fee", tx.Fee)

	blockTx, err := h.submit(req, tx)
	if err != nil {
		return err
	}

	resp := sendResponse{
		Success: true,
		Message: "Transaction added",
		TxHash:  blockTx.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.State.RetrieveMempool()), http.StatusOK)
}

// Mine mines a new block with the pending transactions right away.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	result, err := h.State.MineNewBlock()
	if err != nil {
		return err
	}

	resp := mineResponse{
		Success:   true,
		Message:   "Block mined successfully!",
		BlockHash: result.Block.Hash(),
		TxCount:   len(result.Block.Transactions()),
		Rejected:  toTxs(h.NS, result.Rejected),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LatestBlock returns the block at the tip of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk := h.State.RetrieveLatestBlock()

	number := uint64(0)
	if n := h.State.QueryChainLength(); n > 0 {
		number = uint64(n - 1)
	}

	return web.Respond(ctx, w, toBlock(h.NS, number, blk), http.StatusOK)
}

// BlockByNumber returns the block at the specified position in the chain.
// The genesis block is number 0.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	blk, err := h.State.RetrieveBlock(number)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrusted(errors.New("block not found"), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(h.NS, number, blk), http.StatusOK)
}

// BlockByHash returns the block with the specified hash.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, number, err := h.State.RetrieveBlockByHash(web.Param(r, "hash"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrusted(errors.New("block not found"), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(h.NS, number, blk), http.StatusOK)
}

// TransactionProof returns the merkle proof that a transaction is part of
// the specified block.
func (h Handlers) TransactionProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	number, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block number: %w", err), http.StatusBadRequest)
	}

	blk, err := h.State.RetrieveBlock(number)
	if err != nil {
		return err
	}

	hash := web.Param(r, "hash")
	for _, blockTx := range blk.Transactions() {
		if blockTx.Hash() != hash {
			continue
		}

		proof, order, err := blk.Trans.Proof(blockTx)
		if err != nil {
			return err
		}

		resp := struct {
			MerkleRoot string   `json:"merkleRoot"`
			Proof      []string `json:"proof"`
			Order      []int64  `json:"order"`
		}{
			MerkleRoot: blk.Header.MerkleRoot,
			Proof:      proof,
			Order:      order,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	return errs.NewTrusted(errors.New("transaction not found in block"), http.StatusNotFound)
}

// Chain returns every block in the chain, genesis first.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	blocks := make([]block, len(chain))
	for i, blk := range chain {
		blocks[i] = toBlock(h.NS, uint64(i), blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// =============================================================================

// resolve converts an address, a known name or the node alias into an
// account id.
func (h Handlers) resolve(nameOrAddress string) (database.AccountID, error) {
	if strings.EqualFold(nameOrAddress, nameservice.NodeAlias) {
		return h.NS.Node(), nil
	}

	accountID, err := h.NS.Resolve(nameOrAddress)
	if err != nil {
		return "", errs.NewTrusted(err, http.StatusBadRequest)
	}

	return accountID, nil
}

// buildTx builds the unsigned transaction described by the request. Amounts
// are converted into atomic units and an empty fee takes the default.
func (h Handlers) buildTx(req sendRequest) (database.Tx, error) {
	gen := h.State.RetrieveGenesis()

	sender, err := h.resolve(req.Sender)
	if err != nil {
		return database.Tx{}, err
	}

	recipient, err := h.resolve(req.Recipient)
	if err != nil {
		return database.Tx{}, err
	}

	value, err := gen.ParseUnits(req.Value)
	if err != nil {
		return database.Tx{}, errs.NewTrusted(fmt.Errorf("value: %w", err), http.StatusBadRequest)
	}

	fee := gen.DefaultFee
	if strings.TrimSpace(req.Fee) != "" {
		if fee, err = gen.ParseUnits(req.Fee); err != nil {
			return database.Tx{}, errs.NewTrusted(fmt.Errorf("fee: %w", err), http.StatusBadRequest)
		}
	}

	nonce, err := strconv.ParseUint(req.Nonce, 10, 64)
	if err != nil {
		return database.Tx{}, errs.NewTrusted(fmt.Errorf("nonce: %w", err), http.StatusBadRequest)
	}

	return database.Tx{
		Sender:    sender,
		Recipient: recipient,
		Value:     value,
		Fee:       fee,
		Nonce:     nonce,
		Comment:   req.Comment,
	}, nil
}

// submit hands the transaction to the ledger. When the request asks for it
// and the sender is the node, the node signs the transaction itself.
func (h Handlers) submit(req sendRequest, tx database.Tx) (database.BlockTx, error) {
	if req.Signature == nameservice.NodeAlias && req.PublicKey == nameservice.NodeAlias && tx.Sender == h.State.NodeAddress() {
		return h.State.SignAndSubmitNodeTransaction(tx)
	}

	sig, err := decodeHex(req.Signature)
	if err != nil {
		return database.BlockTx{}, errs.NewTrusted(fmt.Errorf("signature: %w", err), http.StatusBadRequest)
	}

	publicKey, err := decodeHex(req.PublicKey)
	if err != nil {
		return database.BlockTx{}, errs.NewTrusted(fmt.Errorf("public key: %w", err), http.StatusBadRequest)
	}

	return h.State.UpsertWalletTransaction(database.NewSignedTx(tx, sig), publicKey)
}

// decodeHex decodes a hex string with or without the 0x prefix.
func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}
