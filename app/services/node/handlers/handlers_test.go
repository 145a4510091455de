package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/foxchain/blockchain/app/services/node/handlers"
	"github.com/foxchain/blockchain/business/web/errs"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/database/storage/leveldb"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
	"github.com/foxchain/blockchain/foundation/blockchain/state"
	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
	"github.com/foxchain/blockchain/foundation/events"
	"github.com/foxchain/blockchain/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// api holds what a test needs to drive the public mux.
type api struct {
	mux   http.Handler
	state *state.State
	node  wallet.Wallet
	alice wallet.Wallet
	bob   wallet.Wallet
}

func newAPI(t *testing.T) api {
	node, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}
	alice, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}
	bob, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}

	store, err := leveldb.NewMemory()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open the store: %v", failed, err)
	}

	gen := genesis.Default()
	gen.Difficulty = 1
	gen.Balances = map[string]uint64{
		string(node.Address()):  gen.MainUnits(100),
		string(alice.Address()): gen.MainUnits(100),
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Wallet:  node,
		Storage: store,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the node: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	ns, err := nameservice.New("", node.Address())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the name service: %v", failed, err)
	}

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	})

	return api{
		mux:   mux,
		state: st,
		node:  node,
		alice: alice,
		bob:   bob,
	}
}

func (a api) do(method string, path string, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, r)
	return w
}

// =============================================================================

func TestAccount(t *testing.T) {
	t.Log("Given the need to query accounts through the api.")
	{
		a := newAPI(t)

		w := a.do(http.MethodGet, "/v1/account/node", "")
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould get the node account: %d %s", failed, w.Code, w.Body)
		}

		var acc struct {
			Address     string `json:"address"`
			Balance     string `json:"balance"`
			NanoBalance uint64 `json:"nanoBalance"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &acc); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the account: %v", failed, err)
		}
		if acc.Address != string(a.node.Address()) || acc.Balance != "100.00000000" || acc.NanoBalance != 10_000_000_000 {
			t.Fatalf("\t%s\tShould resolve the node alias with a formatted balance: %+v", failed, acc)
		}
		t.Logf("\t%s\tShould resolve the node alias with a formatted balance.", success)

		if w := a.do(http.MethodGet, "/v1/account/"+string(a.bob.Address()), ""); w.Code != http.StatusNotFound {
			t.Fatalf("\t%s\tShould get a 404 for an unknown account, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould get a 404 for an unknown account.", success)

		if w := a.do(http.MethodGet, "/v1/account/not-an-address", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould get a 400 for a malformed address, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould get a 400 for a malformed address.", success)
	}
}

func TestSendAndMine(t *testing.T) {
	t.Log("Given the need to submit and mine transactions through the api.")
	{
		a := newAPI(t)

		body := `{"sender":"node","recipient":"` + string(a.bob.Address()) + `","value":"1,5","nonce":"0","signature":"node","publicKey":"node"}`
		w := a.do(http.MethodPost, "/v1/tx/send", body)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould accept a transaction signed by the node: %d %s", failed, w.Code, w.Body)
		}

		var sent struct {
			Success bool   `json:"success"`
			TxHash  string `json:"txHash"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil || !sent.Success || len(sent.TxHash) != 64 {
			t.Fatalf("\t%s\tShould return the transaction hash: %s %v", failed, w.Body, err)
		}
		t.Logf("\t%s\tShould accept a transaction signed by the node.", success)

		tx, err := database.NewTx(a.alice.Address(), a.bob.Address(), 10, 50, 5, "")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
		}
		signedTx, err := a.alice.Sign(tx)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the transaction: %v", failed, err)
		}

		body = `{"sender":"` + string(a.alice.Address()) + `","recipient":"` + string(a.bob.Address()) +
			`","value":"0.0000001","nonce":"5","signature":"` + hexutil.Encode(signedTx.Signature) +
			`","publicKey":"` + hexutil.Encode(a.alice.PublicKey()) + `"}`
		w = a.do(http.MethodPost, "/v1/tx/send", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject a transaction with the wrong nonce: %d %s", failed, w.Code, w.Body)
		}

		var er errs.Response
		if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Kind != state.NonceMismatch.String() {
			t.Fatalf("\t%s\tShould report the rejection kind: %s %v", failed, w.Body, err)
		}
		t.Logf("\t%s\tShould reject a transaction with the wrong nonce.", success)

		for _, value := range []string{"-1", "0.000000001", "abc"} {
			body := `{"sender":"node","recipient":"` + string(a.bob.Address()) + `","value":"` + value + `","nonce":"1","signature":"node","publicKey":"node"}`
			if w := a.do(http.MethodPost, "/v1/tx/send", body); w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tShould reject the amount %q, got %d.", failed, value, w.Code)
			}
		}
		t.Logf("\t%s\tShould reject malformed amounts.", success)

		if w := a.do(http.MethodPost, "/v1/tx/send", `{"sender":"node"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject a request with missing fields, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject a request with missing fields.", success)

		w = a.do(http.MethodPost, "/v1/mine", "")
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine a block: %d %s", failed, w.Code, w.Body)
		}

		var mined struct {
			BlockHash string `json:"blockHash"`
			TxCount   int    `json:"txCount"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &mined); err != nil || mined.TxCount != 1 {
			t.Fatalf("\t%s\tShould mine the pending transaction: %s %v", failed, w.Body, err)
		}
		t.Logf("\t%s\tShould mine the pending transaction.", success)

		w = a.do(http.MethodGet, "/v1/block/1", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), mined.BlockHash) {
			t.Fatalf("\t%s\tShould get the mined block by number: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould get the mined block by number.", success)

		w = a.do(http.MethodGet, "/v1/block/hash/"+mined.BlockHash, "")
		var byHash struct {
			Number uint64 `json:"number"`
			Hash   string `json:"hash"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &byHash); w.Code != http.StatusOK || err != nil || byHash.Number != 1 || byHash.Hash != mined.BlockHash {
			t.Fatalf("\t%s\tShould get the mined block by hash: %d %s", failed, w.Code, w.Body)
		}
		if w := a.do(http.MethodGet, "/v1/block/hash/"+strings.Repeat("0", 64), ""); w.Code != http.StatusNotFound {
			t.Fatalf("\t%s\tShould get a 404 for an unknown block hash, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould get the mined block by hash.", success)

		w = a.do(http.MethodGet, "/v1/accounts", "")
		var accounts []struct {
			Address string `json:"address"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &accounts); w.Code != http.StatusOK || err != nil || len(accounts) < 3 {
			t.Fatalf("\t%s\tShould list every account: %d %s", failed, w.Code, w.Body)
		}
		for i := 1; i < len(accounts); i++ {
			if accounts[i-1].Address >= accounts[i].Address {
				t.Fatalf("\t%s\tShould list the accounts ordered by address: %s", failed, w.Body)
			}
		}
		t.Logf("\t%s\tShould list the accounts ordered by address.", success)

		w = a.do(http.MethodGet, "/v1/block/1/tx/"+sent.TxHash+"/proof", "")
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould get a merkle proof for the transaction: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould get a merkle proof for the transaction.", success)

		if w := a.do(http.MethodGet, "/v1/block/9", ""); w.Code != http.StatusNotFound {
			t.Fatalf("\t%s\tShould get a 404 for a missing block, got %d.", failed, w.Code)
		}
		if w := a.do(http.MethodGet, "/v1/block/abc", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould get a 400 for a malformed block number, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould handle missing and malformed block numbers.", success)

		acc, err := a.state.RetrieveAccount(a.bob.Address())
		if err != nil || acc.Balance != 150_000_000 {
			t.Fatalf("\t%s\tShould credit the recipient in atomic units: %+v %v", failed, acc, err)
		}
		t.Logf("\t%s\tShould credit the recipient in atomic units.", success)

		w = a.do(http.MethodGet, "/v1/account/"+string(a.bob.Address())+"/tx", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), sent.TxHash) {
			t.Fatalf("\t%s\tShould list the recipient's transactions: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould list the recipient's transactions.", success)
	}
}
