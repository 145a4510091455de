// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/foxchain/blockchain/app/services/node/handlers/v1/public"
	"github.com/foxchain/blockchain/foundation/blockchain/state"
	"github.com/foxchain/blockchain/foundation/events"
	"github.com/foxchain/blockchain/foundation/nameservice"
	"github.com/foxchain/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/account/:address", pbl.Account)
	app.Handle(http.MethodGet, version, "/account/:address/tx", pbl.AccountTransactions)
	app.Handle(http.MethodPost, version, "/tx/send", pbl.SendTransaction)
	app.Handle(http.MethodGet, version, "/tx/pending", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, version, "/block/latest", pbl.LatestBlock)
	app.Handle(http.MethodGet, version, "/block/:number", pbl.BlockByNumber)
	app.Handle(http.MethodGet, version, "/block/hash/:hash", pbl.BlockByHash)
	app.Handle(http.MethodGet, version, "/block/:number/tx/:hash/proof", pbl.TransactionProof)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
}
