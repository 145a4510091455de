// Package nameservice reads a folder of wallet files and creates a name
// service lookup for the accounts they hold. The name "node" always
// resolves to the node's own account.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
)

// NodeAlias is the name that resolves to the node's own account.
const NodeAlias = "node"

// walletExtension is the file extension of wallet files in the folder.
const walletExtension = ".dat"

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	node     database.AccountID
	accounts map[database.AccountID]string
	names    map[string]database.AccountID
}

// New constructs a name service for the node's account along with the
// wallets found in the root folder. An empty root or a folder that doesn't
// exist provides only the node alias.
func New(root string, node database.AccountID) (*NameService, error) {
	ns := NameService{
		node:     node,
		accounts: map[database.AccountID]string{node: NodeAlias},
		names:    map[string]database.AccountID{NodeAlias: node},
	}

	if root == "" {
		return &ns, nil
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != walletExtension {
			return nil
		}

		w, err := wallet.Load(fileName)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(fileName), walletExtension)
		if name == NodeAlias {
			return nil
		}

		ns.accounts[w.Address()] = name
		ns.names[name] = w.Address()

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, statErr := os.Stat(root); errors.Is(statErr, fs.ErrNotExist) {
				return &ns, nil
			}
		}
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account.
func (ns *NameService) Lookup(accountID database.AccountID) string {
	name, exists := ns.accounts[accountID]
	if !exists {
		return string(accountID)
	}
	return name
}

// Resolve returns the account for a name or an address. Addresses are
// validated before they are returned.
func (ns *NameService) Resolve(nameOrAddress string) (database.AccountID, error) {
	if accountID, exists := ns.names[nameOrAddress]; exists {
		return accountID, nil
	}

	return database.ToAccountID(nameOrAddress)
}

// Node returns the node's own account.
func (ns *NameService) Node() database.AccountID {
	return ns.node
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.accounts))
	for accountID, name := range ns.accounts {
		cpy[accountID] = name
	}
	return cpy
}
