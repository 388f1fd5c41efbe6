package program

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/consensus"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/leaf"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/merkle"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/types"
)

// latestUpdateLamports is the lazily-allocated account's funding amount.
// A real cluster would derive this from Rent::minimum_balance(space);
// pkg/chain has no rent sysvar, so a fixed amount stands in for it.
const latestUpdateLamports = 1_000_000

// Program runs the oracle program's instruction handlers over a
// chain.Ledger. One Program is scoped to a single on-chain program ID;
// ProtocolInfo accounts it reads may be owned by a different ID
// (Config.Endpoint), matching the original program's cross-program seeds.
type Program struct {
	ID     chain.Pubkey
	Ledger chain.Ledger
	Logger *zap.Logger
}

// New returns a Program bound to programID and ledger.
func New(programID chain.Pubkey, ledger chain.Ledger, logger *zap.Logger) *Program {
	return &Program{ID: programID, Ledger: ledger, Logger: logger}
}

// Initialize creates (or re-validates) the program's singleton Config
// account. The caller, admin, must equal the existing Config.Admin once
// the account is initialized, or the hardcoded deployer key on the very
// first call — matching the original program's init_if_needed
// constraint, which checks admin against config.admin before this
// instruction's body has a chance to set it.
func (p *Program) Initialize(admin chain.Pubkey, endpoint chain.Pubkey, protocolID [32]byte) error {
	configAddress := ConfigAddress(p.ID)

	existing, err := p.Ledger.GetAccount(configAddress)
	if err != nil && err != chain.ErrAccountNotFound {
		return fmt.Errorf("program: initialize: %w", err)
	}

	if err == chain.ErrAccountNotFound {
		deployer, derr := deployerPubkey()
		if derr != nil {
			return fmt.Errorf("program: initialize: resolve deployer key: %w", derr)
		}
		if admin != deployer {
			return ErrIsNotAdmin
		}
		cfg := types.Config{Admin: admin, Endpoint: endpoint, ProtocolID: protocolID}
		if err := p.Ledger.CreateAccount(configAddress, p.ID, latestUpdateLamports, encodeConfig(cfg)); err != nil {
			return fmt.Errorf("program: initialize: create config: %w", err)
		}
		p.Logger.Sugar().Infow("program config initialized", "admin", admin.String(), "protocol_id", fmt.Sprintf("%x", protocolID))
		return nil
	}

	cfg, err := decodeConfig(existing.Data)
	if err != nil {
		return fmt.Errorf("program: initialize: %w", err)
	}
	if admin != cfg.Admin {
		return ErrIsNotAdmin
	}
	return nil
}

// GetLastPrice verifies consensus and a single feed's inclusion proof,
// then applies the update exactly like update_multiple_assets does for
// one feed.
func (p *Program) GetLastPrice(publisher chain.Pubkey, msg types.LastPriceMessage) ([32]byte, error) {
	cfg, protocolInfo, err := p.loadConfigAndProtocol()
	if err != nil {
		return [32]byte{}, err
	}

	reached, err := consensus.Evaluate(msg.MerkleRoot, msg.Signatures, protocolInfo)
	if err != nil {
		return [32]byte{}, fmt.Errorf("program: %w", err)
	}
	if !reached {
		return [32]byte{}, ErrConsensusNotReached
	}

	return p.updateAsset(cfg, msg.DataFeed, msg.MerkleRoot)
}

// UpdateMultipleAssets verifies consensus once over merkle_root, then
// applies every feed in the batch against it.
func (p *Program) UpdateMultipleAssets(publisher chain.Pubkey, msg types.MultipleUpdateMessage) error {
	cfg, protocolInfo, err := p.loadConfigAndProtocol()
	if err != nil {
		return err
	}

	reached, err := consensus.Evaluate(msg.MerkleRoot, msg.Signatures, protocolInfo)
	if err != nil {
		return fmt.Errorf("program: %w", err)
	}
	if !reached {
		return ErrConsensusNotReached
	}

	for _, feed := range msg.DataFeeds {
		if _, err := p.updateAsset(cfg, feed, msg.MerkleRoot); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) loadConfigAndProtocol() (types.Config, *types.ProtocolInfo, error) {
	configAccount, err := p.Ledger.GetAccount(ConfigAddress(p.ID))
	if err != nil {
		return types.Config{}, nil, fmt.Errorf("program: load config: %w", err)
	}
	cfg, err := decodeConfig(configAccount.Data)
	if err != nil {
		return types.Config{}, nil, err
	}

	protocolInfoAddress := ProtocolInfoAddress(cfg.Endpoint, cfg.ProtocolID)
	protocolAccount, err := p.Ledger.GetAccount(protocolInfoAddress)
	if err != nil {
		return types.Config{}, nil, fmt.Errorf("program: load protocol_info: %w", err)
	}
	if protocolAccount.Owner != cfg.Endpoint {
		return types.Config{}, nil, fmt.Errorf("program: protocol_info owner mismatch")
	}
	info, err := decodeProtocolInfo(protocolAccount.Data)
	if err != nil {
		return types.Config{}, nil, err
	}
	return cfg, &info, nil
}

// updateAsset verifies data_feed's shape and Merkle inclusion proof,
// then lazily allocates or overwrites its LatestUpdate account. A
// data_feed whose timestamp does not strictly exceed the stored
// timestamp is silently ignored (logged, not errored) — matching
// update_asset's handling of stale or replayed updates.
func (p *Program) updateAsset(cfg types.Config, feed types.DataFeed, merkleRoot [32]byte) ([32]byte, error) {
	if len(feed.Data) != 32 {
		return [32]byte{}, ErrInconsistentData
	}

	computedLeaf, err := leaf.Hash(feed)
	if err != nil {
		return [32]byte{}, fmt.Errorf("program: %w", err)
	}
	if !merkle.VerifyProof(feed.MerkleProof, merkleRoot, computedLeaf) {
		return [32]byte{}, ErrMerkleProofNotVerified
	}

	latestUpdateAddress := LatestUpdateAddress(p.ID, cfg.ProtocolID, feed.DataKey)

	account, err := p.Ledger.GetAccount(latestUpdateAddress)
	if err == chain.ErrAccountNotFound {
		if cerr := p.Ledger.CreateAccount(latestUpdateAddress, p.ID, latestUpdateLamports, encodeLatestUpdate(types.LatestUpdate{})); cerr != nil {
			return [32]byte{}, fmt.Errorf("program: allocate latest_update: %w", cerr)
		}
		account = &chain.AccountInfo{Owner: p.ID, Data: encodeLatestUpdate(types.LatestUpdate{})}
	} else if err != nil {
		return [32]byte{}, fmt.Errorf("program: load latest_update: %w", err)
	}

	current, err := decodeLatestUpdate(account.Data)
	if err != nil {
		return [32]byte{}, err
	}

	if feed.Timestamp <= current.DataTimestamp {
		p.Logger.Sugar().Infow("stale update ignored", "data_key", fmt.Sprintf("%x", feed.DataKey))
		return feed.Data, nil
	}

	updated := types.LatestUpdate{DataKey: feed.DataKey, Data: feed.Data, DataTimestamp: feed.Timestamp}
	if err := p.Ledger.WriteAccount(latestUpdateAddress, encodeLatestUpdate(updated)); err != nil {
		return [32]byte{}, fmt.Errorf("program: write latest_update: %w", err)
	}
	return feed.Data, nil
}
