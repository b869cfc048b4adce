package proposalledger

import (
	"log/slog"
	"strings"

	httpadapter "parkpulse/contexts/governance/proposal-ledger/adapters/http"
	"parkpulse/contexts/governance/proposal-ledger/adapters/memory"
	"parkpulse/contexts/governance/proposal-ledger/application/commands"
	"parkpulse/contexts/governance/proposal-ledger/application/queries"
	"parkpulse/contexts/governance/proposal-ledger/application/workers"
	"parkpulse/contexts/governance/proposal-ledger/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Resolver commands.ResolveUseCase
	Store    *memory.Store
	Treasury *memory.Treasury
}

type Dependencies struct {
	Ledger       ports.TxRunner
	Reader       ports.ProposalReader
	Outbox       ports.OutboxWriter
	Identity     ports.IdentityNormalizer
	Treasury     ports.Treasury
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	AdminAccount string
	Network      string
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	admin := strings.TrimSpace(deps.AdminAccount)
	if canonical, err := deps.Identity.Normalize(admin); err == nil {
		admin = canonical
	}
	gate := commands.AdminGate{
		Admin:    admin,
		Identity: deps.Identity,
	}
	createUseCase := commands.CreateProposalUseCase{
		Ledger:   deps.Ledger,
		Outbox:   deps.Outbox,
		Identity: deps.Identity,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	voteUseCase := commands.CastVoteUseCase{
		Ledger:   deps.Ledger,
		Outbox:   deps.Outbox,
		Identity: deps.Identity,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	resolveUseCase := commands.ResolveUseCase{
		Ledger: deps.Ledger,
		Outbox: deps.Outbox,
		Admin:  gate,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	escrowUseCase := commands.EscrowUseCase{
		Ledger:   deps.Ledger,
		Outbox:   deps.Outbox,
		Admin:    gate,
		Identity: deps.Identity,
		Treasury: deps.Treasury,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	proposalQueries := queries.ProposalQueries{
		Reader:   deps.Reader,
		Identity: deps.Identity,
	}
	fundingQueries := queries.FundingQueries{
		Reader:   deps.Reader,
		Identity: deps.Identity,
	}
	return Module{
		Handler: httpadapter.Handler{
			Proposals:     createUseCase,
			Votes:         voteUseCase,
			Resolver:      resolveUseCase,
			Escrow:        escrowUseCase,
			ProposalReads: proposalQueries,
			FundingReads:  fundingQueries,
			AdminAccount:  admin,
			Network:       deps.Network,
			Logger:        deps.Logger,
		},
		Resolver: resolveUseCase,
	}
}

// NewDeadlineSweeper builds the worker that finalizes expired proposals
// through the module's own resolution command.
func (m Module) NewDeadlineSweeper(reader ports.ProposalReader, clock ports.Clock, logger *slog.Logger) workers.DeadlineSweeper {
	return workers.DeadlineSweeper{
		Reader:       reader,
		Resolver:     m.Resolver,
		AdminAccount: m.Handler.AdminAccount,
		Clock:        clock,
		Logger:       logger,
	}
}

// NewInMemoryModule wires the module against the in-memory store and a
// recording treasury. Used by tests and local runs without postgres.
func NewInMemoryModule(identity ports.IdentityNormalizer, adminAccount string, logger *slog.Logger) Module {
	store := memory.NewStore()
	treasury := memory.NewTreasury()
	module := NewModule(Dependencies{
		Ledger:       store,
		Reader:       store,
		Outbox:       store,
		Identity:     identity,
		Treasury:     treasury,
		Clock:        store,
		IDGen:        store,
		AdminAccount: adminAccount,
		Network:      "testnet",
		Logger:       logger,
	})
	module.Store = store
	module.Treasury = treasury
	return module
}
