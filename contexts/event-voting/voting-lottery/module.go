package votinglottery

import (
	"log/slog"

	httpadapter "lanvote/contexts/event-voting/voting-lottery/adapters/http"
	"lanvote/contexts/event-voting/voting-lottery/adapters/memory"
	"lanvote/contexts/event-voting/voting-lottery/application/commands"
	"lanvote/contexts/event-voting/voting-lottery/application/queries"
	"lanvote/contexts/event-voting/voting-lottery/application/workers"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	"lanvote/contexts/event-voting/voting-lottery/ports"

	"golang.org/x/sync/singleflight"
)

type Module struct {
	Handler    httpadapter.Handler
	Reconciler workers.CounterReconciler
	Store      *memory.Store
}

type Dependencies struct {
	Candidates      ports.CandidateRepository
	Votes           ports.VoteRepository
	Lottery         ports.LotteryRepository
	Configs         ports.ConfigRepository
	Notifier        ports.Notifier
	Random          ports.RandomSource
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	IdentityMode    entities.IdentityMode
	EstimatedVoters int
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	identityMode := deps.IdentityMode.OrDefault()
	configUseCase := commands.ConfigUseCase{
		Configs: deps.Configs,
		Clock:   deps.Clock,
		Flight:  &singleflight.Group{},
		Logger:  deps.Logger,
	}
	reconciler := workers.CounterReconciler{
		Votes:  deps.Votes,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Candidates: commands.CandidateUseCase{
				Candidates: deps.Candidates,
				Notifier:   deps.Notifier,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			CandidateReads: queries.CandidateQueries{
				Candidates: deps.Candidates,
			},
			Votes: commands.VoteUseCase{
				Votes:        deps.Votes,
				Candidates:   deps.Candidates,
				Config:       configUseCase,
				Notifier:     deps.Notifier,
				Clock:        deps.Clock,
				IDGen:        deps.IDGen,
				IdentityMode: identityMode,
				Logger:       deps.Logger,
			},
			Voters: queries.VoterQueries{
				Votes:        deps.Votes,
				Config:       configUseCase,
				IdentityMode: identityMode,
			},
			Statistics: queries.StatisticsUseCase{
				Candidates:      deps.Candidates,
				Votes:           deps.Votes,
				Config:          configUseCase,
				EstimatedVoters: deps.EstimatedVoters,
			},
			Config: configUseCase,
			Lottery: commands.LotteryUseCase{
				Lottery:  deps.Lottery,
				Notifier: deps.Notifier,
				Random:   deps.Random,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			LotteryReads: queries.LotteryQueries{
				Lottery: deps.Lottery,
			},
			Reconciler: reconciler,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		Reconciler: reconciler,
	}
}

// NewInMemoryModule wires every port to one memory store. The store also acts
// as the notifier unless notifier is non-nil.
func NewInMemoryModule(seed []entities.Candidate, notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	if notifier == nil {
		notifier = store
	}
	module := NewModule(Dependencies{
		Candidates: store,
		Votes:      store,
		Lottery:    store,
		Configs:    store,
		Notifier:   notifier,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
