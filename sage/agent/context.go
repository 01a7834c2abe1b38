package agent

import (
	"context"
	"errors"
	"sage/sage/sources/psql/dao"
	"sage/sage/sources/psql/models"
	"sage/sage/utils/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	maxTransactions = 5
	maxEmissions    = 5
	maxHistoryTurns = 10
)

// ErrNoOrganization means the user has no organization linkage; agent turns
// cannot run without one.
var ErrNoOrganization = errors.New("user has no linked organization")

// Snapshot is the bounded set of domain facts assembled before each model
// call.
type Snapshot struct {
	OrgName       string
	CreditBalance float64
	Transactions  []models.Transaction
	Emissions     []models.EmissionLog
	History       []models.ChatMessage
	Scenario      *models.Scenario
	Interventions []models.Intervention
}

type Aggregator struct {
	orgDAO     *dao.OrgDAO
	chatDAO    *dao.ChatMessageDAO
	roadmapDAO *dao.RoadmapDAO
}

func NewAggregator(orgDAO *dao.OrgDAO, chatDAO *dao.ChatMessageDAO, roadmapDAO *dao.RoadmapDAO) *Aggregator {
	return &Aggregator{orgDAO: orgDAO, chatDAO: chatDAO, roadmapDAO: roadmapDAO}
}

// Collect assembles the snapshot. The organization lookup is a precondition;
// the remaining fetches fan out concurrently and degrade to empty collections
// when nothing exists.
func (a *Aggregator) Collect(ctx context.Context, userID int, sessionID uuid.UUID) (*Snapshot, error) {
	defer logging.LogDuration(ctx, "context_collect")()

	org, err := a.orgDAO.OrganizationForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNoOrganization
	}

	snap := &Snapshot{
		OrgName:       org.Name,
		CreditBalance: org.CreditBalance,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := a.orgDAO.RecentTransactions(gctx, org.ID, maxTransactions)
		if err != nil {
			return err
		}
		snap.Transactions = txs
		return nil
	})
	g.Go(func() error {
		entries, err := a.orgDAO.RecentEmissions(gctx, org.ID, maxEmissions)
		if err != nil {
			return err
		}
		snap.Emissions = entries
		return nil
	})
	g.Go(func() error {
		history, err := a.chatDAO.Recent(gctx, sessionID, maxHistoryTurns)
		if err != nil {
			return err
		}
		snap.History = history
		return nil
	})
	g.Go(func() error {
		scenario, err := a.roadmapDAO.ActiveScenario(gctx, userID)
		if err != nil {
			return err
		}
		if scenario == nil {
			return nil
		}
		interventions, err := a.roadmapDAO.InterventionsForScenario(gctx, scenario.ID)
		if err != nil {
			return err
		}
		snap.Scenario = scenario
		snap.Interventions = interventions
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
