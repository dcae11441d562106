package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	goalsrepo "sales_pipeline_backend/internal/goals/repository"
	"sales_pipeline_backend/internal/leads/domain"
	leadsrepo "sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/db"

	"github.com/spf13/cobra"
)

var (
	seedCount      int
	seedRandomSeed uint64
	seedGoalAmount float64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo leads and an active monthly revenue goal",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 20, "number of leads to insert")
	seedCmd.Flags().Uint64Var(&seedRandomSeed, "seed", uint64(time.Now().UnixNano()), "random seed")
	seedCmd.Flags().Float64Var(&seedGoalAmount, "goal", 10000, "monthly revenue goal amount (0 skips the goal)")
}

var seedIndustries = []string{"Tech", "Healthcare", "Finance", "Retail", "Education"}
var seedSuffixes = []string{"Inc", "Ltd", "Solutions", "Co"}

// ClosedLost leads are deleted on entry, so the seed never stores one.
var seedStages = domain.PipelineStages[:len(domain.PipelineStages)-1]

type seedLead struct {
	BusinessName string
	Industry     string
	Email        string
	Stage        string
	LastActionAt time.Time
	DealValue    float64
}

// seedPlan builds n demo leads spread across the stored stages with last actions
// somewhere in the past 30 days.
func seedPlan(r *rand.Rand, n int, now time.Time) []seedLead {
	plan := make([]seedLead, 0, n)
	for i := 0; i < n; i++ {
		stage := seedStages[r.IntN(len(seedStages))]
		lead := seedLead{
			BusinessName: fmt.Sprintf("Seeded Corp %d - %s", i+1, seedSuffixes[r.IntN(len(seedSuffixes))]),
			Industry:     seedIndustries[r.IntN(len(seedIndustries))],
			Email:        fmt.Sprintf("contact@corp%d.example.com", i),
			Stage:        stage,
			LastActionAt: now.Add(-time.Duration(r.IntN(30*24)) * time.Hour),
		}
		if stage == domain.PipelineStageClosedWon {
			lead.DealValue = float64(500 + r.IntN(2500))
		}
		plan = append(plan, lead)
	}
	return plan
}

func statusForStage(stage string) string {
	switch stage {
	case domain.PipelineStageClosedWon:
		return domain.LeadStatusWon
	case domain.PipelineStageClosedLost:
		return domain.LeadStatusArchived
	default:
		return domain.LeadStatusActive
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	if err := db.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	leads := leadsrepo.New(pool)
	now := time.Now().UTC()
	r := rand.New(rand.NewPCG(seedRandomSeed, seedRandomSeed^0x9e3779b97f4a7c15))

	for _, p := range seedPlan(r, seedCount, now) {
		lead, err := leads.Create(ctx, leadsrepo.CreateLeadParams{
			BusinessName:     p.BusinessName,
			Industry:         p.Industry,
			Email:            p.Email,
			PainPoint:        "Needs better CRM",
			SuggestedMessage: "We can help you grow.",
			Stage:            domain.PipelineStageNew,
			Status:           domain.LeadStatusActive,
			RawData:          map[string]any{"source": "seed"},
			LastActionAt:     p.LastActionAt,
		})
		if err != nil {
			return fmt.Errorf("insert %q: %w", p.BusinessName, err)
		}
		if p.Stage == domain.PipelineStageNew {
			continue
		}

		status := statusForStage(p.Stage)
		change := leadsrepo.PipelineChange{
			LeadID:    lead.ID,
			FromStage: domain.PipelineStageNew,
			ToStage:   p.Stage,
			Status:    &status,
			At:        p.LastActionAt,
		}
		if p.Stage == domain.PipelineStageClosedWon {
			change.WonAt = &now
			change.DealValue = &p.DealValue
		}
		if _, err := leads.ApplyTransition(ctx, change); err != nil {
			return fmt.Errorf("move %q to %s: %w", p.BusinessName, p.Stage, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d leads\n", seedCount)

	if seedGoalAmount > 0 {
		endOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		goal, err := goalsrepo.New(pool).Create(ctx, goalsrepo.CreateGoalParams{
			Type:        "Monthly",
			Description: "Monthly revenue target",
			TargetDate:  endOfMonth,
			Amount:      &seedGoalAmount,
		})
		if err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created goal %s (%.2f)\n", goal.ID, seedGoalAmount)
	}
	return nil
}
