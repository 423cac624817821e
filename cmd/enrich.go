package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/enrich"
	"github.com/garygao333/chert-number-search/internal/lead"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/provider"
)

var (
	enrichSource string
	enrichSave   bool
	enrichCSV    string
	enrichQuery  string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [person-id...]",
	Short: "Enrich person IDs into leads with phone numbers",
	Long:  "Fetches full profiles for the given provider person IDs in concurrent batches, keeps the ones with a phone number, and de-duplicates them against saved contacts.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := model.Source(enrichSource)
		if !source.Valid() {
			return eris.Errorf("unknown source %q (want forager or aviato)", enrichSource)
		}

		ctx := cmd.Context()

		var enricher provider.Enricher
		switch source {
		case model.SourceForager:
			f, err := initForager()
			if err != nil {
				return err
			}
			enricher = f
		default:
			a, err := initAviato()
			if err != nil {
				return err
			}
			enricher = a
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		orchestrator := enrich.NewOrchestrator(enricher, cfg.Batch.EnrichSize)
		enriched := orchestrator.EnrichMany(ctx, args)
		zap.L().Info("enrichment complete",
			zap.Int("requested", len(args)),
			zap.Int("enriched", len(enriched)),
		)

		contacts, err := st.ListContacts(ctx)
		if err != nil {
			return err
		}
		existing := make([]model.Lead, 0, len(contacts))
		for _, c := range contacts {
			existing = append(existing, model.Lead{ID: c.SourceID, PhoneNumber: c.PhoneNumber})
		}

		newLeads, skipped := lead.Reconcile(enriched, existing, nil, time.Now())
		if skipped > 0 {
			fmt.Printf("Skipped %d profiles with no phone number.\n", skipped)
		}
		if len(newLeads) == 0 {
			return lead.ErrNoLeads
		}

		for _, l := range newLeads {
			fmt.Printf("  %-30s %-16s %s\n", l.FullName, l.PhoneNumber, l.CompanyName)
		}

		if enrichCSV != "" {
			f, err := os.Create(enrichCSV)
			if err != nil {
				return eris.Wrapf(err, "create %s", enrichCSV)
			}
			defer f.Close()
			if err := lead.WriteCSV(f, newLeads); err != nil {
				return err
			}
			fmt.Printf("Wrote %d leads to %s\n", len(newLeads), enrichCSV)
		}

		if enrichSave {
			records := make([]model.ContactRecord, 0, len(newLeads))
			for _, l := range newLeads {
				records = append(records, lead.ToContactRecord(l, enrichQuery))
			}
			saved, err := st.UpsertContacts(ctx, records)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %d contacts.\n", saved)
		}

		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichSource, "source", "forager", "provider the person IDs belong to")
	enrichCmd.Flags().BoolVar(&enrichSave, "save", false, "save new leads to the contact store")
	enrichCmd.Flags().StringVar(&enrichCSV, "csv", "", "write new leads to this CSV file")
	enrichCmd.Flags().StringVar(&enrichQuery, "query", "", "search query to record with saved contacts")
	rootCmd.AddCommand(enrichCmd)
}
