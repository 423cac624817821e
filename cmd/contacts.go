package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/garygao333/chert-number-search/internal/lead"
	"github.com/garygao333/chert-number-search/internal/model"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List saved contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		contacts, err := st.ListContacts(ctx)
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			fmt.Println("No saved contacts.")
			return nil
		}
		for _, c := range contacts {
			fmt.Printf("  %-16s %-30s %-10s %s\n", c.PhoneNumber, c.FullName, c.Source, c.Company)
		}
		return nil
	},
}

var contactsExportOut string

var contactsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved contacts to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		contacts, err := st.ListContacts(ctx)
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			return eris.New("no saved contacts to export")
		}

		leads := make([]model.Lead, 0, len(contacts))
		for _, c := range contacts {
			leads = append(leads, contactToLead(c))
		}

		out := contactsExportOut
		if out == "" {
			out = lead.ExportFilename(time.Now())
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close()

		if err := lead.WriteCSV(f, leads); err != nil {
			return err
		}
		fmt.Printf("Exported %d contacts to %s\n", len(leads), out)
		return nil
	},
}

func contactToLead(c model.ContactRecord) model.Lead {
	email, _ := c.RawData["email"].(string)
	return model.Lead{
		ID:          c.SourceID,
		FullName:    c.FullName,
		RoleTitle:   c.Role,
		CompanyName: c.Company,
		PhoneNumber: c.PhoneNumber,
		Email:       email,
		LinkedinURL: c.LinkedinURL,
		Location:    c.Location,
		Headline:    c.Headline,
		Source:      model.Source(c.Source),
		AddedAt:     c.CreatedAt,
	}
}

func init() {
	contactsExportCmd.Flags().StringVar(&contactsExportOut, "out", "", "output file (default leads_<date>.csv)")
	contactsCmd.AddCommand(contactsExportCmd)
	rootCmd.AddCommand(contactsCmd)
}
