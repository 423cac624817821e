package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/lookup"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/provider"
)

var (
	lookupSource string
	lookupFile   string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [name...]",
	Short: "Bulk-resolve names to phone numbers",
	Long:  "Looks up each name against the chosen provider in small concurrent batches. Names come from arguments, --file, or stdin; comma and whitespace separated lines and a leading header row are handled.",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := model.Source(lookupSource)
		if !source.Valid() {
			return eris.Errorf("unknown source %q (want forager or aviato)", lookupSource)
		}

		names, err := collectNames(args)
		if err != nil {
			return err
		}

		var resolver provider.NameResolver
		switch source {
		case model.SourceForager:
			f, err := initForager()
			if err != nil {
				return err
			}
			resolver = f
		default:
			a, err := initAviato()
			if err != nil {
				return err
			}
			resolver = a
		}

		pipeline := lookup.NewPipeline(resolver, cfg.Batch.LookupSize)
		results, err := pipeline.LookupAll(cmd.Context(), names)
		if err != nil {
			return err
		}

		var found int
		for _, r := range results {
			switch r.Status {
			case model.LookupFound:
				found++
				fmt.Printf("  %-30s %s\n", r.FullName, firstPhone(r))
			case model.LookupNotFound:
				fmt.Printf("  %-30s (not found)\n", r.FullName)
			default:
				fmt.Printf("  %-30s (error)\n", r.FullName)
			}
		}
		zap.L().Info("lookup complete",
			zap.Int("names", len(results)),
			zap.Int("found", found),
		)
		return nil
	},
}

func firstPhone(r model.LookupResult) string {
	if len(r.PhoneNumbers) == 0 {
		return ""
	}
	return r.PhoneNumbers[0]
}

// collectNames gathers names from args, a file, or stdin, in that priority
// order. File and stdin input goes through the bulk-text parser so headers
// and per-line name formats are normalized.
func collectNames(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var raw []byte
	var err error
	if lookupFile != "" {
		raw, err = os.ReadFile(lookupFile)
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", lookupFile)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, eris.Wrap(err, "read stdin")
		}
	}

	parsed := lookup.ParseNames(string(raw))
	names := make([]string, 0, len(parsed))
	for _, p := range parsed {
		names = append(names, p.FullName)
	}
	return names, nil
}

func init() {
	lookupCmd.Flags().StringVar(&lookupSource, "source", "forager", "provider to look names up against")
	lookupCmd.Flags().StringVar(&lookupFile, "file", "", "file of names, one per line")
	rootCmd.AddCommand(lookupCmd)
}
