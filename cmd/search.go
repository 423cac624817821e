package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/cache"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/preset"
	"github.com/garygao333/chert-number-search/internal/provider"
)

var (
	searchSource   string
	searchPreset   string
	searchPage     int
	searchPageSize int

	searchPersonIndustry  string
	searchPersonLocation  string
	searchCompanyIndustry string
	searchCompanyLocation string
	searchCompanyKeywords string

	searchHeadline    string
	searchCountry     string
	searchCompanyName string
	searchSkills      string
	searchConnections int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search people on Forager or Aviato",
	Long:  "Runs a people search and pages through results interactively. Pages already fetched are served from an in-memory cache.",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := model.Source(searchSource)
		if !source.Valid() {
			return eris.Errorf("unknown source %q (want forager or aviato)", searchSource)
		}

		switch source {
		case model.SourceForager:
			f, err := initForager()
			if err != nil {
				return err
			}
			filters, err := foragerFilters()
			if err != nil {
				return err
			}
			return runForagerSearch(cmd.Context(), f, filters)
		default:
			a, err := initAviato()
			if err != nil {
				return err
			}
			filters, err := aviatoFilters()
			if err != nil {
				return err
			}
			return runAviatoSearch(cmd.Context(), a, filters)
		}
	},
}

func foragerFilters() (model.SearchFilters, error) {
	if searchPreset != "" {
		file, err := preset.Load(cfg.Presets)
		if err != nil {
			return model.SearchFilters{}, err
		}
		return file.ForagerPreset(searchPreset)
	}
	return model.SearchFilters{
		PersonIndustry:  searchPersonIndustry,
		PersonLocation:  searchPersonLocation,
		CompanyIndustry: searchCompanyIndustry,
		CompanyLocation: searchCompanyLocation,
		CompanyKeywords: searchCompanyKeywords,
	}, nil
}

func aviatoFilters() (model.AviatoSearchFilters, error) {
	if searchPreset != "" {
		file, err := preset.Load(cfg.Presets)
		if err != nil {
			return model.AviatoSearchFilters{}, err
		}
		return file.AviatoPreset(searchPreset)
	}
	return model.AviatoSearchFilters{
		Headline:            searchHeadline,
		Country:             searchCountry,
		CompanyName:         searchCompanyName,
		Skills:              searchSkills,
		LinkedinConnections: searchConnections,
		CompanyIndustry:     searchCompanyIndustry,
	}, nil
}

func runForagerSearch(ctx context.Context, f *provider.Forager, filters model.SearchFilters) error {
	pages := cache.New()
	key := cache.Key(model.SourceForager, filters)

	fetch := func(page int) (*model.SearchResponse, error) {
		if results, ok := pages.Get(key, page); ok {
			return &model.SearchResponse{
				Results:  results,
				Page:     page,
				PageSize: searchPageSize,
				HasMore:  len(results) == searchPageSize,
			}, nil
		}
		resp, err := f.Search(ctx, filters, page, searchPageSize)
		if err != nil {
			return nil, err
		}
		pages.Put(key, page, resp.Results)
		return resp, nil
	}

	return pageLoop(fetch)
}

func runAviatoSearch(ctx context.Context, a *provider.Aviato, filters model.AviatoSearchFilters) error {
	pages := cache.New()
	key := cache.Key(model.SourceAviato, filters)

	fetch := func(page int) (*model.SearchResponse, error) {
		if results, ok := pages.Get(key, page); ok {
			return &model.SearchResponse{
				Results:  results,
				Page:     page,
				PageSize: searchPageSize,
				HasMore:  len(results) == searchPageSize,
			}, nil
		}
		resp, matches, err := a.Search(ctx, filters, page, searchPageSize)
		if err != nil {
			return nil, err
		}
		if page == 1 && len(matches) > 0 {
			fmt.Printf("Matched %d companies in industry %q:\n", len(matches), filters.CompanyIndustry)
			for _, m := range matches {
				fmt.Printf("  %s (%s)\n", m.Name, m.LinkedinSlug)
			}
			fmt.Println()
		}
		pages.Put(key, page, resp.Results)
		return resp, nil
	}

	return pageLoop(fetch)
}

// pageLoop prints a page, then reads n/p/q from stdin until the user quits
// or input ends.
func pageLoop(fetch func(page int) (*model.SearchResponse, error)) error {
	page := searchPage
	reader := bufio.NewReader(os.Stdin)

	for {
		resp, err := fetch(page)
		if err != nil {
			return err
		}
		printPage(resp)

		if !resp.HasMore && page == 1 {
			return nil
		}

		fmt.Print("[n]ext / [p]rev / [q]uit: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "n":
			if resp.HasMore {
				page++
			} else {
				fmt.Println("no more pages")
			}
		case "p":
			if page > 1 {
				page--
			}
		case "q", "":
			return nil
		}
	}
}

func printPage(resp *model.SearchResponse) {
	if len(resp.Results) == 0 {
		fmt.Println("No results.")
		return
	}
	fmt.Printf("Page %d (%d total)\n", resp.Page, resp.TotalCount)
	for _, r := range resp.Results {
		role := r.Role.Title
		if r.Role.CompanyName != "" {
			role += " @ " + r.Role.CompanyName
		}
		fmt.Printf("  %-14s %-30s %s\n", r.Person.PersonID, r.Person.FullName, role)
	}
	zap.L().Debug("page rendered", zap.Int("page", resp.Page), zap.Int("results", len(resp.Results)))
}

func init() {
	searchCmd.Flags().StringVar(&searchSource, "source", "forager", "provider to search (forager or aviato)")
	searchCmd.Flags().StringVar(&searchPreset, "preset", "", "named filter preset from the presets file")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "starting page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 10, "results per page")

	searchCmd.Flags().StringVar(&searchPersonIndustry, "person-industry", "", "forager: person industry filter")
	searchCmd.Flags().StringVar(&searchPersonLocation, "person-location", "", "forager: person location filter")
	searchCmd.Flags().StringVar(&searchCompanyIndustry, "company-industry", "", "company industry filter")
	searchCmd.Flags().StringVar(&searchCompanyLocation, "company-location", "", "forager: company location filter")
	searchCmd.Flags().StringVar(&searchCompanyKeywords, "company-keywords", "", "forager: company keyword filter")

	searchCmd.Flags().StringVar(&searchHeadline, "headline", "", "aviato: headline filter")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "aviato: country filter")
	searchCmd.Flags().StringVar(&searchCompanyName, "company-name", "", "aviato: company name filter")
	searchCmd.Flags().StringVar(&searchSkills, "skills", "", "aviato: skills filter")
	searchCmd.Flags().IntVar(&searchConnections, "linkedin-connections", 0, "aviato: minimum linkedin connections")

	rootCmd.AddCommand(searchCmd)
}
