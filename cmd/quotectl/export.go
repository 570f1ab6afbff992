package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/steel-quoter/internal/export"
	"github.com/rogerio-castellano/steel-quoter/internal/jobs"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

func newExportCmd() *cobra.Command {
	var (
		out    string
		status string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write quotes to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, database, log, err := openService(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			filter := repo.QuoteFilter{Status: models.QuoteStatus(status)}
			if filter.Status != "" && !filter.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			var all []models.Quote
			for {
				offset := len(all)
				filter.Offset = &offset
				page, total, err := svc.ListQuotes(ctx, filter)
				if err != nil {
					return err
				}
				all = append(all, page...)
				if len(page) == 0 || len(all) >= total {
					break
				}
			}

			if out == "" {
				out = export.Filename("quotes", time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := export.Quotes(f, all); err != nil {
				return err
			}
			log.WithField("file", out).WithField("quotes", len(all)).Info("quotes exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default quotes-<date>.xlsx)")
	cmd.Flags().StringVar(&status, "status", "", "only export quotes with this status")
	return cmd
}

func newExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Expire sent quotes whose validity has lapsed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, database, log, err := openService(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			n, err := jobs.NewScheduler(svc, log).RunExpiry(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d quotes\n", n)
			return nil
		},
	}
}
