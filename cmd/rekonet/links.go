package main

import (
	"github.com/spf13/cobra"

	"rekonet-workers/internal/jobsearch"
	"rekonet-workers/internal/readiness"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Build live job search links for a goal role",
	RunE:  runLinks,
}

var (
	linksGoal     string
	linksPlace    string
	linksMonths   int
	linksKeywords []string
	linksContract string
)

func init() {
	linksCmd.Flags().StringVarP(&linksGoal, "goal", "g", "", "Goal role title")
	linksCmd.Flags().StringVarP(&linksPlace, "place", "p", "", "Town or UK postcode")
	linksCmd.Flags().IntVar(&linksMonths, "months", 0, "Total months of experience")
	linksCmd.Flags().StringSliceVarP(&linksKeywords, "keyword", "k", nil, "CV keyword, repeatable")
	linksCmd.Flags().StringVar(&linksContract, "contract", "", "full_time, part_time, weekends or any")

	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, _ []string) error {
	q := jobsearch.Query{
		Goal:     linksGoal,
		Stage:    readiness.MustNew(readiness.DefaultSettings(), nil).StageFor(linksMonths),
		Place:    linksPlace,
		Keywords: linksKeywords,
	}
	if linksContract != "" {
		q.Availability = &readiness.Availability{Contract: readiness.Contract(linksContract)}
	}
	return writeJSON(cmd.OutOrStdout(), "", jobsearch.BuildLinks(q))
}
