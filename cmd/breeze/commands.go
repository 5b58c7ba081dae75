package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/breeze-go/breeze"
	"github.com/breeze-go/breeze/normalize"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newPeopleCmd(opts *rootOptions) *cobra.Command {
	var p breeze.ListPeopleParams
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			people, err := c.ListPeople(cmd.Context(), p)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), people)
		},
	}
	cmd.Flags().BoolVar(&p.Details, "details", false, "include every profile field")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of people")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "number of people to skip")
	cmd.Flags().StringVar(&p.FilterJSON, "filter", "", "filter_json passed through verbatim")
	return cmd
}

func newPersonCmd(opts *rootOptions) *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:   "person <id>...",
		Short: "Show one or more people",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			if len(ids) == 1 {
				person, err := c.ShowPerson(cmd.Context(), ids[0], details)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), person)
			}
			people, err := c.ShowPeople(cmd.Context(), ids, details)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), people)
		},
	}
	cmd.Flags().BoolVar(&details, "details", true, "include every profile field")
	return cmd
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var p breeze.ListEventsParams
	var start, end string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if p.Start, err = parseDate(start); err != nil {
				return err
			}
			if p.End, err = parseDate(end); err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			events, err := c.ListEvents(cmd.Context(), p)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&p.Details, "details", false, "include event details")
	cmd.Flags().BoolVar(&p.Eligible, "eligible", false, "include check-in eligibility")
	cmd.Flags().Int64Var(&p.CategoryID, "calendar", 0, "only events on this calendar")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of events")
	return cmd
}

func newFundsCmd(opts *rootOptions) *cobra.Command {
	var totals bool
	cmd := &cobra.Command{
		Use:   "funds",
		Short: "List funds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			funds, err := c.ListFunds(cmd.Context(), totals)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), funds)
		},
	}
	cmd.Flags().BoolVar(&totals, "totals", false, "include the amount given to each fund")
	return cmd
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	var folder int64
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			tags, err := c.ListTags(cmd.Context(), folder)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), tags)
		},
	}
	cmd.Flags().Int64Var(&folder, "folder", 0, "only tags in this folder")
	return cmd
}

func newAccountLogCmd(opts *rootOptions) *cobra.Command {
	var p breeze.AccountLogParams
	var start, end string
	var extra []string
	cmd := &cobra.Command{
		Use:   "account-log <action>",
		Short: "List logged account actions of one kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Action = normalize.Action(args[0])
			var err error
			if p.Start, err = parseDate(start); err != nil {
				return err
			}
			if p.End, err = parseDate(end); err != nil {
				return err
			}
			cfg, err := breeze.LoadConfig()
			if err != nil {
				return err
			}
			clientOpts := []breeze.Option{breeze.WithAccountLogActions(extra...)}
			if l := opts.logger(); l != nil {
				clientOpts = append(clientOpts, breeze.WithLogger(l))
			}
			c, err := breeze.NewFromConfig(cfg, clientOpts...)
			if err != nil {
				return err
			}
			entries, err := c.AccountLog(cmd.Context(), p)
			if printErr := opts.print(cmd.OutOrStdout(), entries); printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().Int64Var(&p.UserID, "user", 0, "only actions by this user")
	cmd.Flags().BoolVar(&p.Details, "details", false, "include change payloads")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "maximum number of entries (at most 3000)")
	cmd.Flags().StringSliceVar(&extra, "accept-action", nil, "additional action names to accept")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
