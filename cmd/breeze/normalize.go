package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/breeze-go/breeze/internal/jsonx"
	"github.com/breeze-go/breeze/normalize"
	"github.com/spf13/cobra"
)

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	var profilePath, formFieldsPath string
	var extra []string
	cmd := &cobra.Command{
		Use:   "normalize <entity> [file]",
		Short: "Normalize a saved API payload without contacting the service",
		Long: "Reads a JSON payload from file (or stdin) and prints it normalized as the given entity.\n" +
			"Entities: " + kindList() + ".",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := normalize.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q (want one of %s)", args[0], kindList())
			}

			in := cmd.InOrStdin()
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := jsonx.Decode(in)
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			nopts := []normalize.Option{normalize.WithExtraActions(extra...)}
			switch {
			case profilePath != "":
				groups, err := readGroups(profilePath, normalize.FieldGroupsFrom)
				if err != nil {
					return err
				}
				nopts = append(nopts, normalize.WithFieldGroups(groups))
			case formFieldsPath != "":
				groups, err := readGroups(formFieldsPath, normalize.FormFieldsFrom)
				if err != nil {
					return err
				}
				nopts = append(nopts, normalize.WithFieldGroups(groups))
			}

			out, err := normalize.Entity(kind, raw, nopts...)
			if printErr := opts.print(cmd.OutOrStdout(), out); printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile-fields", "", "saved profile-field listing used to type person details")
	cmd.Flags().StringVar(&formFieldsPath, "form-fields", "", "saved form-field listing used to type form answers")
	cmd.Flags().StringSliceVar(&extra, "accept-action", nil, "additional account-log action names to accept")
	cmd.MarkFlagsMutuallyExclusive("profile-fields", "form-fields")
	return cmd
}

func readGroups(path string, extract func(any) []normalize.FieldGroup) ([]normalize.FieldGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := jsonx.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return extract(raw), nil
}

func kindList() string {
	kinds := normalize.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
