package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/erp/backoffice/internal/client"
	"github.com/erp/backoffice/internal/contract"
	"github.com/spf13/cobra"
)

// familyCommands builds one command per family with a subcommand per mode
func familyCommands(a *app) []*cobra.Command {
	var out []*cobra.Command
	for _, f := range contract.Families() {
		fc := &cobra.Command{
			Use:     string(f),
			Aliases: familyAliases[f],
			Short:   fmt.Sprintf("%s %s records", client.Icon(string(f)), strings.ReplaceAll(string(f), "-", " ")),
		}
		for _, m := range contract.Modes(f) {
			fc.AddCommand(modeCommand(a, f, m))
		}
		out = append(out, fc)
	}
	return out
}

var familyAliases = map[contract.Family][]string{
	contract.FamilyLeaseReceipts:   {"receipts"},
	contract.FamilyLeaseInvoices:   {"invoices"},
	contract.FamilyPaymentVouchers: {"vouchers"},
}

// modeAliases shortens the pending mode names
var modeAliases = map[string][]string{
	"pending-approval":     {"pending"},
	"outstanding-invoices": {"outstanding"},
}

// modeSlug turns a mode name into a subcommand name
func modeSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

type paramsInput struct {
	file     string
	page     int
	pageSize int
	search   string
	status   string

	names       map[string]*string
	paymentType string
}

func modeCommand(a *app, f contract.Family, m contract.Mode) *cobra.Command {
	in := &paramsInput{}
	name := contract.ModeName(f, m)
	cmd := &cobra.Command{
		Use:     modeSlug(name) + " [json]",
		Aliases: modeAliases[modeSlug(name)],
		Short:   fmt.Sprintf("%s (mode %d)", name, m),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := in.params(cmd.InOrStdin(), f, m, args)
			if err != nil {
				return err
			}
			if err := in.applyForm(cmd, f, params); err != nil {
				return err
			}
			if m == contract.ModeDelete && f != contract.FamilyLookups {
				return a.confirmDelete(cmd, f, params)
			}
			return a.call(cmd, f, m, params)
		},
	}
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read the parameters from a JSON file, - for stdin")
	if bag, _ := contract.NewParams(f, m); isList(bag) {
		cmd.Flags().IntVar(&in.page, "page", 1, "page number")
		cmd.Flags().IntVar(&in.pageSize, "size", 20, "page size")
		cmd.Flags().StringVar(&in.search, "search", "", "search text")
		cmd.Flags().StringVar(&in.status, "status", "", "status filter")
	}
	in.formFlags(cmd, f, m)
	return cmd
}

func isList(bag any) bool {
	_, ok := bag.(*contract.ListParams)
	return ok
}

// params decodes the parameter bag from the argument, the file or the list
// flags, in that order
func (in *paramsInput) params(stdin io.Reader, f contract.Family, m contract.Mode, args []string) (any, error) {
	var raw []byte
	switch {
	case len(args) == 1:
		raw = []byte(args[0])
	case in.file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case in.file != "":
		b, err := os.ReadFile(in.file)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	params, err := contract.Decode(f, m, raw)
	if err != nil {
		return nil, err
	}
	if lp, ok := params.(*contract.ListParams); ok && len(raw) == 0 {
		*lp = contract.ListParams{PageNumber: in.page, PageSize: in.pageSize, SearchText: in.search, Status: in.status}
	}
	return params, nil
}

func (a *app) call(cmd *cobra.Command, f contract.Family, m contract.Mode, params any) error {
	var out json.RawMessage
	meta, err := a.client.Call(cmd.Context(), f, m, params, &out)
	if err != nil {
		return err
	}
	printMeta(cmd.ErrOrStderr(), meta)
	if len(out) == 0 {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), out)
}

// confirmDelete asks before running a delete mode
func (a *app) confirmDelete(cmd *cobra.Command, f contract.Family, params any) error {
	svc := client.NewService[json.RawMessage](a.client, f)
	label := singular(f) + " record"
	if id, ok := recordID(params); ok {
		label = fmt.Sprintf("%s %d", label, id)
	}
	deleted, err := client.ConfirmDelete(cmd.Context(), svc, a.term, nil, 0, label, params)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
	}
	return nil
}

// singular names one record of a family
func singular(f contract.Family) string {
	name := strings.ReplaceAll(string(f), "-", " ")
	if base, ok := strings.CutSuffix(name, "ies"); ok {
		return base + "y"
	}
	return strings.TrimSuffix(name, "s")
}

// recordID reads the single ID field of an ID bag
func recordID(params any) (int64, bool) {
	raw, err := json.Marshal(params)
	if err != nil {
		return 0, false
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil || len(fields) != 1 {
		return 0, false
	}
	for _, v := range fields {
		id, err := strconv.ParseInt(string(v), 10, 64)
		return id, err == nil
	}
	return 0, false
}

func callCommand(a *app) *cobra.Command {
	in := &paramsInput{}
	cmd := &cobra.Command{
		Use:   "call <family> <mode> [json]",
		Short: "Run any mode of a family",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := contract.Family(args[0])
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid mode %q", args[1])
			}
			m := contract.Mode(n)
			params, err := in.params(cmd.InOrStdin(), f, m, args[2:])
			if err != nil {
				return err
			}
			return a.call(cmd, f, m, params)
		},
	}
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "read the parameters from a JSON file, - for stdin")
	in.page, in.pageSize = 1, 20
	return cmd
}
