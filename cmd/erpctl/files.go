package main

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erp/backoffice/internal/client"
	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/spf13/cobra"
)

func exportCommand(a *app) *cobra.Command {
	var search, sort, direction, status, active, output string
	cmd := &cobra.Command{
		Use:       "export <customers|suppliers|payment-vouchers>",
		Short:     "Download a list as an Excel workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"customers", "suppliers", "payment-vouchers"},
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for k, v := range map[string]string{
				"search": search, "sort": sort, "direction": direction, "status": status, "active": active,
			} {
				if v != "" {
					q.Set(k, v)
				}
			}
			return a.download(cmd, "/exports/"+args[0]+"/xlsx", q, output)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search text")
	cmd.Flags().StringVar(&sort, "sort", "", "sort column")
	cmd.Flags().StringVar(&direction, "direction", "", "asc or desc")
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&active, "active", "", "true or false")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: the name sent by the server)")
	return cmd
}

func printCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "print <payment-vouchers|petty-cash|lease-receipts> <id>",
		Short:     "Download the PDF of a voucher or receipt",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"payment-vouchers", "petty-cash", "lease-receipts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[1], 10, 64); err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			return a.download(cmd, "/exports/"+args[0]+"/"+args[1]+"/pdf", nil, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: the name sent by the server)")
	return cmd
}

func (a *app) download(cmd *cobra.Command, path string, q url.Values, output string) error {
	name, content, err := a.client.Download(cmd.Context(), path, q)
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Base(name)
	}
	if output == "" || output == "." {
		return fmt.Errorf("server sent no file name, use --output")
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", client.Icon("export"), output, len(content))
	return nil
}

func attachCommand(a *app) *cobra.Command {
	var docName, expiry string
	cmd := &cobra.Command{
		Use:   "attach <family> <owner-id> <doc-type-id> <file>",
		Short: "Upload a file to a customer, supplier or payment voucher",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := contract.Family(args[0])
			if !contract.HasAttachments(f) {
				return fmt.Errorf("%s records do not take attachments", f)
			}
			ownerID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid owner id %q", args[1])
			}
			docTypeID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document type id %q", args[2])
			}
			content, err := os.ReadFile(args[3])
			if err != nil {
				return err
			}
			exp, err := shared.ParseDate(expiry)
			if err != nil {
				return fmt.Errorf("invalid expiry date: %w", err)
			}
			if docName == "" {
				docName = filepath.Base(args[3])
			}
			p := client.UploadParams(ownerID, docTypeID, docName,
				client.UploadFile{Name: filepath.Base(args[3]), Content: content}, exp)
			att, err := a.client.Upload(cmd.Context(), f, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), att)
		},
	}
	cmd.Flags().StringVar(&docName, "name", "", "document name (default: the file name)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date, YYYY-MM-DD")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <family> <attachment-id> <output>",
		Short: "Download one attachment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid attachment id %q", args[1])
			}
			file, err := a.client.Attachment(cmd.Context(), contract.Family(args[0]), id)
			if err != nil {
				return err
			}
			content, err := base64.StdEncoding.DecodeString(file.FileContent)
			if err != nil {
				return fmt.Errorf("decode attachment: %w", err)
			}
			return os.WriteFile(args[2], content, 0o644)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <family> <owner-id>",
		Short: "List the attachments of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid owner id %q", args[1])
			}
			items, err := a.client.Attachments(cmd.Context(), contract.Family(args[0]), ownerID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	})
	return cmd
}
