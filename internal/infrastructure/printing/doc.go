// Package printing renders vouchers and receipts to PDF.
//
// Documents are produced in two steps: an embedded html/template is executed
// against a view model built from the finance records, then the resulting
// HTML is printed to PDF by headless Chrome (chromedp).
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	printer := NewDocumentPrinter(renderer, DocumentPrinterConfig{CompanyName: "Acme Properties", CurrencyCode: "AED"})
//	pdf, err := printer.PaymentVoucherPDF(ctx, voucher)
package printing
