package importer

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `FACTURA;FECHA;DETALLE;CANTIDAD;PROVEEDOR;LOTE;REGISTRO INVIMA;FECHA DE CADUCIDAD;VALOR
10234.0;3/2/2021;Resina acrilica;2,5;Quimicos SA;L-88;INV-2020-14;15/08/2023;1,250,000
10235;04/02/2021;Velcro;10;Textiles Ltda;;;;85,000
;;;;;;;;
10236;5/2/2021;Espuma pelite;1;Quimicos SA;;;;
`

func TestParseFile(t *testing.T) {
	entries, err := ParseFile(strings.NewReader(sampleCSV), DefaultMapping, ';')
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (blank row skipped), got %d", len(entries))
	}

	first := entries[0]
	if first.InvoiceNumber != "10234" {
		t.Errorf("invoice = %q, want 10234 (float suffix stripped)", first.InvoiceNumber)
	}
	if first.PurchaseDate != time.Date(2021, 2, 3, 0, 0, 0, 0, time.UTC) {
		t.Errorf("purchase date = %v", first.PurchaseDate)
	}
	if first.Amount != 2.5 {
		t.Errorf("amount = %v, want 2.5 (decimal comma)", first.Amount)
	}
	if first.Value == nil || *first.Value != 1250000 {
		t.Errorf("value = %v, want 1250000 (thousands separators stripped)", first.Value)
	}
	if first.ExpirationDate == nil || first.ExpirationDate.Year() != 2023 {
		t.Errorf("expiration date = %v", first.ExpirationDate)
	}

	second := entries[1]
	if second.Supplies != "Velcro" || second.Amount != 10 {
		t.Errorf("second entry = %+v", second)
	}
	if second.ExpirationDate != nil || second.Value == nil || *second.Value != 85000 {
		t.Errorf("second entry optionals = %v %v", second.ExpirationDate, second.Value)
	}

	third := entries[2]
	if third.Value != nil {
		t.Errorf("expected nil value for third entry, got %v", *third.Value)
	}
}

func TestParseFileMissingColumn(t *testing.T) {
	csv := "FACTURA;FECHA\n1;2/1/2021\n"
	_, err := ParseFile(strings.NewReader(csv), DefaultMapping, ';')
	if err == nil {
		t.Fatal("expected error for missing mapped column")
	}
}

func TestParseFileBadDate(t *testing.T) {
	csv := strings.Join([]string{
		"FACTURA;FECHA;DETALLE;CANTIDAD;PROVEEDOR;LOTE;REGISTRO INVIMA;FECHA DE CADUCIDAD;VALOR",
		"1;not-a-date;Resina;1;X;;;;",
		"",
	}, "\n")
	_, err := ParseFile(strings.NewReader(csv), DefaultMapping, ';')
	if err == nil || !strings.Contains(err.Error(), "purchase date") {
		t.Fatalf("expected purchase date error, got %v", err)
	}
}

func TestDecoderFor(t *testing.T) {
	if d, err := decoderFor("utf-8"); err != nil || d != nil {
		t.Errorf("utf-8: %v %v", d, err)
	}
	if d, err := decoderFor("latin-1"); err != nil || d == nil {
		t.Errorf("latin-1: %v %v", d, err)
	}
	if _, err := decoderFor("ebcdic"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestParseHelpers(t *testing.T) {
	if got := parseInvoice("99.0"); got != "99" {
		t.Errorf("parseInvoice = %q", got)
	}
	if got := parseInvoice("99"); got != "99" {
		t.Errorf("parseInvoice = %q", got)
	}
	if v, err := parseValue("1,000"); err != nil || v != 1000 {
		t.Errorf("parseValue = %d %v", v, err)
	}
	if a, err := parseAmount("3,25"); err != nil || a != 3.25 {
		t.Errorf("parseAmount = %v %v", a, err)
	}
}
