package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/rhportal/payslip-engine/internal/store"
)

// The payroll system exports one semicolon-separated file per fact table,
// encoded in ISO-8859-1 like everything else it emits. Each file starts with
// a header line. Competency values are carried through exactly as exported;
// matching them is the engine's job, not the importer's.

const (
	eventFieldCount  = 8
	headerFieldCount = 13
	footerFieldCount = 13
)

func openExport(path string, fieldCount int) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open export file: %w", err)
	}

	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	r.Comma = ';'
	r.FieldsPerRecord = fieldCount

	// header line
	if _, err := r.Read(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read export header line: %w", err)
	}

	return f, r, nil
}

// parseAmount reads a monetary value the way the payroll system writes it:
// '.' as thousands separator, ',' as decimal separator. Empty fields mean
// zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return d, nil
}

// parseKind maps the export's event nature column. The payroll system writes
// V (vencimento) and D (desconto); re-imports of already-normalized data
// carry the stored kinds.
func parseKind(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "V", strings.ToUpper(store.KindCredit):
		return store.KindCredit, nil
	case "D", strings.ToUpper(store.KindDebit):
		return store.KindDebit, nil
	default:
		return "", fmt.Errorf("unknown event kind %q", raw)
	}
}

func readEvents(path string) ([]store.PayEventRecord, error) {
	f, r, err := openExport(path, eventFieldCount)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []store.PayEventRecord
	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read events line %d: %w", line, err)
		}

		code, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, fmt.Errorf("failed to parse event code on line %d: %w", line, err)
		}
		reference, err := parseAmount(fields[5])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line, err)
		}
		amount, err := parseAmount(fields[6])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line, err)
		}
		kind, err := parseKind(fields[7])
		if err != nil {
			return nil, fmt.Errorf("events line %d: %w", line, err)
		}

		rows = append(rows, store.PayEventRecord{
			CPF:                strings.TrimSpace(fields[0]),
			RegistrationNumber: strings.TrimSpace(fields[1]),
			Competency:         strings.TrimSpace(fields[2]),
			EventCode:          code,
			EventLabel:         strings.TrimSpace(fields[4]),
			ReferenceAmount:    reference,
			Amount:             amount,
			Kind:               kind,
		})
	}
	return rows, nil
}

func readHeaders(path string) ([]store.PayHeaderRecord, error) {
	f, r, err := openExport(path, headerFieldCount)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []store.PayHeaderRecord
	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read headers line %d: %w", line, err)
		}

		rows = append(rows, store.PayHeaderRecord{
			CPF:                strings.TrimSpace(fields[0]),
			RegistrationNumber: strings.TrimSpace(fields[1]),
			Competency:         strings.TrimSpace(fields[2]),
			CompanyCode:        strings.TrimSpace(fields[3]),
			CompanyName:        strings.TrimSpace(fields[4]),
			CompanyTaxID:       strings.TrimSpace(fields[5]),
			ClientCode:         strings.TrimSpace(fields[6]),
			ClientName:         strings.TrimSpace(fields[7]),
			ClientTaxID:        strings.TrimSpace(fields[8]),
			BranchCode:         strings.TrimSpace(fields[9]),
			EmployeeName:       strings.TrimSpace(fields[10]),
			RoleLabel:          strings.TrimSpace(fields[11]),
			AdmissionDate:      strings.TrimSpace(fields[12]),
		})
	}
	return rows, nil
}

func readFooters(path string) ([]store.PayFooterRecord, error) {
	f, r, err := openExport(path, footerFieldCount)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []store.PayFooterRecord
	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read footers line %d: %w", line, err)
		}

		amounts := make([]decimal.Decimal, 8)
		for i := range amounts {
			amounts[i], err = parseAmount(fields[3+i])
			if err != nil {
				return nil, fmt.Errorf("footers line %d: %w", line, err)
			}
		}
		depsFamily, err := strconv.Atoi(strings.TrimSpace(fields[11]))
		if err != nil {
			return nil, fmt.Errorf("failed to parse family-allowance dependents on line %d: %w", line, err)
		}
		depsTax, err := strconv.Atoi(strings.TrimSpace(fields[12]))
		if err != nil {
			return nil, fmt.Errorf("failed to parse income-tax dependents on line %d: %w", line, err)
		}

		rows = append(rows, store.PayFooterRecord{
			CPF:                       strings.TrimSpace(fields[0]),
			RegistrationNumber:        strings.TrimSpace(fields[1]),
			Competency:                strings.TrimSpace(fields[2]),
			TotalCredits:              amounts[0],
			TotalDebits:               amounts[1],
			NetAmount:                 amounts[2],
			BaseSalary:                amounts[3],
			SocialSecurityBase:        amounts[4],
			SeveranceFundBase:         amounts[5],
			SeveranceFundMonth:        amounts[6],
			IncomeTaxBase:             amounts[7],
			DependentsFamilyAllowance: depsFamily,
			DependentsIncomeTax:       depsTax,
		})
	}
	return rows, nil
}
