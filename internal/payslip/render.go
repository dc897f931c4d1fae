package payslip

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/rhportal/payslip-engine/internal/store"
)

// The printable payslip is a fixed-layout text document consumed by systems
// that predate this engine, so every padding, truncation point and number
// format below is load-bearing. The byte stream is ISO-8859-1, the charset
// the document-management side has always spoken.
const (
	docWidth      = 98
	documentTitle = "RECIBO DE PAGAMENTO DE SALARIO"
)

var monthNames = [...]string{
	"",
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// RenderDocument turns a reconciled triple into the printable document.
// Pure and deterministic: same triple in, byte-identical stream out. Inputs
// are read-only; every padded or truncated value is a derived copy.
func RenderDocument(header store.PayHeaderRecord, events []store.PayEventRecord, footer store.PayFooterRecord) ([]byte, error) {
	var b strings.Builder
	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	rule := strings.Repeat("-", docWidth)

	writeLine(fmt.Sprintf("%-66s%32s", documentTitle, competencyLabel(header.Competency)))
	writeLine(fmt.Sprintf("%s %-50s %43s",
		padCode(header.CompanyCode, 3),
		truncateField(header.CompanyName, 50),
		"CNPJ: "+header.CompanyTaxID))
	writeLine(fmt.Sprintf("%s %-50s %41s",
		padCode(header.ClientCode, 5),
		truncateField(header.ClientName, 50),
		"CNPJ: "+header.ClientTaxID))
	writeLine(rule)

	writeLine(fmt.Sprintf("%-10s %-32s %-18s %-12s %-6s",
		"MATRICULA", "NOME", "FUNCAO", "ADMISSAO", "FILIAL"))
	writeLine(fmt.Sprintf("%-10s %-32s %-18s %-12s %-6s",
		padCode(header.RegistrationNumber, 6),
		truncateField(header.EmployeeName, 30),
		truncateField(header.RoleLabel, 16),
		formatDate(header.AdmissionDate),
		padCode(header.BranchCode, 3)))
	writeLine(rule)

	writeLine(fmt.Sprintf("%-5s %-30s %14s  %14s  %14s",
		"COD", "DESCRICAO", "REFERENCIA", "VENCIMENTOS", "DESCONTOS"))
	for _, ev := range events {
		credit, debit := "", ""
		if ev.Kind == store.KindCredit {
			credit = formatAmount(ev.Amount)
		} else {
			debit = formatAmount(ev.Amount)
		}
		writeLine(fmt.Sprintf("%-5d %-30s %14s |%14s |%14s",
			ev.EventCode,
			truncateField(strings.ToUpper(ev.EventLabel), 30),
			formatAmount(ev.ReferenceAmount),
			credit,
			debit))
	}
	writeLine(rule)

	writeLine(fmt.Sprintf("%53s%14s  %14s", "", "TOTAL VENCTOS.", "TOTAL DESCTOS."))
	writeLine(fmt.Sprintf("%53s%14s  %14s", "",
		formatAmount(footer.TotalCredits),
		formatAmount(footer.TotalDebits)))
	writeLine(fmt.Sprintf("%53s%-14s  %14s", "",
		"VALOR LIQUIDO",
		formatAmount(footer.NetAmount)))
	writeLine(rule)

	writeLine(fmt.Sprintf("%-13s %-13s %-13s %-13s %-13s %-7s %-7s",
		"SALARIO BASE", "BASE INSS", "BASE FGTS", "FGTS MES", "BASE IRRF", "DEP SF", "DEP IRF"))
	writeLine(fmt.Sprintf("%13s %13s %13s %13s %13s %7s %7s",
		formatAmount(footer.BaseSalary)+" M",
		formatAmount(footer.SocialSecurityBase),
		formatAmount(footer.SeveranceFundBase),
		formatAmount(footer.SeveranceFundMonth),
		formatAmount(footer.IncomeTaxBase),
		fmt.Sprintf("%02d", footer.DependentsFamilyAllowance),
		fmt.Sprintf("%02d", footer.DependentsIncomeTax)))
	writeLine(rule)

	writeLine(fmt.Sprintf("%-40s%s",
		truncateField(header.EmployeeName, 30),
		"DATA: ____/____/____"))

	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	out, err := enc.String(b.String())
	if err != nil {
		return nil, fmt.Errorf("failed to encode payslip document: %w", err)
	}
	return []byte(out), nil
}

// formatAmount renders a monetary value with '.' as thousands separator and
// ',' as decimal separator, always with two decimal digits, independent of
// the host locale.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	frac := s[len(s)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// competencyLabel renders the six-digit competency as the capitalized month
// name plus the year. Values that do not carry a plausible year+month come
// out empty rather than wrong.
func competencyLabel(raw string) string {
	token := DigitToken(raw)
	if len(token) != 6 {
		return ""
	}
	m, err := strconv.Atoi(token[4:])
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return monthNames[m] + " " + token[:4]
}

// padCode left-pads an identifier with zeros up to the given width. Values
// already wider than the column are kept as stored.
func padCode(s string, width int) string {
	s = strings.TrimSpace(s)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// truncateField trims a free-text field to its column, marking the cut with
// a trailing "..." kept inside the width (ISO-8859-1 has no ellipsis rune).
func truncateField(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max-3]) + "..."
}

// formatDate renders a stored date as DD/MM/YYYY. The import runs are not
// consistent about the stored shape, so parsing is tolerant, the same way
// the rest of the engine treats upstream text. Unparseable values pass
// through as stored.
func formatDate(raw string) string {
	if t, ok := parseFlexibleDate(raw); ok {
		return t.Format("02/01/2006")
	}
	return strings.TrimSpace(raw)
}

func parseFlexibleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
