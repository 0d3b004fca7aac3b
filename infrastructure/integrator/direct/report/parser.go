package report

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
)

// Row é uma linha tipada do relatório. Os valores são nil (célula vazia),
// int64, float64 ou string conforme o tipo da coluna.
type Row map[string]interface{}

// Int retorna o valor inteiro de uma coluna, ou zero quando nulo.
func (r Row) Int(name string) int64 {
	if v, ok := r[name].(int64); ok {
		return v
	}
	return 0
}

// Float retorna o valor decimal de uma coluna, ou zero quando nulo.
func (r Row) Float(name string) float64 {
	if v, ok := r[name].(float64); ok {
		return v
	}
	return 0
}

// String retorna o valor textual de uma coluna, ou vazio quando nulo.
func (r Row) String(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// IsNull indica se a célula veio vazia ("--") ou ausente.
func (r Row) IsNull(name string) bool {
	v, ok := r[name]
	return !ok || v == nil
}

// nullCell é o marcador de valor ausente usado pelo serviço Reports.
const nullCell = "--"

// Parse converte o corpo TSV de um relatório em linhas tipadas.
//
// O cabeçalho pode estar na primeira linha ou na segunda, quando o servidor
// inclui uma linha de título antes dele. Linhas de totais são descartadas.
// Linhas malformadas são logadas e puladas sem abortar o relatório inteiro;
// apenas a ausência do cabeçalho é um erro terminal.
func Parse(raw string, fields []directdomain.Field) ([]Row, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	expected := make([]string, 0, len(fields))
	for _, f := range fields {
		expected = append(expected, f.Name)
	}

	header, dataStart, ok := locateHeader(lines, expected)
	if !ok {
		return nil, directdomain.NewDirectError(
			directdomain.KindParsing,
			"cabeçalho do relatório não encontrado nas duas primeiras linhas",
		)
	}

	// Índice de cada coluna esperada dentro do cabeçalho real. Colunas
	// extras do servidor são ignoradas.
	indexes := make(map[string]int, len(fields))
	for _, name := range expected {
		for i, h := range header {
			if h == name {
				indexes[name] = i
				break
			}
		}
	}

	rows := make([]Row, 0, len(lines)-dataStart)

	for lineNum := dataStart; lineNum < len(lines); lineNum++ {
		line := lines[lineNum]
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, "\t")

		if isTotalRow(cells[0]) {
			continue
		}

		if len(cells) < len(header) {
			logrus.WithFields(logrus.Fields{
				"line":     lineNum + 1,
				"expected": len(header),
				"got":      len(cells),
			}).Warn("Linha do relatório com número de colunas inesperado, pulando")
			continue
		}

		row, err := convertRow(cells, fields, indexes)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"line":  lineNum + 1,
				"error": err.Error(),
			}).Warn("Linha do relatório malformada, pulando")
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// locateHeader procura o cabeçalho na primeira ou na segunda linha. O
// cabeçalho é reconhecido quando contém todas as colunas esperadas.
func locateHeader(lines []string, expected []string) (header []string, dataStart int, ok bool) {
	if len(lines) > 1 {
		second := strings.Split(lines[1], "\t")
		if containsAll(second, expected) {
			return second, 2, true
		}
	}

	if len(lines) > 0 {
		first := strings.Split(lines[0], "\t")
		if containsAll(first, expected) {
			return first, 1, true
		}
	}

	return nil, 0, false
}

func containsAll(header, expected []string) bool {
	if len(expected) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(header))
	for _, h := range header {
		set[strings.TrimSpace(h)] = struct{}{}
	}
	for _, name := range expected {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}

func isTotalRow(firstCell string) bool {
	cell := strings.ToLower(strings.TrimSpace(firstCell))
	return strings.HasPrefix(cell, "total") || strings.HasPrefix(cell, "итого")
}

func convertRow(cells []string, fields []directdomain.Field, indexes map[string]int) (Row, error) {
	row := make(Row, len(fields))

	for _, field := range fields {
		idx, ok := indexes[field.Name]
		if !ok || idx >= len(cells) {
			row[field.Name] = nil
			continue
		}

		value := strings.TrimSpace(cells[idx])
		if value == nullCell || value == "" {
			row[field.Name] = nil
			continue
		}

		switch field.Type {
		case directdomain.FieldInt:
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "coluna %s: valor %q não é inteiro", field.Name, value)
			}
			row[field.Name] = parsed
		case directdomain.FieldFloat:
			// O servidor pode usar vírgula como separador decimal.
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "coluna %s: valor %q não é decimal", field.Name, value)
			}
			row[field.Name] = parsed
		default:
			row[field.Name] = value
		}
	}

	return row, nil
}
