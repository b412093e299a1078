package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/econlab/indicadores/indicator"
)

func TestEncodeCSV(t *testing.T) {
	s := indicator.Series{{Date: indicator.Day(2024, time.January, 1), Value: 100.5}}

	p, err := Encode(s, "UF", FormatCSV)
	require.NoError(t, err)

	require.Equal(t, "Fecha,Valor\n01/01/2024,100.5\n", string(p.Bytes))
	require.Equal(t, "text/csv; charset=utf-8", p.MIMEType)
	require.Equal(t, "csv", p.Extension)
}

func TestEncodeCSVNoRounding(t *testing.T) {
	s := indicator.Series{{Date: indicator.Day(2024, time.March, 15), Value: 37516.69}}

	p, err := Encode(s, "UF", FormatCSV)
	require.NoError(t, err)
	require.Equal(t, "Fecha,Valor\n15/03/2024,37516.69\n", string(p.Bytes))
}

func TestEncodeXLSX(t *testing.T) {
	s := indicator.Series{
		{Date: indicator.Day(2024, time.January, 1), Value: 100.5},
		{Date: indicator.Day(2024, time.January, 2), Value: 101},
	}
	longDescription := "Unidad de Fomento (UF) - valor diario en pesos"

	p, err := Encode(s, longDescription, FormatExcel)
	require.NoError(t, err)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", p.MIMEType)
	require.Equal(t, "xlsx", p.Extension)

	f, err := excelize.OpenReader(bytes.NewReader(p.Bytes))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	require.Len(t, []rune(sheets[0]), 31, "sheet name must be truncated to Excel's limit")

	header, err := f.GetCellValue(sheets[0], "A1")
	require.NoError(t, err)
	require.Equal(t, "Fecha", header)

	date, err := f.GetCellValue(sheets[0], "A2")
	require.NoError(t, err)
	require.Equal(t, "01/01/2024", date)

	value, err := f.GetCellValue(sheets[0], "B2")
	require.NoError(t, err)
	require.Equal(t, "100.5", value)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"excel", FormatExcel},
		{"xlsx", FormatExcel},
		{"EXCEL", FormatExcel},
		{"", FormatCSV},
		{"pdf", FormatCSV},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dólar observado", "d_lar_observado"},
		{"UF", "uf"},
		{"IPC (variación mensual)", "ipc__variaci_n_mensual_"},
		{"indicador", "indicador"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	got := Filename("Dólar observado", "csv", now)
	if got != "d_lar_observado_2024-03-15.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	first, last := Range(now)
	if first != "2019-03-15" || last != "2024-03-15" {
		t.Errorf("Range = %q..%q, want 2019-03-15..2024-03-15", first, last)
	}
}
