// Package export encodes indicator series as downloadable CSV or XLSX
// payloads.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/econlab/indicadores/indicator"
)

// Format selects the download encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ExportYears is how far back a download reaches. Downloads deliberately
// ignore whatever range the UI is currently displaying.
const ExportYears = 5

// Excel rejects sheet names longer than 31 characters.
const maxSheetNameLen = 31

// MIME types for the supported formats.
const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Payload is an encoded download ready to serve.
type Payload struct {
	Bytes     []byte
	MIMEType  string
	Extension string
}

// ParseFormat maps the request's format parameter to a Format, defaulting
// to CSV. "xlsx" is accepted as an alias for "excel".
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "excel", "xlsx":
		return FormatExcel
	default:
		return FormatCSV
	}
}

// Range returns the fixed download window ending today: (today - ExportYears
// .. today) as YYYY-MM-DD strings.
func Range(now time.Time) (firstDate, lastDate string) {
	return now.AddDate(-ExportYears, 0, 0).Format("2006-01-02"), now.Format("2006-01-02")
}

// Encode renders the series in the requested format. The description names
// the spreadsheet sheet; CSV ignores it.
func Encode(s indicator.Series, description string, format Format) (Payload, error) {
	if format == FormatExcel {
		return encodeXLSX(s, description)
	}
	return encodeCSV(s)
}

func encodeCSV(s indicator.Series) (Payload, error) {
	var b strings.Builder
	b.WriteString("Fecha,Valor\n")
	for _, obs := range s {
		b.WriteString(localDate(obs.Date))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(obs.Value, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return Payload{
		Bytes:     []byte(b.String()),
		MIMEType:  mimeCSV,
		Extension: "csv",
	}, nil
}

func encodeXLSX(s indicator.Series, description string) (Payload, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(description)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return Payload{}, fmt.Errorf("export: name sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", "Fecha"); err != nil {
		return Payload{}, err
	}
	if err := f.SetCellValue(sheet, "B1", "Valor"); err != nil {
		return Payload{}, err
	}
	for i, obs := range s {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), localDate(obs.Date)); err != nil {
			return Payload{}, err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), obs.Value); err != nil {
			return Payload{}, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Payload{}, fmt.Errorf("export: write workbook: %w", err)
	}
	return Payload{
		Bytes:     buf.Bytes(),
		MIMEType:  mimeXLSX,
		Extension: "xlsx",
	}, nil
}

// localDate renders a date the way the dashboard's Chilean users read it.
func localDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// sheetName makes the description safe as an Excel sheet name: strip the
// characters Excel forbids, cap at 31 characters.
func sheetName(description string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, description)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Datos"
	}
	runes := []rune(cleaned)
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	return string(runes)
}

// Slug sanitizes a description for use in a filename: lowercase, every
// non-alphanumeric character replaced with an underscore.
func Slug(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, s)
}

// Filename builds the download filename: <slug(description)>_<YYYY-MM-DD>.<ext>.
func Filename(description, extension string, now time.Time) string {
	return Slug(description) + "_" + now.Format("2006-01-02") + "." + extension
}
