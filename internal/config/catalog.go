package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/econlab/indicadores/indicator"
)

// Indicator describes one dashboard card: which BCCh series backs it and
// which lookback its headline change uses.
type Indicator struct {
	SeriesID string `yaml:"series_id" json:"seriesId"`
	Name     string `yaml:"name" json:"name"`
	Unit     string `yaml:"unit" json:"unit"`
	Lookback string `yaml:"lookback" json:"lookback"`
}

// LookbackSpec maps the catalog's lookback string to the domain type.
func (i Indicator) LookbackSpec() indicator.Lookback {
	switch i.Lookback {
	case "year":
		return indicator.Lookback{Unit: indicator.LookbackYear}
	case "month":
		return indicator.Lookback{Unit: indicator.LookbackMonth}
	default:
		return indicator.Lookback{Unit: indicator.LookbackDay}
	}
}

// defaultCatalog covers the indicators the dashboard ships with.
var defaultCatalog = []Indicator{
	{SeriesID: "F073.UFF.PRE.Z.D", Name: "Unidad de Fomento (UF)", Unit: "CLP", Lookback: "day"},
	{SeriesID: "F073.TCO.PRE.Z.D", Name: "Dólar observado", Unit: "CLP", Lookback: "day"},
	{SeriesID: "F072.CLP.EUR.N.O.D", Name: "Euro", Unit: "CLP", Lookback: "day"},
	{SeriesID: "F073.UTR.PRE.Z.M", Name: "Unidad Tributaria Mensual (UTM)", Unit: "CLP", Lookback: "month"},
	{SeriesID: "F074.IPC.VAR.Z.Z.C.M", Name: "IPC (variación mensual)", Unit: "%", Lookback: "month"},
	{SeriesID: "F022.TPM.TIN.D001.NO.Z.D", Name: "Tasa de Política Monetaria (TPM)", Unit: "%", Lookback: "day"},
}

// LoadCatalog reads the indicator catalog from a YAML file. An empty path
// or a missing file yields the built-in default set; a malformed file is an
// error, silently serving the wrong dashboard would be worse.
func LoadCatalog(path string) ([]Indicator, error) {
	if path == "" {
		return defaultCatalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultCatalog, nil
		}
		return nil, fmt.Errorf("config: read catalog: %w", err)
	}

	var catalog struct {
		Indicators []Indicator `yaml:"indicators"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("config: parse catalog: %w", err)
	}
	if len(catalog.Indicators) == 0 {
		return defaultCatalog, nil
	}
	for _, ind := range catalog.Indicators {
		if ind.SeriesID == "" {
			return nil, fmt.Errorf("config: catalog entry %q is missing series_id", ind.Name)
		}
	}
	return catalog.Indicators, nil
}
