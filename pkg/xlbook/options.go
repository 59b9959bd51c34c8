package xlbook

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Options controls workbook presentation. Zero fields fall back to the
// defaults, so a partial YAML file only overrides what it names.
type Options struct {
	ReportTitle     string  `yaml:"report_title"`
	HeaderFontColor string  `yaml:"header_font_color"`
	HeaderFillColor string  `yaml:"header_fill_color"`
	MaxColumnWidth  float64 `yaml:"max_column_width"`
	WidthSampleRows int     `yaml:"width_sample_rows"`
}

// DefaultOptions returns the stock presentation: bold white headers on
// the audit blue fill, widths capped at 50 sampling the first 100 rows.
func DefaultOptions() Options {
	return Options{
		ReportTitle:     "RPX Portfolio Analysis",
		HeaderFontColor: "FFFFFF",
		HeaderFillColor: "366092",
		MaxColumnWidth:  50,
		WidthSampleRows: 100,
	}
}

// OptionsFromYAMLFile loads presentation overrides from a YAML file,
// layered over the defaults.
func OptionsFromYAMLFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read report options: %w", err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("decode report options: %w", err)
	}
	return opts.withDefaults(), nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ReportTitle == "" {
		o.ReportTitle = def.ReportTitle
	}
	if o.HeaderFontColor == "" {
		o.HeaderFontColor = def.HeaderFontColor
	}
	if o.HeaderFillColor == "" {
		o.HeaderFillColor = def.HeaderFillColor
	}
	if o.MaxColumnWidth <= 0 {
		o.MaxColumnWidth = def.MaxColumnWidth
	}
	if o.WidthSampleRows <= 0 {
		o.WidthSampleRows = def.WidthSampleRows
	}
	return o
}
