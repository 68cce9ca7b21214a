package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/schema"
	"github.com/hailam/sas7bdat/internal/sink"
	"github.com/hailam/sas7bdat/pkg/sas7bdat"
)

// Variables to hold flag values.
var schemaPath string
var dataPath string
var outputPath string

// schemaFile is the on-disk JSON shape --schema accepts: a dataset name
// and label plus an ordered variable list.
type schemaFile struct {
	Dataset   string           `json:"dataset"`
	Label     string           `json:"label"`
	Variables []schemaVariable `json:"variables"`
}

type schemaVariable struct {
	Name             string `json:"name"`
	Type             string `json:"type"` // "numeric" | "character"
	Length           int    `json:"length"`
	Label            string `json:"label"`
	InputFormatName  string `json:"inputFormatName"`
	InputFormatWidth int    `json:"inputFormatWidth"`
	InputFormatDigit int    `json:"inputFormatDigits"`
	OutputFormatName string `json:"outputFormatName"`
	OutputFmtWidth   int    `json:"outputFormatWidth"`
	OutputFmtDigit   int    `json:"outputFormatDigits"`
}

func loadSchema(path string) ([]ports.Variable, *schema.Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open schema file")
	}
	defer f.Close()

	var sf schemaFile
	if err := json.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, errors.Wrap(err, "decode schema json")
	}

	b := schema.New(sf.Dataset).Label(sf.Label)
	for _, v := range sf.Variables {
		switch v.Type {
		case "numeric":
			vb := b.Numeric(v.Name).Label(v.Label)
			if v.InputFormatName != "" {
				vb = vb.InputFormat(v.InputFormatName, v.InputFormatWidth, v.InputFormatDigit)
			}
			if v.OutputFormatName != "" {
				vb = vb.OutputFormat(v.OutputFormatName, v.OutputFmtWidth, v.OutputFmtDigit)
			}
			b = vb.Add()
		case "character":
			vb := b.Character(v.Name, v.Length).Label(v.Label)
			if v.InputFormatName != "" {
				vb = vb.InputFormat(v.InputFormatName, v.InputFormatWidth, v.InputFormatDigit)
			}
			if v.OutputFormatName != "" {
				vb = vb.OutputFormat(v.OutputFormatName, v.OutputFmtWidth, v.OutputFmtDigit)
			}
			b = vb.Add()
		default:
			return nil, nil, errors.Errorf("variable %q: unknown type %q (want numeric|character)", v.Name, v.Type)
		}
	}
	vars, err := b.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "build schema")
	}
	return vars, b, nil
}

// readCSVRows reads every row of the data file into memory, converting
// each cell to the dynamic type its column's Variable expects.
func readCSVRows(path string, vars []ports.Variable) ([]ports.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open data file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[h] = i
	}

	var rows []ports.Observation
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}
		obs := make(ports.Observation, len(vars))
		for i, v := range vars {
			idx, ok := colIndex[v.Name]
			if !ok {
				return nil, errors.Errorf("csv is missing column %q", v.Name)
			}
			cell := record[idx]
			switch v.Type {
			case ports.Character:
				obs[i] = cell
			case ports.Numeric:
				if cell == "" {
					obs[i] = nil
					continue
				}
				var f float64
				if _, err := fmt.Sscanf(cell, "%g", &f); err != nil {
					return nil, errors.Wrapf(err, "column %q: value %q is not numeric", v.Name, cell)
				}
				obs[i] = f
			}
		}
		rows = append(rows, obs)
	}
	return rows, nil
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "sas7bdatgen",
		Short: "Generates a SAS7BDAT file from a JSON schema and a CSV of rows.",
		Long: `sas7bdatgen is a CLI tool that builds a byte-compatible SAS7BDAT
dataset from a --schema describing its variables and a --data CSV
supplying the observations, written to --out.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if schemaPath == "" {
				fmt.Fprintln(os.Stderr, "Error: --schema is required")
				cmd.Usage()
				os.Exit(1)
			}
			if dataPath == "" {
				fmt.Fprintln(os.Stderr, "Error: --data is required")
				cmd.Usage()
				os.Exit(1)
			}
			if outputPath == "" {
				fmt.Fprintln(os.Stderr, "Error: --out is required")
				cmd.Usage()
				os.Exit(1)
			}

			vars, b, err := loadSchema(schemaPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
				os.Exit(1)
			}
			rows, err := readCSVRows(dataPath, vars)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading data: %v\n", err)
				os.Exit(1)
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Prefix = fmt.Sprintf("Writing %s (%d rows)... ", outputPath, len(rows))
			sp.Start()

			fileSink, err := sink.NewFile(outputPath)
			if err != nil {
				sp.Stop()
				fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
				os.Exit(1)
			}
			defer fileSink.Close()

			meta := sas7bdat.DatasetMeta{Label: b.DatasetLabel(), CreationTime: time.Now()}
			err = sas7bdat.ExportDataset(fileSink, vars, meta, slices.Values(rows))
			sp.Stop()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting dataset: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("Wrote %s (%d rows, %d variables)\n", outputPath, len(rows), len(vars))
		},
	}

	rootCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the dataset schema JSON file (required)")
	rootCmd.Flags().StringVar(&dataPath, "data", "", "Path to the CSV file of rows (required)")
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Path to the output .sas7bdat file (required)")

	// Cobra prints parse errors (unknown flag, etc.) automatically; we
	// still exit non-zero ourselves so shell scripts can detect failure.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
