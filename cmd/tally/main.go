// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command tally validates a variable catalog and prints a quality report.
//
// The input is a YAML document listing variable definitions and their
// descriptions:
//
//	variables:
//	  - name: eggs
//	    unit: count
//	    description: "Binds the batter. Pairs with [flour]."
//	  - name: flour
//	    unit: cups
//	    description: "All-purpose unless noted. See [eggs]."
//
// Usage:
//
//	go run ./cmd/tally -data variables.yaml
//	go run ./cmd/tally -data variables.yaml -min-score 70
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/tally/item"
	"github.com/AleutianAI/tally/quality"
)

type dataFile struct {
	Variables []struct {
		Name        string `yaml:"name"`
		Unit        string `yaml:"unit"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
	} `yaml:"variables"`
}

func main() {
	dataPath := flag.String("data", "", "Path to the variable catalog YAML file")
	minScore := flag.Int("min-score", 0, "Exit non-zero if any description scores below this")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tally -data <file.yaml> [-min-score N]")
		os.Exit(2)
	}

	catalog, err := loadCatalog(*dataPath)
	if err != nil {
		slog.Error("failed to load catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	definitions := catalog.Definitions()
	results := quality.BatchValidateDescriptions(catalog.Descriptions(), definitions)
	fmt.Print(quality.GenerateValidationReport(results, definitions))

	for defID, result := range results {
		if result.Score < *minScore {
			slog.Error("description below minimum score",
				slog.String("definition_id", defID),
				slog.Int("score", result.Score),
				slog.Int("min_score", *minScore))
			os.Exit(1)
		}
	}
}

// loadCatalog parses the YAML data file into a populated catalog.
func loadCatalog(path string) (*item.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var data dataFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	catalog := item.NewCatalog()
	for _, v := range data.Variables {
		check := item.ValidateDefinitionInput(v.Name, v.Unit, catalog, "")
		if !check.IsValid {
			return nil, fmt.Errorf("invalid definition %q: %v", v.Name, check.Errors)
		}

		def := item.NewDefinition(v.Name, v.Unit, v.Category)
		if !catalog.AddDefinition(def) {
			return nil, fmt.Errorf("duplicate definition %q", v.Name)
		}
		if v.Description != "" {
			catalog.SetDescription(def.ID, v.Description)
		}
	}
	return catalog, nil
}
