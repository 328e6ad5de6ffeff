// cmd/tools/profile-convert/main.go
//
// Converts a business profile authored in YAML into the validated JSON
// document the assistant loads at startup.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mail-assistant/internal/knowledge"
)

func main() {
	inPath := flag.String("in", "configs/business_profile.yaml", "Path to the YAML profile")
	outPath := flag.String("out", "configs/business_profile.json", "Path for the JSON output")
	checkOnly := flag.Bool("check", false, "Validate only, write nothing")
	flag.Parse()

	yamlData, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", *inPath, err)
		os.Exit(1)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(yamlData, &doc); err != nil {
		fmt.Printf("Error parsing YAML: %v\n", err)
		os.Exit(1)
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Printf("Error converting to JSON: %v\n", err)
		os.Exit(1)
	}

	// Schema validation happens on the JSON form, same as at daemon startup
	profile, err := knowledge.Parse(jsonData)
	if err != nil {
		fmt.Printf("Profile validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Profile valid: %s (%d staff, %d service categories)\n",
		profile.Name, len(profile.Staff), len(profile.Services))

	if *checkOnly {
		return
	}

	if err := os.WriteFile(*outPath, append(jsonData, '\n'), 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
