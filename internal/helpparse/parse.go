package helpparse

import (
	"fmt"
	"strings"
)

// Parse implements the full C4 pipeline (spec §4.4): normalise, detect
// sections, extract commands/options/usages, and produce telemetry. It
// never fails: an empty or unrecognised input yields an empty ParsedHelp
// with a telemetry warning.
func Parse(helpText string) ParsedHelp {
	if strings.TrimSpace(helpText) == "" {
		return ParsedHelp{
			Telemetry: Telemetry{Warnings: []string{"empty help text"}},
		}
	}

	lines := normalize(helpText)
	sections := detectSections(lines)

	var result ParsedHelp
	var warnings []string
	var commandConfidences, optionConfidences []float64
	commandBlocks, optionBlocks := 0, 0
	sawCommandsSection := false

	for _, sec := range sections {
		switch sec.kind {
		case kindCommands:
			sawCommandsSection = true
			nodes, ok := extractCommands(lines, sec)
			if !ok {
				warnings = append(warnings, "commands section empty")
				continue
			}
			commandBlocks++
			result.Commands = append(result.Commands, nodes...)
			for _, n := range nodes {
				commandConfidences = append(commandConfidences, n.Confidence)
			}
		case kindOptions:
			opts, ok := extractOptions(lines, sec)
			if !ok {
				warnings = append(warnings, "option line unparsable: no recognisable flags in options section")
				continue
			}
			optionBlocks++
			result.Options = append(result.Options, opts...)
			for _, o := range opts {
				optionConfidences = append(optionConfidences, o.Confidence)
			}
			warnings = append(warnings, unparsableOptionWarnings(lines, sec)...)
		case kindUsage:
			result.Usages = append(result.Usages, extractUsages(lines, sec)...)
		}
	}

	if !sawCommandsSection {
		warnings = append(warnings, "no commands section found")
	}

	result.Telemetry = Telemetry{
		SectionsDetected:     len(sections),
		CommandBlocks:        commandBlocks,
		OptionBlocks:         optionBlocks,
		Warnings:             warnings,
		AvgCommandConfidence: average(commandConfidences),
		AvgOptionConfidence:  average(optionConfidences),
	}
	return result
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// unparsableOptionWarnings flags non-blank lines in an options section that
// looked like a flag row (began with '-') but could not be parsed.
func unparsableOptionWarnings(lines []string, sec section) []string {
	var warnings []string
	for i := sec.start; i < sec.end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.HasPrefix(line, "-") {
			continue
		}
		if optionRow.MatchString(lines[i]) {
			m := optionRow.FindStringSubmatch(lines[i])
			if _, ok := parseFlagTokens(strings.TrimSpace(m[2])); ok {
				continue
			}
		}
		warnings = append(warnings, fmt.Sprintf("option line unparsable: %q", line))
	}
	return warnings
}
