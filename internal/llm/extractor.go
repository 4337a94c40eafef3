// Package llm - extractor.go builds extraction directives into prompts and
// parses the model's JSON answer.
package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sandesh/findocs/internal/types"
)

//go:embed extraction_result.schema.json
var extractionResultSchema string

// quarterAliases maps each quarter to the labels Nepali banks use for it,
// including the Nepali-month naming found on report pages.
var quarterAliases = map[types.Quarter]string{
	types.Q1: "First Quarter (Q1, 1st Quarter, Ashad End, आषाढ अन्त)",
	types.Q2: "Second Quarter (Q2, 2nd Quarter, Ashwin End, आश्विन अन्त, Mid-term, Half Yearly)",
	types.Q3: "Third Quarter (Q3, 3rd Quarter, Poush End, पौष अन्त, Nine Month)",
	types.Q4: "Fourth Quarter (Q4, 4th Quarter, Chaitra End, चैत्र अन्त, Pre-final)",
}

// ReportExtractor finds a specific report's PDF link in page content using
// the LLM, validating the model's output against a JSON Schema before use.
type ReportExtractor struct {
	client Client
	schema *gojsonschema.Schema
}

// NewReportExtractor creates an extractor backed by the given client.
func NewReportExtractor(client Client) (*ReportExtractor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(extractionResultSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction result schema: %w", err)
	}
	return &ReportExtractor{client: client, schema: schema}, nil
}

// Extract asks the model for the report described by the directive.
// Returns (nil, nil) when the model reports the document is not on the page.
func (e *ReportExtractor) Extract(ctx context.Context, content string, directive types.ExtractionDirective) (*types.ExtractedReport, error) {
	prompt := BuildReportPrompt(directive, content)

	raw, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	return e.parse(raw)
}

// extractionEnvelope mirrors the JSON shape the prompt demands.
type extractionEnvelope struct {
	Found  bool `json:"found"`
	Report *struct {
		FiscalYear  string  `json:"fiscal_year"`
		ReportType  string  `json:"report_type"`
		Quarter     *string `json:"quarter"`
		FileURL     string  `json:"file_url"`
		ReportTitle *string `json:"report_title"`
	} `json:"report"`
}

// parse cleans, repairs and schema-checks the model output, then decodes it.
func (e *ReportExtractor) parse(raw string) (*types.ExtractedReport, error) {
	cleaned := CleanJSONBlock(raw)

	// Models occasionally emit trailing commas or single quotes; repair
	// before validating rather than rejecting outright.
	repaired, err := jsonrepair.RepairJSON(cleaned)
	if err != nil {
		return nil, fmt.Errorf("unparseable extraction output: %w", err)
	}

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(repaired))
	if err != nil {
		return nil, fmt.Errorf("failed to validate extraction output: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("extraction output failed schema validation: %s", strings.Join(msgs, "; "))
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(repaired), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode extraction output: %w", err)
	}

	if !envelope.Found || envelope.Report == nil || envelope.Report.FileURL == "" {
		return nil, nil
	}

	extracted := &types.ExtractedReport{
		FiscalYear: envelope.Report.FiscalYear,
		ReportType: types.ReportKind(envelope.Report.ReportType),
		FileURL:    envelope.Report.FileURL,
	}
	if envelope.Report.Quarter != nil {
		extracted.Quarter = types.Quarter(*envelope.Report.Quarter)
	}
	if envelope.Report.ReportTitle != nil {
		extracted.ReportTitle = *envelope.Report.ReportTitle
	}
	return extracted, nil
}

// BuildReportPrompt renders the extraction directive into the model prompt.
func BuildReportPrompt(d types.ExtractionDirective, content string) string {
	var sb strings.Builder

	if d.Kind == types.KindAnnual {
		sb.WriteString(fmt.Sprintf(
			"Extract ONLY the annual report (also called yearly report, annual financial report, or audited annual report) for fiscal year %s or %s.\n\n",
			d.FiscalYearBS, d.FiscalYearAD))
		sb.WriteString("IMPORTANT CRITERIA:\n")
		sb.WriteString("- Must be an ANNUAL report (NOT quarterly, NOT interim, NOT unaudited quarterly)\n")
		sb.WriteString(fmt.Sprintf("- Must be for fiscal year %s (Nepali calendar) or %s (English calendar)\n", d.FiscalYearBS, d.FiscalYearAD))
		sb.WriteString("- Keywords to look for: \"Annual Report\", \"Yearly Report\", \"Audited Annual\", \"वार्षिक प्रतिवेदन\"\n")
		sb.WriteString("- Keywords to AVOID: \"Quarterly\", \"Interim\", \"Unaudited\", \"Q1\", \"Q2\", \"Q3\", \"Q4\", \"त्रैमासिक\"\n\n")
	} else {
		quarterDesc := quarterAliases[d.Quarter]
		if quarterDesc == "" {
			quarterDesc = string(d.Quarter)
		}
		sb.WriteString(fmt.Sprintf(
			"Extract ONLY the quarterly/interim report for %s of fiscal year %s or %s.\n\n",
			quarterDesc, d.FiscalYearBS, d.FiscalYearAD))
		sb.WriteString("IMPORTANT CRITERIA:\n")
		sb.WriteString("- Must be a QUARTERLY/INTERIM/UNAUDITED report (NOT annual report)\n")
		sb.WriteString(fmt.Sprintf("- Must be specifically for %s of fiscal year %s or %s\n", d.Quarter, d.FiscalYearBS, d.FiscalYearAD))
		sb.WriteString(fmt.Sprintf("- Keywords for %s: %s\n", d.Quarter, quarterDesc))
		sb.WriteString("- Keywords to AVOID: \"Annual Report\", \"Yearly Report\", \"Audited Annual\", \"वार्षिक प्रतिवेदन\"\n\n")
	}

	sb.WriteString("Return ONLY ONE report in this exact JSON format:\n")
	sb.WriteString("{\n  \"found\": true/false,\n  \"report\": {\n")
	sb.WriteString(fmt.Sprintf("    \"fiscal_year\": \"%s\",\n", d.FiscalYearBS))
	sb.WriteString(fmt.Sprintf("    \"report_type\": \"%s\",\n", d.Kind))
	if d.Kind == types.KindQuarterly {
		sb.WriteString(fmt.Sprintf("    \"quarter\": \"%s\",\n", d.Quarter))
	} else {
		sb.WriteString("    \"quarter\": null,\n")
	}
	sb.WriteString("    \"file_url\": \"direct PDF link\",\n")
	sb.WriteString("    \"report_title\": \"exact title of the report\"\n  }\n}\n\n")
	sb.WriteString(fmt.Sprintf("If the specific report for %s is NOT found, return: {\"found\": false, \"report\": null}\n\n", d.FiscalYearBS))

	sb.WriteString("Page content:\n\"\"\"\n")
	sb.WriteString(content)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}
