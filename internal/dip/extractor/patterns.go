package extractor

import "regexp"

// Pattern tables for regex extraction over chunk text. Content is lowered
// before matching, so the patterns assume lower-case input.

var entityPatterns = map[string][]*regexp.Regexp{
	"manufacturer": compileAll(
		`(?:manufacturer|made by|produced by|brand):\s*([a-z\s&.,-]+)`,
		`([a-z\s&.,-]+)\s+(?:inc\.|corp\.|ltd\.|llc\.|company|co\.)`,
		`([a-z\s&.,-]+)\s+(?:technologies|systems|equipment|machinery)`,
	),
	"model": compileAll(
		`(?:model|part number|pn|part no|sku):\s*([a-z0-9\s\-.]+)`,
		`(?:series|type|version):\s*([a-z0-9\s\-.]+)`,
	),
	"warning": compileAll(
		`(?:warning|caution|danger|note|important|attention):\s*([a-z0-9\s\-.!]+)`,
		`(?:do not|never|avoid|prevent):\s*([a-z0-9\s\-.!]+)`,
	),
	"material": compileAll(
		`(?:material|construction|made of|fabricated from):\s*([a-z0-9\s\-.]+)`,
		`(?:coating|finish|surface):\s*([a-z0-9\s\-.]+)`,
	),
	"certification": compileAll(
		`(?:certified|approved|listed|compliant):\s*([a-z0-9\s\-.]+)`,
		`(?:meets|conforms to):\s*([a-z0-9\s\-.]+)`,
	),
}

var specHintPatterns = map[string][]*regexp.Regexp{
	"pressure": compileAll(
		`pressure:\s*([0-9.]+)\s*(psi|bar|pa|kpa|mpa)`,
		`(?:operating|working|max|min)\s+pressure:\s*([0-9.]+)\s*(psi|bar|pa|kpa|mpa)`,
		`([0-9.]+)\s*(psi|bar|kpa|mpa)\s*(?:operating|working|maximum|minimum)`,
	),
	"temperature": compileAll(
		`temperature:\s*([0-9.]+)\s*(°c|°f|celsius|fahrenheit)`,
		`(?:operating|working|max|min)\s+temperature:\s*([0-9.]+)\s*(°c|°f|celsius|fahrenheit)`,
		`(?:heat|heating|cooling)\s+to\s+([0-9.]+)\s*(°c|°f|celsius|fahrenheit)`,
	),
	"voltage": compileAll(
		`voltage:\s*([0-9.]+)\s*(v|volts|dc|ac)`,
		`(?:input|output|operating)\s+voltage:\s*([0-9.]+)\s*(v|volts|dc|ac)`,
	),
	"flow_rate": compileAll(
		`flow rate:\s*([0-9.]+)\s*(gpm|lpm|cfm|gph|lph)`,
		`(?:air|gas|water)\s+flow:\s*([0-9.]+)\s*(gpm|lpm|cfm|gph|lph)`,
	),
	"power": compileAll(
		`power:\s*([0-9.]+)\s*(w|watts|kw|kilowatts|hp|horsepower)`,
		`(?:rated|maximum|nominal)\s+power:\s*([0-9.]+)\s*(w|watts|kw|kilowatts|hp|horsepower)`,
	),
	"capacity": compileAll(
		`capacity:\s*([0-9.]+)\s*(lbs|pounds|kg|kilograms|tons|gallons|liters)`,
	),
	"efficiency": compileAll(
		`efficiency:\s*([0-9.]+)\s*(%|percent)`,
		`(?:thermal|energy|fuel)\s+efficiency:\s*([0-9.]+)\s*(%|percent)`,
	),
}

var goldenTestPatterns = map[string][]*regexp.Regexp{
	"procedure": compileAll(
		`(?:test|check|verify|validate):\s*([a-z0-9\s\-.]+)`,
		`(?:operation|maintenance|cleaning|inspection):\s*([a-z0-9\s\-.]+)`,
		`(?:startup|shutdown|initialization):\s*([a-z0-9\s\-.]+)`,
		`(?:troubleshooting|diagnostic|repair):\s*([a-z0-9\s\-.]+)`,
	),
	"checklist": compileAll(
		`(?:ensure|confirm):\s*([a-z0-9\s\-.]+)`,
		`(?:before|after|during)\s+(?:use|operation|startup):\s*([a-z0-9\s\-.]+)`,
	),
	"safety": compileAll(
		`(?:safety|precaution)\s+(?:check|test|verify):\s*([a-z0-9\s\-.]+)`,
		`(?:emergency|shutdown|stop)\s+(?:procedure|test):\s*([a-z0-9\s\-.]+)`,
	),
	"performance": compileAll(
		`(?:performance|efficiency|output)\s+(?:test|check|verify):\s*([a-z0-9\s\-.]+)`,
		`(?:load|stress|endurance)\s+(?:test|check):\s*([a-z0-9\s\-.]+)`,
	),
}

// Imperative lines become playbook hints.
var imperativePatterns = compileAll(
	`^(?:always|never|do not|disconnect|remove|insert|replace|check|clean|use|fill|preheat|turn|press|close)\b.*`,
	`.*prior to.*`,
	`.*when not in use.*`,
)

var stepPattern = regexp.MustCompile(`(?:step|procedure)\s+([0-9]+):\s*([a-z0-9\s\-.]+)`)

// boostUnits raise match confidence when present in the matched text.
var boostUnits = []string{"psi", "volts", "°c", "°f", "gpm"}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
