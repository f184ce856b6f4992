package internal

import (
	"strconv"
	"strings"

	"github.com/lychee-technology/queryc"
)

// ParsedFilter is a single classified (column, operator, value) triple
// lifted out of the raw query string. Operator is still the short form
// ("eq", "lt", ...); the SQL Compiler normalizes it into a symbol.
type ParsedFilter struct {
	Column   string
	Operator string
	Value    string
}

// ParsedQuery is the structured result of decomposing a raw query-string
// map against a specific endpoint's filter vocabulary.
type ParsedQuery struct {
	RequestedColumns []string
	Filters          []ParsedFilter
	Order            string
	Limit            uint32
	HasLimit         bool
	Page             uint32
	HasPage          bool
}

const defaultLimit = 1000

// reservedParams are consumed directly into typed ParsedQuery fields and
// never reach the filter classification loop.
var reservedParams = map[string]bool{
	"columns": true,
	"order":   true,
	"limit":   true,
	"page":    true,
}

// ParseQueryParams decomposes a raw query-string map into a ParsedQuery,
// classifying every non-reserved key as either a `filter[col][op]`
// structured filter or an endpoint-defined filter alias. Unrecognized
// keys are silently ignored, matching the source grammar.
func ParseQueryParams(raw map[string]string, endpoint *queryc.Endpoint) (*ParsedQuery, error) {
	pq := &ParsedQuery{Limit: defaultLimit}

	if cols, ok := raw["columns"]; ok && cols != "" {
		pq.RequestedColumns = splitTrim(cols, ",")
	}

	if order, ok := raw["order"]; ok {
		pq.Order = order
	}

	if limitStr, ok := raw["limit"]; ok && limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 32)
		if err != nil {
			return nil, queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, "invalid limit parameter")
		}
		pq.Limit = uint32(limit)
		pq.HasLimit = true
	}

	if pageStr, ok := raw["page"]; ok && pageStr != "" {
		page, err := strconv.ParseUint(pageStr, 10, 32)
		if err != nil {
			return nil, queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, "invalid page parameter")
		}
		pq.Page = uint32(page)
		pq.HasPage = true
	}

	for key, value := range raw {
		if reservedParams[key] {
			continue
		}

		if strings.HasPrefix(key, "filter[") {
			column, operator, err := parseBracketFilterKey(key)
			if err != nil {
				return nil, err
			}
			pq.Filters = append(pq.Filters, ParsedFilter{Column: column, Operator: operator, Value: value})
			continue
		}

		filterDef := endpoint.GetFilter(key)
		if filterDef == nil {
			continue
		}

		column, operator, err := splitFilterFormula(key, filterDef.Formula)
		if err != nil {
			return nil, err
		}
		pq.Filters = append(pq.Filters, ParsedFilter{Column: column, Operator: operator, Value: value})
	}

	return pq, nil
}

// parseBracketFilterKey splits "filter[col][op]" on '[' and ']',
// keeping only non-empty segments. More than three non-empty segments is
// malformed; an absent operator segment defaults to "eq".
func parseBracketFilterKey(key string) (column, operator string, err error) {
	raw := strings.FieldsFunc(key, func(r rune) bool { return r == '[' || r == ']' })

	if len(raw) > 3 {
		return "", "", queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, "Not valid statement "+key)
	}
	if len(raw) < 2 {
		return "", "", queryc.NewRequestMalformedError(queryc.ErrCodeNotValidStatement, "Not valid statement "+key)
	}

	column = raw[1]
	if len(raw) == 3 {
		operator = raw[2]
	}
	if operator == "" {
		operator = "eq"
	}
	return column, operator, nil
}

// splitFilterFormula right-splits "column__operator" on the last "__"
// separator. A formula missing the separator is an endpoint
// misconfiguration, not a caller error, so it is surfaced as a 500.
func splitFilterFormula(key, formula string) (column, operator string, err error) {
	idx := strings.LastIndex(formula, "__")
	if idx < 0 {
		return "", "", queryc.NewEndpointMisconfiguredError(key)
	}
	column = formula[:idx]
	operator = formula[idx+2:]
	if column == "" || operator == "" {
		return "", "", queryc.NewEndpointMisconfiguredError(key)
	}
	return column, operator, nil
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
