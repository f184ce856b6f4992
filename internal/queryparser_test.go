package internal

import (
	"testing"

	"github.com/lychee-technology/queryc"
)

func aliasEndpoint() *queryc.Endpoint {
	return &queryc.Endpoint{
		Name:    "sales",
		Dataset: "sales_raw",
		Filters: []queryc.Filter{
			{Alias: "min_amount", Formula: "amount__gte"},
			{Alias: "broken", Formula: "noseparator"},
		},
	}
}

func TestParseQueryParamsColumnsOrderLimitPage(t *testing.T) {
	raw := map[string]string{
		"columns": "total, region",
		"order":   "-region,+total",
		"limit":   "50",
		"page":    "2",
	}
	pq, err := ParseQueryParams(raw, aliasEndpoint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pq.RequestedColumns) != 2 || pq.RequestedColumns[0] != "total" || pq.RequestedColumns[1] != "region" {
		t.Fatalf("unexpected columns: %v", pq.RequestedColumns)
	}
	if pq.Order != "-region,+total" {
		t.Fatalf("unexpected order: %q", pq.Order)
	}
	if !pq.HasLimit || pq.Limit != 50 {
		t.Fatalf("unexpected limit: %+v", pq)
	}
	if pq.Page != 2 {
		t.Fatalf("unexpected page: %d", pq.Page)
	}
}

func TestParseQueryParamsBracketFilter(t *testing.T) {
	raw := map[string]string{"filter[region][eq]": "US"}
	pq, err := ParseQueryParams(raw, aliasEndpoint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pq.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(pq.Filters))
	}
	f := pq.Filters[0]
	if f.Column != "region" || f.Operator != "eq" || f.Value != "US" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestParseQueryParamsBracketFilterDefaultsToEq(t *testing.T) {
	raw := map[string]string{"filter[region]": "US"}
	pq, err := ParseQueryParams(raw, aliasEndpoint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pq.Filters[0].Operator != "eq" {
		t.Fatalf("expected default eq operator, got %q", pq.Filters[0].Operator)
	}
}

func TestParseQueryParamsBracketFilterTooManyParts(t *testing.T) {
	raw := map[string]string{"filter[a][b][c]": "x"}
	_, err := ParseQueryParams(raw, aliasEndpoint())
	if err == nil {
		t.Fatal("expected error for malformed filter key")
	}
	qe, ok := err.(*queryc.QuerycError)
	if !ok || qe.Type != queryc.ErrorTypeMalformed {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestParseQueryParamsAliasFilter(t *testing.T) {
	raw := map[string]string{"min_amount": "100"}
	pq, err := ParseQueryParams(raw, aliasEndpoint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pq.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(pq.Filters))
	}
	f := pq.Filters[0]
	if f.Column != "amount" || f.Operator != "gte" || f.Value != "100" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestParseQueryParamsBrokenAliasFormula(t *testing.T) {
	raw := map[string]string{"broken": "1"}
	_, err := ParseQueryParams(raw, aliasEndpoint())
	if err == nil {
		t.Fatal("expected error for malformed filter formula")
	}
	qe, ok := err.(*queryc.QuerycError)
	if !ok || qe.Type != queryc.ErrorTypeMisconfigured {
		t.Fatalf("expected misconfigured error, got %v", err)
	}
}

func TestParseQueryParamsUnknownKeyIgnored(t *testing.T) {
	raw := map[string]string{"not_a_filter": "x"}
	pq, err := ParseQueryParams(raw, aliasEndpoint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pq.Filters) != 0 {
		t.Fatalf("expected no filters, got %+v", pq.Filters)
	}
}
