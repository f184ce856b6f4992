package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lychee-technology/queryc"
)

// Compiler turns a parsed query against a known endpoint and schema into a
// single SQL statement. It holds no state of its own: every call is
// independent, which keeps it safe for concurrent use from request
// handlers.
type Compiler struct {
	compat queryc.CompatConfig
}

// NewCompiler builds a Compiler governed by the given compatibility flags.
func NewCompiler(compat queryc.CompatConfig) *Compiler {
	return &Compiler{compat: compat}
}

var filterOperators = map[string]string{
	"eq":   "=",
	"lt":   "<",
	"lte":  "<=",
	"lteq": "<=",
	"gt":   ">",
	"gte":  ">=",
	"gteq": ">=",
}

// Compile projects, filters, orders and paginates pq against endpoint and
// schema, returning the assembled SQL statement.
func (c *Compiler) Compile(endpoint *queryc.Endpoint, pq *ParsedQuery, schema queryc.SchemaRef) (string, error) {
	columns, groupBy, err := c.compileProjection(endpoint, pq, schema)
	if err != nil {
		return "", err
	}

	wheres, having, err := c.compileFilters(endpoint, pq, schema)
	if err != nil {
		return "", err
	}

	orders := compileOrder(pq.Order)

	limit := pq.Limit
	offset := c.compileOffset(pq, limit)

	hasAggregates := len(groupBy) != len(columns)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(endpoint.Dataset)

	if len(wheres) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(wheres, " AND "))
	}

	if hasAggregates && len(groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groupBy, ", "))
	}

	if len(having) > 0 {
		b.WriteString(" HAVING ")
		b.WriteString(strings.Join(having, c.havingSeparator()))
	}

	if len(orders) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orders, ", "))
	}

	if limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(uint64(limit), 10))
	}

	if offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.FormatUint(uint64(offset), 10))
	}

	return b.String(), nil
}

func (c *Compiler) havingSeparator() string {
	if c.compat.HavingJoinWithAnd {
		return " AND "
	}
	return ", "
}

// compileProjection resolves the requested (or default) column list into
// a SELECT list plus the GROUP BY columns it implies.
func (c *Compiler) compileProjection(endpoint *queryc.Endpoint, pq *ParsedQuery, schema queryc.SchemaRef) (columns, groupBy []string, err error) {
	source := pq.RequestedColumns
	if source == nil {
		source = endpoint.DefaultColumns
	}

	if len(source) == 0 {
		return []string{"*"}, nil, nil
	}

	for _, name := range source {
		if agg := endpoint.GetAggregate(name); agg != nil {
			columns = append(columns, fmt.Sprintf("%s AS %s", agg.Formula, agg.Name))
			continue
		}
		if !schema.HasColumn(name) {
			return nil, nil, queryc.NewRequestMalformedError(queryc.ErrCodeFieldNotFound,
				fmt.Sprintf("The field %s does not exist", name)).WithEndpoint(endpoint.Name)
		}
		if alias, ok := endpoint.GetAlias(name); ok {
			columns = append(columns, fmt.Sprintf("%s AS %s", name, alias))
		} else {
			columns = append(columns, name)
		}
		groupBy = append(groupBy, name)
	}

	return columns, groupBy, nil
}

// compileFilters classifies each parsed filter into a WHERE or HAVING
// predicate, depending on whether its column is an aggregate.
func (c *Compiler) compileFilters(endpoint *queryc.Endpoint, pq *ParsedQuery, schema queryc.SchemaRef) (wheres, having []string, err error) {
	for _, f := range pq.Filters {
		symbol, ok := filterOperators[f.Operator]
		if !ok {
			return nil, nil, queryc.NewRequestMalformedError(queryc.ErrCodeInvalidFilterOp,
				fmt.Sprintf("Not valid filter operator %s", f.Operator)).WithEndpoint(endpoint.Name)
		}

		value := f.Value
		if c.compat.SafeQuoting {
			value = strings.ReplaceAll(value, "'", "''")
		}
		predicate := fmt.Sprintf("%s %s '%s'", f.Column, symbol, value)

		if agg := endpoint.GetAggregate(f.Column); agg != nil {
			having = append(having, fmt.Sprintf("%s %s '%s'", agg.Formula, symbol, value))
			continue
		}
		if !schema.HasColumn(f.Column) {
			return nil, nil, queryc.NewRequestMalformedError(queryc.ErrCodeFieldNotFound,
				fmt.Sprintf("The field %s does not exist", f.Column)).WithEndpoint(endpoint.Name)
		}
		wheres = append(wheres, predicate)
	}

	return wheres, having, nil
}

// compileOrder splits a comma-separated order expression into ORDER BY
// terms, translating a leading "-" into DESC and stripping a leading "+".
func compileOrder(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	orders := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		switch part[0] {
		case '-':
			orders = append(orders, part[1:]+" DESC")
		case '+':
			orders = append(orders, part[1:])
		default:
			orders = append(orders, part)
		}
	}
	return orders
}

// compileOffset derives the OFFSET from the requested page and limit. A
// request with no page yields no offset; page=0 reproduces the historical
// "offset=limit" quirk unless PageZeroIsFirstPage is set.
func (c *Compiler) compileOffset(pq *ParsedQuery, limit uint32) uint32 {
	if !pq.HasPage {
		return 0
	}
	if pq.Page == 0 {
		if c.compat.PageZeroIsFirstPage {
			return 0
		}
		return limit
	}
	return (pq.Page - 1) * limit
}
