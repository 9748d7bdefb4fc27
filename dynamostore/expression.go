package dynamostore

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// filterExpr is an assembled DynamoDB filter fragment: expression text
// plus its attribute name and value placeholders. Conditions arrive as
// structured values and are never interpolated into the expression.
type filterExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildFilter assembles a filter expression from structured conditions.
// Placeholders are numbered, so condition fields never appear in the
// expression text itself.
func buildFilter(conds []tree.Condition) (filterExpr, error) {
	f := filterExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	var clauses []string
	for i, c := range conds {
		op, err := opSymbol(c.Op)
		if err != nil {
			return filterExpr{}, err
		}
		value, err := attributevalue.Marshal(c.Value)
		if err != nil {
			return filterExpr{}, fmt.Errorf("dynamostore: condition on %q: %w", c.Field, err)
		}

		nameKey := fmt.Sprintf("#cond%d", i)
		valueKey := fmt.Sprintf(":cond%d", i)
		f.Names[nameKey] = c.Field
		f.Values[valueKey] = value
		clauses = append(clauses, fmt.Sprintf("%s %s %s", nameKey, op, valueKey))
	}

	f.Expr = joinStrings(clauses, " AND ")
	return f, nil
}

// opSymbol maps a structured operator to its DynamoDB comparator.
func opSymbol(op tree.Op) (string, error) {
	switch op {
	case tree.OpEq:
		return "=", nil
	case tree.OpNe:
		return "<>", nil
	case tree.OpLt:
		return "<", nil
	case tree.OpLe:
		return "<=", nil
	case tree.OpGt:
		return ">", nil
	case tree.OpGe:
		return ">=", nil
	default:
		return "", fmt.Errorf("dynamostore: unknown condition operator %d", op)
	}
}

// joinStrings joins strings with a separator (avoiding strings package import).
func joinStrings(strs []string, sep string) string {
	if len(strs) == 0 {
		return ""
	}
	result := strs[0]
	for _, s := range strs[1:] {
		result += sep + s
	}
	return result
}
