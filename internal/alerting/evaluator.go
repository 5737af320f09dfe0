package alerting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/datasource"
	"github.com/garyfinberg24-png/hyperparts-suite-sub005/internal/entities"
)

// EvaluateRule returns the records matching the rule's condition chain.
// A rule with zero conditions never matches.
func EvaluateRule(records []datasource.Record, conditions []entities.AlertCondition) []datasource.Record {
	if len(conditions) == 0 {
		return nil
	}
	var matched []datasource.Record
	for _, record := range records {
		if EvaluateConditions(record, conditions) {
			matched = append(matched, record)
		}
	}
	return matched
}

// EvaluateConditions combines the condition chain with a left-to-right
// boolean fold: the first condition seeds the result and each later
// condition joins via its own LogicalOperator. There is no precedence
// grouping, so mixed AND/OR chains are order-sensitive.
func EvaluateConditions(record datasource.Record, conditions []entities.AlertCondition) bool {
	if len(conditions) == 0 {
		return false
	}

	result := evalOne(record, &conditions[0])
	for i := 1; i < len(conditions); i++ {
		cond := &conditions[i]
		if cond.LogicalOperator == LogicalOr {
			result = result || evalOne(record, cond)
		} else {
			result = result && evalOne(record, cond)
		}
	}
	return result
}

func evalOne(record datasource.Record, cond *entities.AlertCondition) bool {
	return EvaluateCondition(record[cond.Field], cond.Operator, cond.Value, cond.Value2)
}

// EvaluateCondition evaluates a single operator against one field value.
// Malformed input never panics; it evaluates to false.
func EvaluateCondition(fieldValue any, operator, value, value2 string) bool {
	switch operator {
	case OperatorEquals:
		return stringify(fieldValue) == value
	case OperatorNotEquals:
		return stringify(fieldValue) != value
	case OperatorGreaterThan, OperatorLessThan, OperatorGreaterOrEqual, OperatorLessOrEqual:
		return evaluateNumeric(operator, fieldValue, value)
	case OperatorBetween, OperatorNotBetween:
		return evaluateRange(operator, fieldValue, value, value2)
	case OperatorContains:
		return strings.Contains(strings.ToLower(stringify(fieldValue)), strings.ToLower(value))
	case OperatorNotContains:
		return !strings.Contains(strings.ToLower(stringify(fieldValue)), strings.ToLower(value))
	case OperatorChanged:
		// Requires a previous value from cross-tick state; the monitor
		// substitutes the change tracker's verdict. In isolation: false.
		return false
	case OperatorIsEmpty:
		return isEmptyValue(fieldValue)
	case OperatorIsNotEmpty:
		return !isEmptyValue(fieldValue)
	default:
		return false
	}
}

func evaluateNumeric(operator string, fieldValue any, value string) bool {
	fv, err := toFloat64(fieldValue)
	if err != nil {
		return false
	}
	cv, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	switch operator {
	case OperatorGreaterThan:
		return fv > cv
	case OperatorLessThan:
		return fv < cv
	case OperatorGreaterOrEqual:
		return fv >= cv
	case OperatorLessOrEqual:
		return fv <= cv
	default:
		return false
	}
}

// evaluateRange handles between/notBetween, inclusive on both bounds.
func evaluateRange(operator string, fieldValue any, value, value2 string) bool {
	fv, err := toFloat64(fieldValue)
	if err != nil {
		return false
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(value2), 64)
	if err != nil {
		return false
	}
	within := fv >= low && fv <= high
	if operator == OperatorNotBetween {
		return !within
	}
	return within
}

// isEmptyValue treats nil, the empty string and numeric zero as empty.
// Zero-as-empty conflates absence with falsy but is the documented contract
// that existing rules depend on.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	if f, err := toNumeric(v); err == nil {
		return f == 0
	}
	return false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toNumeric converts only genuinely numeric types, unlike toFloat64 which
// also parses numeric strings.
func toNumeric(v any) (float64, error) {
	if _, ok := v.(string); ok {
		return 0, fmt.Errorf("string is not numeric for emptiness purposes")
	}
	return toFloat64(v)
}

func toFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", val)
	}
}
