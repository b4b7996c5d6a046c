package dividend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeResult is the output of Normalize.
type NormalizeResult struct {
	// Records are the retained rows in input order.
	Records         []Record
	InputRows       int
	Dropped         int
	DroppedByReason map[DropReason]int
}

// Normalize validates the table schema and converts every usable row into a
// Record. Rows whose code, fiscal year or DPS cannot be coerced are dropped
// and counted, never reported as errors.
func Normalize(t Table) (NormalizeResult, error) {
	if err := checkColumns(t); err != nil {
		return NormalizeResult{}, err
	}

	res := NormalizeResult{
		Records:         make([]Record, 0, len(t.Rows)),
		InputRows:       len(t.Rows),
		DroppedByReason: make(map[DropReason]int),
	}

	for i, row := range t.Rows {
		rec, reason, ok := normalizeRow(i, row)
		if !ok {
			res.Dropped++
			res.DroppedByReason[reason]++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

func normalizeRow(index int, row RawRecord) (Record, DropReason, bool) {
	code, ok := coerceString(row[ColumnCode])
	if !ok || code == "" {
		return Record{}, DropMissingCode, false
	}

	year, ok := coerceYear(row[ColumnFiscalYear])
	if !ok {
		return Record{}, DropInvalidFiscalYear, false
	}

	dps, ok := coerceFloat(row[ColumnDPS])
	if !ok {
		return Record{}, DropInvalidDPS, false
	}

	name, _ := coerceString(row[ColumnName])
	if name == "" {
		name = code
	}
	market, _ := coerceString(row[ColumnMarket])

	return Record{
		Code:       code,
		FiscalYear: year,
		DPS:        dps,
		Name:       name,
		Market:     market,
		Index:      index,
	}, "", true
}

// coerceString renders v as a trimmed string. Integral floats lose their
// fractional part so a code read as 7203.0 becomes "7203".
func coerceString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(x), true
	case []byte:
		return strings.TrimSpace(string(x)), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return coerceString(float64(x))
	case fmt.Stringer:
		return strings.TrimSpace(x.String()), true
	default:
		return strings.TrimSpace(fmt.Sprint(x)), true
	}
}

// coerceFloat converts v to a finite float64. Anything else is null.
func coerceFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case []byte:
		return coerceFloat(string(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" || isHexLiteral(s) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isHexLiteral reports whether s carries a 0x prefix, which ParseFloat
// would otherwise read as a hexadecimal float.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// coerceYear converts v to an integral fiscal year.
func coerceYear(v any) (int, bool) {
	f, ok := coerceFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
