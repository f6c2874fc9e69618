package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RowError marks a malformed settings row. The row is rejected, the run
// continues with the remaining symbols.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("TradeSettings row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Load reads TradeSettings.csv. Malformed rows are returned as RowErrors
// alongside the valid settings; only an unreadable file is fatal.
func Load(path string) ([]Settings, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads settings rows from r. The header row names the columns; the
// original sheet's spelling ("Expiery") is accepted as-is.
func Parse(r io.Reader) ([]Settings, []error, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var (
		out     []Settings
		rowErrs []error
	)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		s, err := parseRow(col, record)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		if err := s.Validate(); err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		out = append(out, s)
	}
	return out, rowErrs, nil
}

func parseRow(col map[string]int, rec []string) (Settings, error) {
	get := func(name string) (string, error) {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return strings.TrimSpace(rec[i]), nil
	}
	getInt := func(name string) (int, error) {
		v, err := get(name)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return n, nil
	}
	getFloat := func(name string) (float64, error) {
		v, err := get(name)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		return f, nil
	}

	var s Settings
	var err error
	if s.Symbol, err = get("Symbol"); err != nil {
		return s, err
	}
	// Exchange is optional, most sheets only trade NFO.
	if i, ok := col["Exchange"]; ok && i < len(rec) {
		s.Exchange = strings.TrimSpace(rec[i])
	}
	if s.Exchange == "" {
		s.Exchange = "NFO"
	}
	if s.Expiry, err = get("Expiery"); err != nil {
		return s, err
	}
	if s.Timeframe, err = get("Timeframe"); err != nil {
		return s, err
	}
	if s.StrikeStep, err = getInt("StrikeStep"); err != nil {
		return s, err
	}
	if s.StrikeNumber, err = getInt("StrikeNumber"); err != nil {
		return s, err
	}
	if s.LotSize, err = getInt("Lotsize"); err != nil {
		return s, err
	}
	if s.VolumeMAPeriod, err = getInt("VolumeMa"); err != nil {
		return s, err
	}
	if s.SupertrendPeriod, err = getInt("SupertrendPeriod"); err != nil {
		return s, err
	}
	if s.SupertrendMult, err = getFloat("SupertrendMul"); err != nil {
		return s, err
	}
	if s.KC1Length, err = getInt("KC1_Length"); err != nil {
		return s, err
	}
	if s.KC1Mult, err = getFloat("KC1_Mul"); err != nil {
		return s, err
	}
	if s.KC1ATRPeriod, err = getInt("KC1_ATR"); err != nil {
		return s, err
	}
	if s.KC2Length, err = getInt("KC2_Length"); err != nil {
		return s, err
	}
	if s.KC2Mult, err = getFloat("KC2_Mul"); err != nil {
		return s, err
	}
	if s.KC2ATRPeriod, err = getInt("KC2_ATR"); err != nil {
		return s, err
	}
	if s.PyramidingDistance, err = getFloat("PyramidingDistance"); err != nil {
		return s, err
	}
	if s.PyramidingNumber, err = getInt("PyramidingNumber"); err != nil {
		return s, err
	}
	if s.SLATRPeriod, err = getInt("SLATR"); err != nil {
		return s, err
	}
	if s.SLMultiplier, err = getFloat("SLMULTIPLIER"); err != nil {
		return s, err
	}
	return s, nil
}
