package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"finance-dashboard-backend/internal/models"
)

// ExtractBills reads one exported bill file (xlsx, or csv in UTF-8/GBK)
// and returns unified transactions. A malformed container fails the
// whole file; unusable rows are silently dropped.
func ExtractBills(data []byte, filename string) ([]models.Transaction, error) {
	rows, err := readSheet(data, filename)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(rows)
	cfg := schemas[platform]
	if len(rows) <= cfg.dataStart {
		return nil, fmt.Errorf("%s: sheet has %d rows, no data below the %s header offset", filename, len(rows), platform)
	}

	header := rows[cfg.dataStart]
	bills := make([]models.Transaction, 0, len(rows)-cfg.dataStart-1)
	for _, raw := range rows[cfg.dataStart+1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(raw) {
				rec[cleanHeader(name)] = strings.TrimSpace(raw[i])
			}
		}
		if tx := mapRow(platform, cfg, rec); tx != nil {
			bills = append(bills, *tx)
		}
	}
	return bills, nil
}

func readSheet(data []byte, filename string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readCSV(data)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Alipay/WeChat csv exports are codepage 936; decode only when the
// bytes are not already valid UTF-8.
func readCSV(data []byte) ([][]string, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, simplifiedchinese.GBK.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func cleanHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
}
