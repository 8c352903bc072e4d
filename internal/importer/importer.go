// Package importer converts uploaded spreadsheets into validated, normalized
// transaction rows and generates the matching template. It knows nothing
// about the store; rows are handed over as-is.
package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Headers is the canonical column order of the import template.
var Headers = []string{"供应商ID", "商品ID", "数量", "价格", "日期", "客户ID", "是否挂账", "挂账日期", "到期日"}

const (
	colSupplier   = "供应商ID"
	colProduct    = "商品ID"
	colQuantity   = "数量"
	colPrice      = "价格"
	colDate       = "日期"
	colCustomer   = "客户ID"
	colIsCredit   = "是否挂账"
	colCreditDate = "挂账日期"
	colDueDate    = "到期日"
)

const dateLayout = "2006-01-02"

// Row is one normalized, validated import row.
type Row struct {
	SupplierID string  `json:"supplierId"`
	CustomerID string  `json:"customerId"`
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	IsCredit   bool    `json:"isCredit"`
	CreditDate string  `json:"creditDate,omitempty"`
	DueDate    string  `json:"dueDate,omitempty"`
}

// RowError reports every violation of a rejected row. Row numbers are
// spreadsheet rows, so the first data row is 2.
type RowError struct {
	Row      int               `json:"row"`
	Messages []string          `json:"messages"`
	Raw      map[string]string `json:"raw"`
}

type Result struct {
	Total      int        `json:"total"`
	ValidCount int        `json:"validCount"`
	ErrorCount int        `json:"errorCount"`
	Rows       []Row      `json:"data"`
	Errors     []RowError `json:"errors"`
}

// Parse reads the first sheet of an xlsx file and validates every row,
// collecting all violations per row instead of short-circuiting. It fails
// only when the file itself cannot be read.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析异常: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("解析异常: %w", err)
	}
	if len(rows) == 0 {
		return &Result{}, nil
	}

	header := rows[0]
	res := &Result{Total: len(rows) - 1}
	for i, cells := range rows[1:] {
		raw := make(map[string]string, len(header))
		for c, name := range header {
			if c < len(cells) {
				raw[name] = cells[c]
			} else {
				raw[name] = ""
			}
		}

		row, msgs := processRow(raw)
		if len(msgs) > 0 {
			res.Errors = append(res.Errors, RowError{Row: i + 2, Messages: msgs, Raw: raw})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	res.ValidCount = len(res.Rows)
	res.ErrorCount = len(res.Errors)
	return res, nil
}

func processRow(raw map[string]string) (Row, []string) {
	var msgs []string

	if raw[colSupplier] == "" && raw[colCustomer] == "" {
		msgs = append(msgs, "缺少交易方(供应商/客户ID)")
	}
	for _, field := range []string{colProduct, colQuantity, colPrice} {
		if strings.TrimSpace(raw[field]) == "" {
			msgs = append(msgs, field+"缺失")
		}
	}
	dateStr := parseDate(raw[colDate])
	if dateStr == "" {
		msgs = append(msgs, colDate+"缺失")
	}

	qty, err := parseNumber(raw[colQuantity])
	if err != nil || qty <= 0 {
		msgs = append(msgs, "数量需为正数")
	}
	price, err := parseNumber(raw[colPrice])
	if err != nil || price < 0 {
		msgs = append(msgs, "价格无效")
	}

	isCredit := raw[colIsCredit] == "是" || raw[colIsCredit] == "TRUE"
	dueDateStr := parseDate(raw[colDueDate])
	if isCredit {
		if raw[colCustomer] == "" {
			msgs = append(msgs, "挂账需关联客户")
		}
		if dueDateStr == "" {
			msgs = append(msgs, "挂账需到期日")
		}
		if dateStr != "" && dueDateStr != "" && dueDateStr <= dateStr {
			msgs = append(msgs, "到期日需晚于交易日")
		}
	}
	if len(msgs) > 0 {
		return Row{}, msgs
	}

	row := Row{
		SupplierID: strings.TrimSpace(raw[colSupplier]),
		CustomerID: strings.TrimSpace(raw[colCustomer]),
		ProductID:  strings.TrimSpace(raw[colProduct]),
		Quantity:   qty,
		Price:      price,
		Date:       dateStr,
		IsCredit:   isCredit,
	}
	if isCredit {
		row.CreditDate = parseDate(raw[colCreditDate])
		if row.CreditDate == "" {
			row.CreditDate = dateStr
		}
		row.DueDate = dueDateStr
	}
	return row, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return strconv.ParseFloat(s, 64)
}

var dateLayouts = []string{
	dateLayout,
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"1-2-06", // excel's default short date rendering
	"01-02-06",
	"2006-01-02 15:04:05",
}

// parseDate accepts either an excel serial day (1900 epoch, unix offset
// 25569) or a free-form date string, normalized to 2006-01-02. Invalid input
// yields "".
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		sec := int64(math.Round((serial - 25569) * 86400))
		return time.Unix(sec, 0).UTC().Format(dateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}
