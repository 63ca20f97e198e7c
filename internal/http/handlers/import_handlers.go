package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	models "github.com/rogerio-castellano/order-desk/internal/models"
)

var variantCSVColumns = []string{"size", "color", "stock"}

// parseVariantsCSV reads rows with a header of size,color,stock and an
// optional sale_price column. Column order is free.
func parseVariantsCSV(file io.Reader) ([]VariantRequest, []ValidationError, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range variantCSVColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("CSV header is missing %q", col)
		}
	}

	var rows []VariantRequest
	var rowErrors []ValidationError
	rowNum := 1 // header
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, nil, fmt.Errorf("CSV read error: %v", err)
		}

		row, err := variantFromRecord(record, index)
		if err != nil {
			rowErrors = append(rowErrors, ValidationError{Field: "row", Description: fmt.Sprintf("row %d: %v", rowNum, err)})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func variantFromRecord(record []string, index map[string]int) (VariantRequest, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := VariantRequest{Size: field("size"), Color: field("color")}
	if row.Size == "" {
		return row, errors.New("missing size")
	}
	if row.Color == "" {
		return row, errors.New("missing color")
	}

	stock, err := strconv.Atoi(field("stock"))
	if err != nil || stock < 0 {
		return row, errors.New("invalid stock")
	}
	row.Stock = stock

	if s := field("sale_price"); s != "" {
		price, err := models.ParseMoney(s)
		if err != nil || price < 0 {
			return row, errors.New("invalid sale_price")
		}
		row.SalePrice = price
	}
	return row, nil
}

// ImportVariantsHandler godoc
// @Summary Import variants of a product via CSV
// @Description Header: size,color,stock[,sale_price]. Valid rows are created in one bulk call; invalid rows are reported.
// @Tags variants
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportVariantsResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 502 {object} ErrorResponse
// @Router /products/{id}/variants/import [post]
// @Security BearerAuth
func ImportVariantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	rows, rowErrors, err := parseVariantsCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportVariantsResult{Created: []models.Variant{}, Errors: rowErrors}
	if len(rows) > 0 {
		created, err := shop.BulkCreateVariants(r.Context(), id, toVariantInputs(id, rows))
		if err != nil {
			writeUpstreamError(w, r, err)
			return
		}
		result.Created = created
		invalidateProducts(r.Context())
	}
	if result.Errors == nil {
		result.Errors = []ValidationError{}
	}

	_ = writeJSON(w, http.StatusOK, result)
}
