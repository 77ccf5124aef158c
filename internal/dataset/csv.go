package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column suffixes for each API's column group in the wide CSV.
const (
	colSuccess      = "_success"
	colResponseTime = "_response_time_s"
	colAnswer       = "_answer"
	colNumSources   = "_num_sources"
	colSourceURLs   = "_source_urls"
	colError        = "_error"
)

// WriteCSV writes rows in the wide per-query layout: query and
// query_length first, then one column group per API in the given order.
func WriteCSV(w io.Writer, rows []Row, apis []string) error {
	cw := csv.NewWriter(w)

	header := []string{"query", "query_length"}
	for _, api := range apis {
		header = append(header,
			api+colSuccess,
			api+colResponseTime,
			api+colAnswer,
			api+colNumSources,
			api+colSourceURLs,
			api+colError,
		)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Query, strconv.Itoa(row.QueryLength)}
		for _, api := range apis {
			cell := row.PerAPI[api]
			record = append(record,
				strconv.FormatBool(cell.Success),
				formatFloat(cell.ResponseTime),
				cell.Answer,
				strconv.Itoa(cell.NumSources),
				joinURLs(cell.SourceURLs),
				cell.Error,
			)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %q: %w", row.Query, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the wide CSV to a file path.
func WriteCSVFile(path string, rows []Row, apis []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows, apis); err != nil {
		return err
	}
	return f.Close()
}

// ReadCSV parses the wide per-query layout back into rows. APIs are
// discovered from the header; a row missing an API's columns (or with
// an unparsable success flag) gets a zero cell for that API so files
// produced by older runs with fewer APIs still load.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	if _, ok := index["query"]; !ok {
		return nil, fmt.Errorf("header has no query column")
	}

	apis := apisFromHeader(header)

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		row := Row{
			Query:  field("query"),
			PerAPI: make(map[string]Cell, len(apis)),
		}
		row.QueryLength, _ = strconv.Atoi(field("query_length"))
		if row.QueryLength == 0 {
			row.QueryLength = len(row.Query)
		}

		for _, api := range apis {
			cell := Cell{Error: field(api + colError)}
			cell.Success, _ = strconv.ParseBool(field(api + colSuccess))
			cell.ResponseTime, _ = strconv.ParseFloat(field(api+colResponseTime), 64)
			cell.Answer = field(api + colAnswer)
			cell.NumSources, _ = strconv.Atoi(field(api + colNumSources))
			cell.SourceURLs = splitURLs(field(api + colSourceURLs))
			cell.TimedOut = IsTimeout(cell.Error)
			row.PerAPI[api] = cell
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadCSVFile reads a wide CSV file into rows.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// apisFromHeader recovers the API list from the success columns,
// preserving header order.
func apisFromHeader(header []string) []string {
	var apis []string
	for _, name := range header {
		if strings.HasSuffix(name, colSuccess) {
			apis = append(apis, strings.TrimSuffix(name, colSuccess))
		}
	}
	return apis
}
