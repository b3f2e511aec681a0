// Package popsource загружает категории объектов из CSV-файлов открытых данных.
package popsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/accessibility-microservice/internal/domain"
)

// ParseResult - результат разбора CSV
type ParseResult struct {
	Population *domain.Population
	Skipped    int
}

// Parse разбирает таблицу с заголовком. Названия колонок координат и имени берутся из spec.
// Строки с ошибками пропускаются, отсутствие нужной колонки в заголовке - ошибка загрузки.
func Parse(spec domain.PopulationSpec, r io.Reader, logger *zap.Logger) (*ParseResult, error) {
	spec = spec.WithDefaults()

	delim, size := utf8.DecodeRuneInString(spec.Delimiter)
	if delim == utf8.RuneError || size != len(spec.Delimiter) {
		return nil, fmt.Errorf("invalid delimiter %q", spec.Delimiter)
	}

	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	lonIdx, latIdx, nameIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case spec.LonColumn:
			lonIdx = i
		case spec.LatColumn:
			latIdx = i
		case spec.NameColumn:
			nameIdx = i
		}
	}
	if lonIdx < 0 || latIdx < 0 {
		return nil, fmt.Errorf("missing coordinate columns %q/%q", spec.LonColumn, spec.LatColumn)
	}
	if spec.NameColumn != "" && nameIdx < 0 {
		return nil, fmt.Errorf("missing name column %q", spec.NameColumn)
	}

	pop := &domain.Population{
		Key:   spec.Key,
		Name:  spec.Name,
		Color: spec.Color,
		Items: make([]domain.PopulationItem, 0, 64),
	}
	skipped := 0
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				logger.Warn("Malformed row skipped",
					zap.String("category", spec.Key),
					zap.Int("line", parseErr.Line),
					zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		item, ok := parseItem(record, lonIdx, latIdx, nameIdx)
		if !ok {
			skipped++
			logger.Warn("Malformed row skipped",
				zap.String("category", spec.Key),
				zap.Int("line", line),
				zap.Strings("record", record))
			continue
		}
		pop.Items = append(pop.Items, item)
	}

	return &ParseResult{Population: pop, Skipped: skipped}, nil
}

func parseItem(record []string, lonIdx, latIdx, nameIdx int) (domain.PopulationItem, bool) {
	if lonIdx >= len(record) || latIdx >= len(record) || nameIdx >= len(record) {
		return domain.PopulationItem{}, false
	}
	lon, err := parseCoordinate(record[lonIdx])
	if err != nil {
		return domain.PopulationItem{}, false
	}
	lat, err := parseCoordinate(record[latIdx])
	if err != nil {
		return domain.PopulationItem{}, false
	}
	loc := domain.Coordinate{Lat: lat, Lon: lon}
	if !loc.Valid() {
		return domain.PopulationItem{}, false
	}

	var name string
	if nameIdx >= 0 {
		name = strings.TrimSpace(record[nameIdx])
	}
	return domain.PopulationItem{Location: loc, Name: name}, true
}

// parseCoordinate принимает десятичную точку и десятичную запятую
func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// decodingReader оборачивает поток декодером из указанной кодировки в UTF-8
func decodingReader(encoding string, r io.Reader) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	return enc.NewDecoder().Reader(r), nil
}
