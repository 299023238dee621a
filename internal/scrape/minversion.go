package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Strategy looks for the minimum Android requirement in a document. It
// returns the normalized requirement and true, or false when its layout is
// not present.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) (string, bool)
}

// DefaultStrategies are tried in order; the first match wins.
var DefaultStrategies = []Strategy{
	{Name: "table", Find: tableStrategy},
	{Name: "appspec", Find: labelValueStrategy},
}

// MinVersionScraper extracts the minimum Android requirement from a version
// detail page.
type MinVersionScraper struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewMinVersionScraper creates a scraper running DefaultStrategies.
func NewMinVersionScraper(logger *zap.Logger) *MinVersionScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinVersionScraper{strategies: DefaultStrategies, logger: logger}
}

// WithStrategies replaces the strategy list.
func (s *MinVersionScraper) WithStrategies(strategies ...Strategy) *MinVersionScraper {
	s.strategies = strategies
	return s
}

// Scrape runs the strategies in order. A strategy that panics is logged and
// treated as finding nothing; the remaining strategies still run.
func (s *MinVersionScraper) Scrape(doc *goquery.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, strategy := range s.strategies {
		if v, ok := s.run(strategy, doc); ok {
			s.logger.Debug("found minimum android version",
				zap.String("strategy", strategy.Name),
				zap.String("value", v),
			)
			return v, true
		}
	}
	return "", false
}

func (s *MinVersionScraper) run(strategy Strategy, doc *goquery.Document) (v string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("min version strategy failed",
				zap.String("strategy", strategy.Name),
				zap.Error(fmt.Errorf("%v", r)),
			)
			v, ok = "", false
		}
	}()
	return strategy.Find(doc)
}

// ScrapeMinVersion runs DefaultStrategies without logging.
func ScrapeMinVersion(doc *goquery.Document) (string, bool) {
	return NewMinVersionScraper(nil).Scrape(doc)
}

const (
	tableContainers = `div[class*=table], table, div.downloadBox`
	tableRows       = `div[class*=row], tr, div[class*=variant]`
	headerCells     = `div[class*=cell], td, th, div[class*=col]`
	dataCells       = `div[class*=cell], td, div[class*=col]`

	specRows   = `div[class*=appspec], div[class*=spec], div[class*=info-row]`
	specLabels = `div[class*=title], div[class*=label], span[class*=label]`
	specValues = `div[class*=value], div[class*=content]`
)

var headerKeywords = []string{"minimum", "min", "requires", "android"}

var labelKeywords = []string{"minimum", "requires", "android"}

// tableStrategy finds a header cell naming the requirement, then reads the
// same column in the rows below it.
func tableStrategy(doc *goquery.Document) (string, bool) {
	var result string
	var found bool

	doc.Find(tableContainers).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find(tableRows)

		column, headerRow := -1, -1
		rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
			row.Find(headerCells).EachWithBreak(func(j int, cell *goquery.Selection) bool {
				if containsAny(strings.ToLower(strings.TrimSpace(cell.Text())), headerKeywords) {
					column, headerRow = j, i
					return false
				}
				return true
			})
			return column == -1
		})
		if column == -1 {
			return true
		}

		for i := headerRow + 1; i < rows.Length(); i++ {
			cells := rows.Eq(i).Find(dataCells)
			if cells.Length() <= column {
				continue
			}
			text := strings.TrimSpace(cells.Eq(column).Text())
			if text == "" || strings.Contains(strings.ToLower(text), "minimum") || !looksLikeVersion(text) {
				continue
			}
			result, found = CleanVersionText(text), true
			return false
		}
		return true
	})

	return result, found
}

// labelValueStrategy finds a spec row whose label names the requirement and
// returns its value.
func labelValueStrategy(doc *goquery.Document) (string, bool) {
	var result string
	var found bool

	doc.Find(specRows).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		labels := row.Find(specLabels)
		values := row.Find(specValues)
		if labels.Length() == 0 || values.Length() == 0 {
			return true
		}

		label := strings.ToLower(strings.TrimSpace(labels.First().Text()))
		if !containsAny(label, labelKeywords) {
			return true
		}

		value := strings.TrimSpace(values.First().Text())
		if value == "" || !looksLikeVersion(value) {
			return true
		}

		result, found = CleanVersionText(value), true
		return false
	})

	return result, found
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
