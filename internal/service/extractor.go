package service

import (
	"regexp"
	"strconv"
	"strings"

	"phongtro/internal/model"
)

// Symmetric bands applied around a single matched value ("khoảng 3 triệu",
// "tầm 25m2") when the question gives no explicit bound.
const (
	priceBand = 500000 // VND
	areaBand  = 2      // m²
)

// KeywordGroup maps a canonical tag to the trigger phrases that select it.
// Order inside a table is authoritative: the first group whose trigger
// appears in the question wins ties.
type KeywordGroup struct {
	Tag      string
	Triggers []string
}

// Extractor parses a free-text Vietnamese question into structured search
// criteria. It is purely heuristic (keyword and regex matching); a phrase
// the tables do not cover simply leaves that criterion unconstrained.
type Extractor struct {
	categories        []KeywordGroup
	amenities         []KeywordGroup
	locationKeywords  []string
	locationStopWords []string
	connectiveWords   []string
	rentalKeywords    []string
}

// NewExtractor creates an extractor with the default marketplace tables.
func NewExtractor() *Extractor {
	return &Extractor{
		categories:        defaultCategoryTable,
		amenities:         defaultAmenityTable,
		locationKeywords:  defaultLocationKeywords,
		locationStopWords: defaultLocationStopWords,
		connectiveWords:   defaultConnectiveWords,
		rentalKeywords:    defaultRentalKeywords,
	}
}

// Extract parses all criteria out of the question in one pass.
func (e *Extractor) Extract(question string) model.Criteria {
	q := strings.ToLower(strings.TrimSpace(question))
	return model.Criteria{
		Location:      e.extractLocation(q),
		Price:         e.extractPriceRange(q),
		Area:          e.extractAreaRange(q),
		Category:      e.extractCategory(q),
		Amenities:     e.extractAmenities(q),
		RentalRequest: e.isRentalRequest(q),
	}
}

// extractLocation takes the text following the first locative keyword,
// accumulates up to 4 tokens until a stop word, then drops residual
// connectives. Only the first keyword hit is used.
func (e *Extractor) extractLocation(q string) string {
	for _, keyword := range e.locationKeywords {
		pos := strings.Index(q, keyword)
		if pos < 0 {
			continue
		}

		after := strings.TrimSpace(q[pos+len(keyword):])
		words := strings.Fields(after)

		var locationWords []string
		for _, word := range words {
			if e.isStopWord(word) {
				break
			}
			locationWords = append(locationWords, word)
			// location names rarely exceed 4 words
			if len(locationWords) >= 4 {
				break
			}
		}

		location := strings.Trim(strings.Join(locationWords, " "), ".,!?")
		return e.stripConnectives(location)
	}
	return ""
}

func (e *Extractor) isStopWord(word string) bool {
	for _, stop := range e.locationStopWords {
		if strings.Contains(word, stop) || strings.Contains(stop, word) {
			return true
		}
	}
	return false
}

func (e *Extractor) stripConnectives(location string) string {
	words := strings.Fields(location)
	kept := words[:0]
	for _, word := range words {
		connective := false
		for _, c := range e.connectiveWords {
			if word == c {
				connective = true
				break
			}
		}
		if !connective {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// Raw VND amounts (6+ digits) are matched before "triệu" amounts so that
// "3500000 đến 4000000" is not misread as millions.
var rawPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:từ|trên)\s*(\d{6,})\s*(?:đến khoảng|đến)?\s*(\d{6,})?`),
	regexp.MustCompile(`(\d{6,})\s*(?:đến|->|–)\s*(\d{6,})`),
	regexp.MustCompile(`(?:dưới|ít hơn)\s*(\d{6,})`),
	regexp.MustCompile(`(?:trên|nhiều hơn)\s*(\d{6,})`),
}

var millionPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:tầm|khoảng|gần|ngân sách|trong khoảng)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
	regexp.MustCompile(`(?:từ|trên)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)?\s*(?:đến khoảng|đến)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
	regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)\s*(?:đến khoảng|đến)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
	regexp.MustCompile(`(?:dưới|ít hơn)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
	regexp.MustCompile(`(?:trên|nhiều hơn)\s*(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
	regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:triệu|tr)`),
}

// extractPriceRange runs the two matching phases: raw VND first, "triệu"
// amounts (×1,000,000) second. Nil means the question did not constrain price.
func (e *Extractor) extractPriceRange(q string) *model.Range {
	if r := matchRange(q, rawPricePatterns, 1, priceBand); r != nil {
		return r
	}
	return matchRange(q, millionPricePatterns, 1000000, priceBand)
}

var areaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:từ|trên)\s*(\d+(?:[,.]\d+)?)\s*(?:-|đến)\s*(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)`),
	regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)\s*(?:đến khoảng|đến)\s*(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)?`),
	regexp.MustCompile(`(?:dưới|ít hơn)\s*(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)`),
	regexp.MustCompile(`(?:trên|nhiều hơn)\s*(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)`),
	regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:m2|m²|mét vuông|met vuong|vuông)`),
}

// extractAreaRange works like the price phases but in square meters, with a
// tighter ±2 m² band around single values.
func (e *Extractor) extractAreaRange(q string) *model.Range {
	return matchRange(q, areaPatterns, 1, areaBand)
}

// matchRange tries patterns in order against q. Two captured numbers form an
// explicit range. A single number is anchored at zero by a "less than"
// qualifier, left unbounded above by a "more than" qualifier, and otherwise
// gets the symmetric band. Unparsable numbers mean no match, never an error.
func matchRange(q string, patterns []*regexp.Regexp, scale, band float64) *model.Range {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}

		first, firstOK := parseNumber(m[1])
		if !firstOK {
			continue
		}
		first *= scale

		if len(m) > 2 && m[2] != "" {
			second, secondOK := parseNumber(m[2])
			if secondOK {
				return &model.Range{Min: first, Max: second * scale}
			}
		}

		switch {
		case strings.Contains(q, "dưới") || strings.Contains(q, "ít hơn"):
			return &model.Range{Min: 0, Max: first}
		case strings.Contains(q, "trên") || strings.Contains(q, "nhiều hơn"):
			return model.UnboundedRange(first)
		default:
			min := first - band
			if min < 0 {
				min = 0
			}
			return &model.Range{Min: min, Max: first + band}
		}
	}
	return nil
}

// parseNumber parses a numeric token accepting either comma or period as the
// decimal separator.
func parseNumber(s string) (float64, bool) {
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractCategory returns the first matching category tag in table order.
func (e *Extractor) extractCategory(q string) string {
	for _, group := range e.categories {
		for _, trigger := range group.Triggers {
			if strings.Contains(q, trigger) {
				return group.Tag
			}
		}
	}
	return ""
}

// extractAmenities collects every amenity group with a trigger in the
// question, deduplicated, in table order.
func (e *Extractor) extractAmenities(q string) []string {
	var found []string
	for _, group := range e.amenities {
		for _, trigger := range group.Triggers {
			if strings.Contains(q, trigger) {
				found = append(found, group.Tag)
				break
			}
		}
	}
	return found
}

// isRentalRequest is a permissive switch: any listing verb, category name,
// or amenity phrase marks the question as a listing request. The flag only
// selects a prompt template.
func (e *Extractor) isRentalRequest(q string) bool {
	for _, keyword := range e.rentalKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}
