package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"phongtro/internal/model"
)

// amenitySynonyms groups interchangeable Vietnamese amenity spellings.
// Expansion is first-match-wins: an amenity phrase joins the first family
// it overlaps with and no others.
var amenitySynonyms = [][]string{
	{"máy lạnh", "may lanh", "điều hòa", "dieu hoa"},
	{"gác", "gac", "lửng", "mezzanine"},
	{"nội thất", "noi that", "đồ đạc", "do dac"},
	{"an ninh", "bảo vệ", "bao ve", "camera"},
	{"thang máy", "thang may", "elevator", "máy nâng"},
}

// Filter reduces a similarity-ranked candidate list to the subsequence
// matching every specified criterion. Order is preserved; filtering never
// re-ranks.
type Filter struct{}

// NewFilter creates a criteria filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Apply returns the rooms matching all non-empty criteria, in input order.
func (f *Filter) Apply(rooms []model.Room, criteria model.Criteria) []model.Room {
	filtered := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if f.matches(&room, criteria) {
			filtered = append(filtered, room)
		}
	}
	return filtered
}

func (f *Filter) matches(room *model.Room, criteria model.Criteria) bool {
	return f.matchLocation(room.Location, criteria.Location) &&
		f.matchPrice(room.Price, criteria.Price) &&
		f.matchArea(room.Area, criteria.Area) &&
		f.matchCategory(room.Category, criteria.Category) &&
		f.matchAmenities(room.Options, criteria.Amenities)
}

// matchLocation requires a majority of the criteria tokens (length >1) to
// appear as substrings of the room's location. Partial addresses still
// match; short common tokens can admit false positives.
func (f *Filter) matchLocation(roomLocation, wanted string) bool {
	wanted = strings.TrimSpace(strings.ToLower(wanted))
	if wanted == "" {
		return true
	}

	roomLocation = strings.ToLower(roomLocation)

	var tokens []string
	for _, part := range strings.Fields(wanted) {
		if utf8.RuneCountInString(part) > 1 {
			tokens = append(tokens, part)
		}
	}
	if len(tokens) == 0 {
		return true
	}

	matching := 0
	for _, token := range tokens {
		if strings.Contains(roomLocation, token) {
			matching++
		}
	}
	return matching >= max(1, len(tokens)/2)
}

func (f *Filter) matchPrice(priceStr string, wanted *model.Range) bool {
	if wanted == nil {
		return true
	}
	return wanted.Contains(ParseRoomPrice(priceStr))
}

func (f *Filter) matchArea(areaStr string, wanted *model.Range) bool {
	if wanted == nil {
		return true
	}
	return wanted.Contains(ParseRoomArea(areaStr))
}

func (f *Filter) matchCategory(roomCategory, wanted string) bool {
	if wanted == "" {
		return true
	}
	return strings.EqualFold(roomCategory, wanted)
}

// matchAmenities is conjunctive: every requested amenity must find at least
// one room option, by bidirectional substring containment, expanding through
// the synonym table when the direct check fails. One missing amenity rejects
// the room.
func (f *Filter) matchAmenities(options []string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}

	lowered := make([]string, len(options))
	for i, opt := range options {
		lowered[i] = strings.ToLower(opt)
	}

	for _, amenity := range wanted {
		amenity = strings.ToLower(amenity)
		if !amenityFound(lowered, expandSynonyms(amenity)) {
			return false
		}
	}
	return true
}

func amenityFound(options, variants []string) bool {
	for _, opt := range options {
		for _, v := range variants {
			if strings.Contains(opt, v) || strings.Contains(v, opt) {
				return true
			}
		}
	}
	return false
}

// expandSynonyms returns the amenity itself plus the first synonym family
// it overlaps with.
func expandSynonyms(amenity string) []string {
	variants := []string{amenity}
	for _, family := range amenitySynonyms {
		for _, member := range family {
			if strings.Contains(amenity, member) || strings.Contains(member, amenity) {
				return append(variants, family...)
			}
		}
	}
	return variants
}

var (
	millionRe  = regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:triệu|trieu|tr)`)
	thousandRe = regexp.MustCompile(`(\d+(?:[,.]\d+)?)\s*(?:ngàn|ngan|nghìn|nghin|k)`)
	rawVNDRe   = regexp.MustCompile(`\d{6,}`)
	numberRe   = regexp.MustCompile(`\d+(?:[,.]\d+)?`)
)

// ParseRoomPrice converts a room's display price ("3,5 triệu/tháng",
// "3500000đ", "800 nghìn") to VND. Attempts run in order: million unit,
// thousand unit, raw 6+-digit amounts (largest plausible rent wins), and
// finally any bare number treated as millions. Unparsable input yields 0.
func ParseRoomPrice(priceStr string) float64 {
	s := strings.ToLower(priceStr)

	if m := millionRe.FindStringSubmatch(s); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			return v * 1000000
		}
	}

	if m := thousandRe.FindStringSubmatch(s); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			return v * 1000
		}
	}

	// thousand separators ("3.500.000", "3,500,000") are stripped before
	// looking for raw VND amounts
	raw := strings.NewReplacer(",", "", ".", "").Replace(s)
	if matches := rawVNDRe.FindAllString(raw, -1); matches != nil {
		best := 0.0
		for _, numStr := range matches {
			if v, err := strconv.ParseFloat(numStr, 64); err == nil && v >= 100000 && v > best {
				best = v
			}
		}
		if best > 0 {
			return best
		}
		if v, err := strconv.ParseFloat(matches[0], 64); err == nil {
			return v
		}
	}

	// bare small number, assume millions ("3.5" meaning 3.5 triệu)
	if m := numberRe.FindString(s); m != "" {
		if v, ok := parseNumber(m); ok {
			return v * 1000000
		}
	}

	return 0
}

// ParseRoomArea converts a room's area field to square meters: direct float
// parse first (comma accepted as decimal separator), then the first numeric
// token in the string. Unparsable input yields 0.
func ParseRoomArea(areaStr string) float64 {
	if v, ok := parseNumber(strings.TrimSpace(areaStr)); ok {
		return v
	}
	if m := numberRe.FindString(areaStr); m != "" {
		if v, ok := parseNumber(m); ok {
			return v
		}
	}
	return 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
