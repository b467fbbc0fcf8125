package catalog

import "strings"

// Crop is one entry in the static commodity catalog.
type Crop struct {
	Name    string   // Canonical name as used by the government feeds
	BandMin int64    // Reference price band, rupees per quintal
	BandMax int64    // Reference price band, rupees per quintal
	Aliases []string // Alternate spellings and local-language names
}

// Default reference band for commodities missing from the catalog,
// rupees per quintal.
const (
	DefaultBandMin = 1500
	DefaultBandMax = 3500
)

// crops is the canonical commodity catalog. Bands reflect typical
// Maharashtra APMC price ranges.
var crops = map[string]Crop{
	"Rice":        {Name: "Rice", BandMin: 2000, BandMax: 2800, Aliases: []string{"rice", "paddy", "dhan", "tandul"}},
	"Wheat":       {Name: "Wheat", BandMin: 2000, BandMax: 2400, Aliases: []string{"wheat", "gehu", "gahu"}},
	"Cotton":      {Name: "Cotton", BandMin: 5500, BandMax: 7000, Aliases: []string{"cotton", "kapus", "kapas"}},
	"Sugarcane":   {Name: "Sugarcane", BandMin: 280, BandMax: 320, Aliases: []string{"sugarcane", "oos", "ganna"}},
	"Maize":       {Name: "Maize", BandMin: 1800, BandMax: 2200, Aliases: []string{"maize", "corn", "makka"}},
	"Tomato":      {Name: "Tomato", BandMin: 800, BandMax: 2500, Aliases: []string{"tomato", "tamatar"}},
	"Potato":      {Name: "Potato", BandMin: 800, BandMax: 1500, Aliases: []string{"potato", "batata", "aloo"}},
	"Onion":       {Name: "Onion", BandMin: 1000, BandMax: 3500, Aliases: []string{"onion", "kanda", "pyaj"}},
	"Soybean":     {Name: "Soybean", BandMin: 3500, BandMax: 4500, Aliases: []string{"soybean", "soyabean", "soya"}},
	"Groundnut":   {Name: "Groundnut", BandMin: 5000, BandMax: 6000, Aliases: []string{"groundnut", "peanut", "shengdana", "moongphali"}},
	"Pomegranate": {Name: "Pomegranate", BandMin: 4000, BandMax: 8000, Aliases: []string{"pomegranate", "dalimb", "anar"}},
	"Chilli":      {Name: "Chilli", BandMin: 8000, BandMax: 15000, Aliases: []string{"chilli", "chili", "mirchi", "red chilli"}},
}

// Lookup returns the catalog entry for a commodity. The lookup is
// case-insensitive and matches aliases as well as canonical names.
func Lookup(name string) (Crop, bool) {
	canonical, ok := Canonical(name)
	if !ok {
		return Crop{}, false
	}
	return crops[canonical], true
}

// Canonical resolves a commodity name or alias to its canonical catalog name.
func Canonical(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	for canonical, crop := range crops {
		if strings.ToLower(canonical) == needle {
			return canonical, true
		}
		for _, alias := range crop.Aliases {
			if alias == needle {
				return canonical, true
			}
		}
	}
	return "", false
}

// MatchesAlias reports whether text contains any alias of the commodity,
// case-insensitive substring match. Used to pick relevant rows out of
// scraped listing tables.
func MatchesAlias(commodity, text string) bool {
	crop, ok := Lookup(commodity)
	if !ok {
		return false
	}
	haystack := strings.ToLower(text)
	for _, alias := range crop.Aliases {
		if strings.Contains(haystack, alias) {
			return true
		}
	}
	return strings.Contains(haystack, strings.ToLower(crop.Name))
}

// Band returns the reference price band for a commodity, falling back to
// the default band when the commodity is unknown.
func Band(commodity string) (min, max int64) {
	crop, ok := Lookup(commodity)
	if !ok {
		return DefaultBandMin, DefaultBandMax
	}
	return crop.BandMin, crop.BandMax
}

// Commodities returns all canonical commodity names.
func Commodities() []string {
	names := make([]string, 0, len(crops))
	for name := range crops {
		names = append(names, name)
	}
	return names
}
