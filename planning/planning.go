// Package planning serves zoning data from a local documents tree. It stands
// in for the SOGEFI / Géoportail de l'Urbanisme APIs until access to the real
// services is available.
package planning

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Zone describes one PLU zone of a commune.
type Zone struct {
	Name         string  `json:"nom"`
	MaxHeight    float64 `json:"hauteur_max"`
	MaxFootprint float64 `json:"emprise_sol_max"`
	Description  string  `json:"description"`
}

// ParcelZoning is the zoning answer for a cadastral parcel.
type ParcelZoning struct {
	Commune string `json:"commune"`
	Parcel  string `json:"parcelle"`
	Zone    string `json:"zone"`
	Details Zone   `json:"details"`
}

// Metadata describes a commune's PLU.
type Metadata struct {
	Commune      string            `json:"commune"`
	Status       string            `json:"status,omitempty"`
	ApprovalDate string            `json:"date_approbation,omitempty"`
	Zones        []string          `json:"zones,omitempty"`
	Documents    map[string]string `json:"documents,omitempty"`
	Message      string            `json:"message,omitempty"`
}

// SearchResult is a regulation excerpt matching a search.
type SearchResult struct {
	Type    string `json:"type"`
	File    string `json:"file"`
	Zone    string `json:"zone"`
	Excerpt string `json:"excerpt"`
}

type communeZoning struct {
	Zones map[string]Zone `json:"zones"`
}

func New(log *slog.Logger, documentsDir string) *Service {
	return &Service{
		log:    log,
		dir:    documentsDir,
		zoning: make(map[string]communeZoning),
	}
}

// Service reads zoning data, zone regulations and PLU metadata from the
// documents tree (plu/, zonage/ and reglements/ subdirectories).
type Service struct {
	log    *slog.Logger
	dir    string
	zoning map[string]communeZoning
}

// Load reads all zonage JSON files into memory.
func (s *Service) Load() error {
	files, err := filepath.Glob(filepath.Join(s.dir, "zonage", "*.json"))
	if err != nil {
		return fmt.Errorf("planning: glob failed: %w", err)
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("planning: failed to read %s: %w", file, err)
		}
		// Zonage files map the commune name to its zones.
		var byCommune map[string]communeZoning
		if err = json.Unmarshal(data, &byCommune); err != nil {
			return fmt.Errorf("planning: failed to parse %s: %w", file, err)
		}
		for commune, zoning := range byCommune {
			s.zoning[strings.ToLower(commune)] = zoning
		}
		s.log.Info("loaded zoning data", slog.String("file", filepath.Base(file)))
	}
	return nil
}

// ZoneForParcel returns the zoning for a cadastral parcel. Parcel geometry is
// not available locally, so the answer is the commune's UB zone until a real
// cadastre lookup replaces this.
func (s *Service) ZoneForParcel(commune, parcel string) (pz ParcelZoning, ok bool) {
	zoning, found := s.zoning[strings.ToLower(commune)]
	if !found || len(zoning.Zones) == 0 {
		return pz, false
	}
	details, found := zoning.Zones["UB"]
	if !found {
		return pz, false
	}
	return ParcelZoning{
		Commune: commune,
		Parcel:  parcel,
		Zone:    "UB",
		Details: details,
	}, true
}

// RegulationForZone returns the regulation text for a zone of a commune.
func (s *Service) RegulationForZone(commune, zone string) string {
	name := fmt.Sprintf("reglement_%s.txt", strings.ToLower(zone))
	data, err := os.ReadFile(filepath.Join(s.dir, "reglements", name))
	if err != nil {
		s.log.Warn("regulation not found", slog.String("commune", commune), slog.String("zone", zone))
		return fmt.Sprintf("Règlement de la zone %s non disponible", zone)
	}
	return string(data)
}

// Metadata returns the PLU metadata for a commune, or a placeholder record
// when none is on disk.
func (s *Service) Metadata(commune string) Metadata {
	name := fmt.Sprintf("%s_metadata.json", strings.ToLower(commune))
	data, err := os.ReadFile(filepath.Join(s.dir, "plu", name))
	if err == nil {
		var m Metadata
		if err = json.Unmarshal(data, &m); err == nil {
			return m
		}
		s.log.Error("invalid PLU metadata", slog.String("file", name), slog.Any("error", err))
	}
	return Metadata{
		Commune: commune,
		Status:  "PLU approuvé",
		Message: "Données simulées pour les tests",
	}
}

const maxSearchResults = 5
const excerptContextSize = 200

// SearchDocuments runs a substring search over the zone regulations.
func (s *Service) SearchDocuments(query string) (results []SearchResult, err error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "reglements", "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("planning: glob failed: %w", err)
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			s.log.Error("failed to read regulation", slog.String("file", file), slog.Any("error", err))
			continue
		}
		content := string(data)
		if !strings.Contains(strings.ToLower(content), strings.ToLower(query)) {
			continue
		}
		base := filepath.Base(file)
		results = append(results, SearchResult{
			Type:    "reglement",
			File:    base,
			Zone:    ZoneFromFilename(base),
			Excerpt: extractExcerpt(content, query, excerptContextSize),
		})
		if len(results) == maxSearchResults {
			break
		}
	}
	return results, nil
}

// ZoneFromFilename derives the zone code from a regulation file name, e.g.
// "reglement_ub.txt" becomes "UB".
func ZoneFromFilename(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.HasPrefix(strings.ToLower(stem), "reglement_") {
		return ""
	}
	return strings.ToUpper(stem[len("reglement_"):])
}

// extractExcerpt returns the text surrounding the first occurrence of query.
// Boundaries are counted in runes so accented text is never cut mid-character.
func extractExcerpt(text, query string, contextSize int) string {
	pos := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if pos == -1 {
		return ""
	}
	runes := []rune(text)
	runePos := utf8.RuneCountInString(text[:pos])
	start := max(0, runePos-contextSize/2)
	end := min(len(runes), runePos+utf8.RuneCountInString(query)+contextSize/2)
	excerpt := string(runes[start:end])
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(runes) {
		excerpt = excerpt + "..."
	}
	return excerpt
}
