package planning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const sampleRegulationUB = `RÈGLEMENT ZONE UB - ZONE URBAINE MIXTE

Article UB 1 - OCCUPATIONS ET UTILISATIONS DU SOL INTERDITES
- Les installations classées pour la protection de l'environnement soumises à autorisation
- Les constructions à usage industriel
- Les dépôts de véhicules et de matériaux

Article UB 2 - HAUTEUR MAXIMALE DES CONSTRUCTIONS
La hauteur maximale des constructions est fixée à 12 mètres au faîtage.
En limite séparative, la hauteur est limitée à 3,50 mètres.

Article UB 3 - IMPLANTATION PAR RAPPORT AUX VOIES
Les constructions doivent être implantées avec un recul minimum de 5 mètres par rapport à l'alignement.

Article UB 4 - IMPLANTATION PAR RAPPORT AUX LIMITES SÉPARATIVES
Les constructions peuvent être implantées :
- Soit en limite séparative
- Soit avec un recul minimum de 3 mètres

Article UB 5 - EMPRISE AU SOL
L'emprise au sol maximale est fixée à 60% de la surface du terrain.

Article UB 6 - STATIONNEMENT
- Habitat : 1 place par logement jusqu'à 50m², 2 places au-delà
- Bureaux : 1 place pour 50m² de surface de plancher
- Commerce : 1 place pour 25m² de surface de vente
`

// EnsureSampleData creates the documents tree and seeds empty subdirectories
// with example files so a fresh install has something to index and query.
func (s *Service) EnsureSampleData() error {
	for _, sub := range []string{"plu", "zonage", "reglements"} {
		dir := filepath.Join(s.dir, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("planning: failed to create %s: %w", dir, err)
		}
		empty, err := isEmptyDir(dir)
		if err != nil {
			return err
		}
		if !empty {
			continue
		}
		if err := writeSample(dir, sub); err != nil {
			return err
		}
	}
	return nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("planning: failed to read %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}

func writeSample(dir, sub string) error {
	switch sub {
	case "zonage":
		sample := map[string]communeZoning{
			"montpellier": {
				Zones: map[string]Zone{
					"UA": {
						Name:         "Zone urbaine centre-ville",
						MaxHeight:    18,
						MaxFootprint: 0.8,
						Description:  "Zone urbaine dense du centre historique",
					},
					"UB": {
						Name:         "Zone urbaine mixte",
						MaxHeight:    12,
						MaxFootprint: 0.6,
						Description:  "Zone urbaine à dominante résidentielle",
					},
					"UC": {
						Name:         "Zone pavillonnaire",
						MaxHeight:    9,
						MaxFootprint: 0.4,
						Description:  "Zone résidentielle de faible densité",
					},
				},
			},
		}
		return writeJSON(filepath.Join(dir, "montpellier.json"), sample)
	case "reglements":
		if err := os.WriteFile(filepath.Join(dir, "reglement_ub.txt"), []byte(sampleRegulationUB), 0o644); err != nil {
			return fmt.Errorf("planning: failed to write sample regulation: %w", err)
		}
		return nil
	case "plu":
		sample := Metadata{
			Commune:      "Montpellier",
			ApprovalDate: "2023-03-15",
			Zones:        []string{"UA", "UB", "UC", "UD", "AU", "A", "N"},
			Documents: map[string]string{
				"reglement": "reglement_complet.pdf",
				"zonage":    "plan_zonage.pdf",
				"rapport":   "rapport_presentation.pdf",
			},
		}
		return writeJSON(filepath.Join(dir, "montpellier_metadata.json"), sample)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("planning: failed to marshal %s: %w", path, err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("planning: failed to write %s: %w", path, err)
	}
	return nil
}
