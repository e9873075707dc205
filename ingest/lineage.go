package ingest

import (
	"sort"

	"github.com/padraicbc/rpingest/models"
)

// BuildLineage derives ancestor edges from the horse set: sire and dam
// at generation 1, maternal grandsire at generation 2. Uniqueness per
// (horse, relation) is structural here and enforced again by the store
// constraint, so re-deriving the same edges in a later cycle overwrites
// rather than duplicates. No generations beyond what the source carries
// are inferred.
func BuildLineage(horses map[string]*models.Horse) []models.Lineage {
	ids := make([]string, 0, len(horses))
	for id := range horses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var edges []models.Lineage
	for _, id := range ids {
		h := horses[id]
		if h.SireID != "" {
			edges = append(edges, models.Lineage{
				HorseID:      id,
				Relation:     models.RelSire,
				AncestorID:   h.SireID,
				AncestorName: h.SireName,
				Generation:   1,
			})
		}
		if h.DamID != "" {
			edges = append(edges, models.Lineage{
				HorseID:      id,
				Relation:     models.RelDam,
				AncestorID:   h.DamID,
				AncestorName: h.DamName,
				Generation:   1,
			})
		}
		if h.DamSireID != "" {
			edges = append(edges, models.Lineage{
				HorseID:      id,
				Relation:     models.RelDamSire,
				AncestorID:   h.DamSireID,
				AncestorName: h.DamSireName,
				Generation:   2,
			})
		}
	}

	return edges
}
