package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/padraicbc/rpingest/models"
	"github.com/padraicbc/rpingest/racingapi"
)

// Pacer gates outbound profile lookups to the configured call rate,
// shared across the whole fetch cycle.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a pacer enforcing a minimum interval between calls.
func NewPacer(interval time.Duration) Pacer {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Failure records one horse whose profile lookup failed.
type Failure struct {
	HorseID string `json:"horseID"`
	Reason  string `json:"reason"`
}

// EnrichReport summarizes one cycle's enrichment pass.
type EnrichReport struct {
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Fetcher performs the per-horse profile lookups for newly seen horses.
type Fetcher struct {
	src   racingapi.Source
	pacer Pacer
	log   *zap.Logger
}

// NewFetcher builds an enrichment fetcher over the given feed and pacer.
func NewFetcher(src racingapi.Source, pacer Pacer, log *zap.Logger) *Fetcher {
	return &Fetcher{src: src, pacer: pacer, log: log}
}

// Enrich looks up the profile for each id and merges it into the horse
// set. A failed lookup logs, records the failure and moves on: one bad
// horse never aborts the batch. The horse keeps its minimal form and
// still gets written at level 1. The only error returned is context
// cancellation from the pacer.
func (f *Fetcher) Enrich(ctx context.Context, horses map[string]*models.Horse, ids []string) (*EnrichReport, error) {
	rep := &EnrichReport{}

	for _, id := range ids {
		h, ok := horses[id]
		if !ok {
			continue
		}
		if err := f.pacer.Wait(ctx); err != nil {
			return rep, err
		}

		rep.Attempted++
		profile, err := f.src.Profile(ctx, id)
		if err != nil {
			rep.Failed++
			rep.Failures = append(rep.Failures, Failure{HorseID: id, Reason: err.Error()})
			f.log.Warn("enrichment failed",
				zap.String("horse_id", id),
				zap.Bool("permanent", racingapi.Permanent(err)),
				zap.Error(err))
			continue
		}

		mergeProfile(h, profile)
		rep.Succeeded++
	}

	return rep, nil
}

// mergeProfile applies the extended attributes onto a minimal horse and
// marks it enriched. Ancestor identifiers from the profile are
// authoritative and replace the entry-embedded ones when present.
func mergeProfile(h *models.Horse, p *racingapi.Profile) {
	h.Enriched = true
	if p.Name != "" {
		h.Name = p.Name
	}
	if p.Sex != "" {
		h.Sex = p.Sex
	}
	h.FoaledOn = optStr(p.FoaledOn)
	h.Colour = optStr(p.Colour)
	h.Breeder = optStr(p.Breeder)
	h.Region = optStr(p.Region)

	if p.SireID != "" {
		h.SireID, h.SireName = p.SireID, p.Sire
	}
	if p.DamID != "" {
		h.DamID, h.DamName = p.DamID, p.Dam
	}
	if p.DamsireID != "" {
		h.DamSireID, h.DamSireName = p.DamsireID, p.Damsire
	}
}
