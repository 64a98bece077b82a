package bootstrap

import (
	"fmt"
	"time"

	"github.com/abeleng/shemeta/internal/advisory"
	"github.com/abeleng/shemeta/internal/aggregation"
	"github.com/abeleng/shemeta/internal/auth"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/market"
	"github.com/abeleng/shemeta/internal/matching"
	"github.com/abeleng/shemeta/internal/offer"
	"github.com/abeleng/shemeta/internal/profile"
	"github.com/abeleng/shemeta/internal/suitability"
)

// Services holds the application services the HTTP surface and jobs use
type Services struct {
	Issuer      *auth.Issuer
	Auth        auth.Service
	Advisory    advisory.Service
	Market      market.Service
	Offers      offer.Service
	Aggregation aggregation.Service
	Profiles    *profile.Builder
	Matcher     *matching.Matcher
}

// InitializeServices wires the engine and the services over the repositories.
// Every service publishes through publisher.
func InitializeServices(cfg *config.Config, repos Repositories, ref *Reference, publisher event.Publisher) (*Services, error) {
	now := time.Now

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateIssuer, err)
	}

	ranker := suitability.NewRanker(ref.Catalog)
	matchOpts := matching.DefaultOptions()
	matchOpts.Concurrency = cfg.MatchConcurrency
	matcher := matching.NewMatcher(ref.Catalog, matchOpts)
	profiles := profile.NewBuilder(repos.Farmers, repos.Geo, ranker, cfg.MatchConcurrency)

	offerSvc := offer.NewService(repos.Offers, repos.Requirements, repos.Users, publisher, offer.Config{
		TTL: cfg.OfferTTL,
		Now: now,
	})
	marketSvc := market.NewService(repos.Requirements, profiles, matcher, publisher, now)

	return &Services{
		Issuer:      issuer,
		Auth:        auth.NewService(repos.Users, issuer, now),
		Advisory:    advisory.NewService(repos.Lands, repos.Users, repos.Requirements, ref.Resolver, profiles, matcher, offerSvc, publisher, now),
		Market:      marketSvc,
		Offers:      offerSvc,
		Aggregation: aggregation.NewService(repos.Requirements, repos.Offers, marketSvc, cfg.MatchConcurrency, now),
		Profiles:    profiles,
		Matcher:     matcher,
	}, nil
}
