package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// RefreshGainersLosers scrapes the movers tables once, backfills the missing
// ids with a name lookup and merges the result into the listing. A failed
// scrape leaves the previous gainers and losers in place.
func (rc *RefreshCoordinator) RefreshGainersLosers() *Task {
	return rc.launch("refreshGainersLosers", func(ctx context.Context) {
		gainers, losers, err := rc.moversService.FetchGainersLosers(ctx)
		if err != nil {
			rc.logger.Warnln("Error scraping gainers and losers: " + err.Error())
			return
		}

		rc.backfillIDs(ctx, gainers, losers)

		rc.gainers.Replace(gainers)
		rc.losers.Replace(losers)

		added := rc.listing.AppendMissing(gainers, models.Coin.Key)
		added += rc.listing.AppendMissing(losers, models.Coin.Key)
		rc.logger.WithFields(log.Fields{
			"gainers": len(gainers),
			"losers":  len(losers),
			"added":   added,
		}).Debugln("gainers and losers refreshed")
	})
}

// backfillIDs sets ID and LastUpdated on every scraped coin whose name matches
// exactly one looked up coin. Names with no match, or with several coins of
// different ids, are left without ID.
func (rc *RefreshCoordinator) backfillIDs(ctx context.Context, groups ...[]models.Coin) {
	var names []string
	for _, coins := range groups {
		for _, coin := range coins {
			names = append(names, coin.Name)
		}
	}
	names = helpers.UniqueStrings(names)
	if len(names) == 0 {
		return
	}

	found, err := rc.marketService.FetchByNames(ctx, names)
	if err != nil {
		rc.logger.WithField("names", len(names)).Warnln("Error backfilling scraped ids: " + err.Error())
		return
	}

	byName := make(map[string]string, len(found))
	ambiguous := make(map[string]bool)
	for _, coin := range found {
		if coin.ID == "" {
			continue
		}
		if id, ok := byName[coin.Name]; ok && id != coin.ID {
			ambiguous[coin.Name] = true
			continue
		}
		byName[coin.Name] = coin.ID
	}

	stamp := rc.now().UTC().Format(time.RFC3339)
	for _, coins := range groups {
		for i := range coins {
			id, ok := byName[coins[i].Name]
			if !ok || ambiguous[coins[i].Name] {
				continue
			}
			coins[i].ID = id
			coins[i].LastUpdated = stamp
		}
	}
}
