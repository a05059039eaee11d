package services

import (
	"context"

	log "github.com/sirupsen/logrus"
	"gitlab.com/aoterocom/AOCryptomarket/models"
)

// Save writes coin to the store and then adds it to the saved collection if
// it is not there yet. Coins without an ID cannot be stored and are skipped.
func (rc *RefreshCoordinator) Save(coin models.Coin) *Task {
	return rc.launch("save", func(ctx context.Context) {
		fields := log.Fields{"coin": coin.Key()}
		if coin.ID == "" {
			rc.logger.WithFields(fields).Warnln("Refusing to save a coin without id")
			return
		}

		if err := rc.savedStore.Insert(ctx, coin); err != nil {
			rc.logger.WithFields(fields).Errorln("Error saving coin: " + err.Error())
			return
		}
		rc.saved.AppendMissing([]models.Coin{coin}, models.Coin.Key)
	})
}

// Delete removes coin from the store and every saved entry with its identity.
func (rc *RefreshCoordinator) Delete(coin models.Coin) *Task {
	return rc.launch("delete", func(ctx context.Context) {
		key := coin.Key()
		if coin.ID != "" {
			if err := rc.savedStore.Delete(ctx, coin.ID); err != nil {
				rc.logger.WithField("coin", key).Errorln("Error deleting coin: " + err.Error())
				return
			}
		}
		rc.saved.RemoveWhere(func(saved models.Coin) bool {
			return saved.Key() == key
		})
	})
}

// LoadSaved seeds the saved collection from the store, skipping coins already present.
func (rc *RefreshCoordinator) LoadSaved() *Task {
	return rc.launch("loadSaved", func(ctx context.Context) {
		coins, err := rc.savedStore.GetAll(ctx)
		if err != nil {
			rc.logger.Errorln("Error loading saved coins: " + err.Error())
			return
		}
		added := rc.saved.AppendMissing(coins, models.Coin.Key)
		rc.logger.WithField("added", added).Debugln("saved coins loaded")
	})
}

// RefreshSaved fetches fresh market fields for every saved coin, writes them
// through to the store and updates the saved entries in place. Saved coins the
// lookup does not return keep their previous values.
func (rc *RefreshCoordinator) RefreshSaved() *Task {
	return rc.launch("refreshSaved", func(ctx context.Context) {
		var ids []string
		for _, coin := range rc.saved.Snapshot() {
			if coin.ID != "" {
				ids = append(ids, coin.ID)
			}
		}
		if len(ids) == 0 {
			return
		}

		fields := log.Fields{"ids": len(ids)}
		var fresh []models.Coin
		err := rc.retry(ctx, rc.retryPolicy, "refreshSaved", fields, func(ctx context.Context) error {
			coins, err := rc.marketService.FetchByIds(ctx, ids)
			if err != nil {
				return err
			}
			fresh = coins
			return nil
		})
		if err != nil {
			rc.logger.WithFields(fields).Warnln("giving up refreshing saved coins: " + err.Error())
			return
		}

		byID := make(map[string]models.Coin, len(fresh))
		for _, coin := range fresh {
			if err := rc.savedStore.Insert(ctx, coin); err != nil {
				rc.logger.WithField("coin", coin.ID).Errorln("Error updating saved coin: " + err.Error())
				continue
			}
			byID[coin.ID] = coin
		}

		rc.saved.Mutate(func(current []models.Coin) []models.Coin {
			for i, coin := range current {
				if updated, ok := byID[coin.ID]; ok {
					current[i] = updated
				}
			}
			return current
		})
	})
}
