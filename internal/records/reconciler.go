package records

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"courtside/internal/sportspress"
	"courtside/internal/stats"
	"courtside/internal/store"
)

// Reconciler owns the records and milestones state. A pass fetches the
// latest events, folds the unseen ones into a working copy of the state,
// commits the copy to disk and only then hands back the change events,
// so nothing gets announced twice even across a restart
type Reconciler struct {
	client *sportspress.Client
	store  *store.Store
	config Config

	// Committed state, guarded for concurrent readers
	mtx       sync.RWMutex
	committed store.State

	// Held for the duration of a pass. TryLock keeps overlapping
	// triggers from stacking up
	passMtx sync.Mutex

	counters Counters
}

func NewReconciler(client *sportspress.Client, st *store.Store, config Config) *Reconciler {
	reconciler := &Reconciler{
		client: client,
		store:  st,
		config: config,
	}
	reconciler.committed = st.Load()
	log.Info().Msg(fmt.Sprintf("Reconciler starting with %d processed games in the ledger",
		len(reconciler.committed.ProcessedGames)))
	return reconciler
}

// Snapshot returns a deep copy of the committed state, safe to read
// while a pass is running
func (reconciler *Reconciler) Snapshot() store.State {
	reconciler.mtx.RLock()
	defer reconciler.mtx.RUnlock()
	return reconciler.committed.Clone()
}

func (reconciler *Reconciler) Counters() *Counters {
	return &reconciler.counters
}

// SetChannel records the notification channel of a guild. It goes
// through the same commit path as a reconciliation pass, so channel
// choices survive a restart
func (reconciler *Reconciler) SetChannel(guildId string, channelId string) error {

	reconciler.passMtx.Lock()
	defer reconciler.passMtx.Unlock()

	reconciler.mtx.RLock()
	working := reconciler.committed.Clone()
	reconciler.mtx.RUnlock()

	if working.Channels[guildId] == channelId {
		return nil
	}
	working.Channels[guildId] = channelId
	_, err := reconciler.commit(&working, nil)
	return err
}

// Reconcile runs one pass. A routine poll only looks at the most recent
// pages of events; a backfill walks all of them. The returned events are
// already committed and may be announced freely. A pass already in
// progress makes this call a no-op
func (reconciler *Reconciler) Reconcile(ctx context.Context, backfill bool) ([]ChangeEvent, error) {

	if !reconciler.passMtx.TryLock() {
		log.Debug().Msg("Reconciliation pass already in progress, skipping")
		return nil, nil
	}
	defer reconciler.passMtx.Unlock()

	reconciler.counters.Polls.Add(1)

	// Work on a private copy of the committed state
	reconciler.mtx.RLock()
	working := reconciler.committed.Clone()
	reconciler.mtx.RUnlock()

	maxPages := reconciler.config.LookbackPages
	if backfill {
		maxPages = sportspress.MAX_PAGES
	}
	events, err := reconciler.client.FetchEvents(ctx, reconciler.config.EventsPerPage, maxPages)
	if err != nil {
		reconciler.counters.Failures.Add(1)
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	reconciler.counters.LastPollUnix.Store(time.Now().Unix())

	// Keep only finished games we have not folded in yet
	pending := make([]sportspress.Event, 0, len(events))
	for _, event := range events {
		if event.HasData() && !working.Processed(event.Id) {
			pending = append(pending, event)
		}
	}
	if len(pending) == 0 {
		log.Debug().Msg("No new games to reconcile")
		working.LastPoll = time.Now().UTC()
		if backfill {
			working.LastRecordsScan = working.LastPoll
		}
		return reconciler.commit(&working, nil)
	}

	// Oldest first, so a tied record stays with the game that set it
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Date != pending[j].Date {
			return pending[i].Date < pending[j].Date
		}
		return pending[i].Id < pending[j].Id
	})
	log.Info().Msg(fmt.Sprintf("Reconciling %d new games", len(pending)))

	changes := []ChangeEvent{}
	for _, event := range pending {
		rows, err := stats.ExtractRows(event)
		if err != nil {
			// Leave the game out of the ledger so it gets
			// retried on the next pass
			log.Warn().Msg(fmt.Sprintf("Skipping game %d: %s", event.Id, err.Error()))
			continue
		}
		changes = append(changes, reconciler.fold(&working, rows)...)
		working.ProcessedGames = append(working.ProcessedGames, event.Id)
		reconciler.counters.EventsProcessed.Add(1)
	}

	working.LastPoll = time.Now().UTC()
	if backfill {
		working.LastRecordsScan = working.LastPoll
	}
	return reconciler.commit(&working, changes)
}

// commit persists the working state and swaps it in. On a persistence
// failure the working copy is discarded and nothing is announced
func (reconciler *Reconciler) commit(working *store.State, changes []ChangeEvent) ([]ChangeEvent, error) {

	if err := reconciler.store.Save(working); err != nil {
		reconciler.counters.Failures.Add(1)
		return nil, fmt.Errorf("persisting state: %w", err)
	}

	reconciler.mtx.Lock()
	reconciler.committed = *working
	reconciler.mtx.Unlock()

	for _, change := range changes {
		switch change.(type) {
		case RecordBroken:
			reconciler.counters.RecordsUpdated.Add(1)
		case MilestoneCrossed:
			reconciler.counters.MilestonesFired.Add(1)
		}
	}
	return changes, nil
}

// fold applies the rows of one game to the working state and returns
// the change events it produced
func (reconciler *Reconciler) fold(working *store.State, rows []stats.Row) []ChangeEvent {

	changes := []ChangeEvent{}
	for i := range rows {
		row := &rows[i]
		changes = append(changes, reconciler.foldRecords(working, row)...)
		if change := reconciler.foldAchievements(working, row); change != nil {
			changes = append(changes, change)
		}
		changes = append(changes, reconciler.foldMilestones(working, row)...)
	}
	return changes
}

// foldRecords replaces any single game record the row strictly beats
func (reconciler *Reconciler) foldRecords(working *store.State, row *stats.Row) []ChangeEvent {

	changes := []ChangeEvent{}
	for _, stat := range RecordStats {
		if !reconciler.config.eligible(stat, &row.Line) {
			continue
		}
		value := row.Line.Value(stat)
		current, held := working.Records[stat]
		// Ties stay with the first holder
		if held && value <= current.Value {
			continue
		}
		if !held && value <= 0 {
			continue
		}
		newRecord := store.Record{
			Stat:      stat,
			Value:     value,
			HolderId:  row.Player,
			TeamId:    row.Team,
			OppTeamId: row.Opp,
			GameId:    row.Event,
			Date:      row.Date,
			GameUrl:   row.GameUrl,
		}
		var old *store.Record
		if held {
			previous := current
			old = &previous
		}
		working.Records[stat] = newRecord
		changes = append(changes, RecordBroken{Id: uuid.New(), Old: old, New: newRecord})
	}
	return changes
}

// foldAchievements detects double-doubles and triple-doubles. A line
// earns at most one of them, the highest that applies
func (reconciler *Reconciler) foldAchievements(working *store.State, row *stats.Row) ChangeEvent {

	categories := []string{}
	values := map[string]float64{}
	for _, stat := range doubleStats {
		if value := row.Line.Value(stat); value >= 10 {
			categories = append(categories, stat)
			values[stat] = value
		}
	}
	if len(categories) < 2 {
		return nil
	}
	achievement := store.Achievement{
		PlayerId:   row.Player,
		GameId:     row.Event,
		Date:       row.Date,
		Categories: categories,
		Values:     values,
		GameUrl:    row.GameUrl,
	}
	kind := DOUBLE_DOUBLE
	if len(categories) >= 3 {
		kind = TRIPLE_DOUBLE
		working.TripleDoubles = append(working.TripleDoubles, achievement)
	} else {
		working.DoubleDoubles = append(working.DoubleDoubles, achievement)
	}
	return AchievementEarned{Id: uuid.New(), Kind: kind, Achievement: achievement}
}

// foldMilestones adds the row to the player's running totals and emits
// every threshold the new total crosses for the first time. The ledger
// of already announced thresholds is the only gate, so replaying old
// games after a restart stays silent
func (reconciler *Reconciler) foldMilestones(working *store.State, row *stats.Row) []ChangeEvent {

	totals, ok := working.LastTotals[row.Player]
	if !ok {
		totals = map[string]float64{}
		working.LastTotals[row.Player] = totals
	}
	ledger, ok := working.Milestones[row.Player]
	if !ok {
		ledger = map[string]int{}
		working.Milestones[row.Player] = ledger
	}

	changes := []ChangeEvent{}
	for _, stat := range MilestoneStats {
		thresholds := reconciler.config.Milestones[stat]
		value := row.Line.Value(stat)
		if value <= 0 {
			continue
		}
		totals[stat] += value
		newTotal := totals[stat]
		highest := ledger[stat]
		for _, threshold := range thresholds {
			if float64(threshold) > newTotal || threshold <= highest {
				continue
			}
			ledger[stat] = threshold
			changes = append(changes, MilestoneCrossed{
				Id:        uuid.New(),
				Player:    row.Player,
				Stat:      stat,
				Threshold: threshold,
				Total:     newTotal,
				Date:      row.Date,
				GameUrl:   row.GameUrl,
			})
		}
	}
	return changes
}
