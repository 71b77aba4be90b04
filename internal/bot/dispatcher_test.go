package bot

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/stats"
	"courtside/internal/store"
)

type unknownChange struct {
	id uuid.UUID
}

func (c unknownChange) EventId() uuid.UUID {
	return c.id
}

func (c unknownChange) Describe() string {
	return "unknown"
}

func newRenderBot(t *testing.T, baseUrl string) *Bot {
	t.Helper()
	return &Bot{
		commandTimeout: time.Second,
		client:         sportspress.NewClient(baseUrl, time.Second, 1, time.Millisecond, nil),
	}
}

func TestRenderChangeEvents(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": {"rendered": "Anna"}, "link": "https://x/p/7"}`))
	}))
	defer server.Close()
	bot := newRenderBot(t, server.URL)

	old := store.Record{Stat: stats.POINTS, Value: 50, HolderId: 9}
	changes := []records.ChangeEvent{
		records.RecordBroken{
			Id:  uuid.New(),
			Old: &old,
			New: store.Record{Stat: stats.POINTS, Value: 55, HolderId: 7, GameId: 102},
		},
		records.MilestoneCrossed{
			Id: uuid.New(), Player: 7, Stat: stats.ASSISTS, Threshold: 30, Total: 31,
		},
		records.AchievementEarned{
			Id:   uuid.New(),
			Kind: records.TRIPLE_DOUBLE,
			Achievement: store.Achievement{
				PlayerId:   7,
				GameId:     102,
				Categories: []string{stats.POINTS, stats.REBOUNDS, stats.ASSISTS},
				Values:     map[string]float64{stats.POINTS: 12, stats.REBOUNDS: 11, stats.ASSISTS: 10},
			},
		},
	}
	for _, change := range changes {
		if bot.render(change) == nil {
			t.Errorf("no rendering for %s", change.Describe())
		}
	}

	if bot.render(unknownChange{id: uuid.New()}) != nil {
		t.Errorf("expected no rendering for an unknown change event")
	}
}

func TestDispatchOneIsolatesPanics(t *testing.T) {

	// No API client, so rendering this event panics. The panic has to
	// stay inside dispatchOne
	bot := &Bot{commandTimeout: time.Second}
	change := records.RecordBroken{
		Id:  uuid.New(),
		New: store.Record{Stat: stats.POINTS, Value: 55, HolderId: 7, GameId: 102},
	}
	bot.dispatchOne(change, []string{"channel"})
}

func TestCreateBotSessionReadyBeforeRun(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := sportspress.NewClient(server.URL, time.Second, 1, time.Millisecond, nil)
	st := store.NewStore(filepath.Join(t.TempDir(), "state.json"))
	reconciler := records.NewReconciler(client, st, records.DefaultConfig())

	bot, err := CreateBot("token", nil, 0, nil, 10, time.Second, client, reconciler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The monitor loop may dispatch before Run is ever called, so the
	// session has to exist as soon as the bot does
	if bot.discord == nil {
		t.Fatal("session must be created together with the bot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// No channels are registered, so nothing is sent
			bot.Dispatch([]records.ChangeEvent{
				records.MilestoneCrossed{Id: uuid.New(), Player: 7, Stat: stats.POINTS, Threshold: 100, Total: 104},
			})
		}()
	}
	wg.Wait()
}

func TestDispatchDropsWithoutSession(t *testing.T) {

	bot := &Bot{commandTimeout: time.Second}
	bot.Dispatch([]records.ChangeEvent{
		records.MilestoneCrossed{Id: uuid.New(), Player: 7, Stat: stats.POINTS, Threshold: 100, Total: 104},
	})
}

func TestDispatchDropsWithoutChannels(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := sportspress.NewClient(server.URL, time.Second, 1, time.Millisecond, nil)
	st := store.NewStore(filepath.Join(t.TempDir(), "state.json"))
	reconciler := records.NewReconciler(client, st, records.DefaultConfig())

	discord, err := discordgo.New("Bot token")
	if err != nil {
		t.Fatalf("could not create session: %v", err)
	}
	bot := &Bot{commandTimeout: time.Second, client: client, reconciler: reconciler, discord: discord}

	// No guild ever registered a channel, so nothing must be sent.
	// A send attempt against the placeholder token would fail loudly
	bot.Dispatch([]records.ChangeEvent{
		records.MilestoneCrossed{Id: uuid.New(), Player: 7, Stat: stats.POINTS, Threshold: 100, Total: 104},
	})
}
