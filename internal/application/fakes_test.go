package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"riseup/internal/clock"
	"riseup/internal/domain/entities"
	"riseup/internal/infrastructure/memory"
	"riseup/internal/ports/output"
	"riseup/internal/scheduler"
)

const (
	botID        = "bot"
	cacheChannel = "cache"
	originChan   = "general"
	riseChannel  = "rise-ups"
)

var errBoom = errors.New("boom")

type fakeMessage struct {
	ref     entities.MessageRef
	content string
	file    []byte
	deleted bool
	edits   int
}

type fakeMessenger struct {
	mu        sync.Mutex
	seq       int
	messages  map[string]*fakeMessage
	order     []string
	reactions map[string]map[entities.Signal]map[string]bool
	deletes   map[string]int
	failOn    map[string]error
	// onBotReaction runs after the bot's reaction is visible, outside the
	// messenger lock, like a member clicking it straight away.
	onBotReaction func(ref entities.MessageRef, sig entities.Signal)
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		messages:  make(map[string]*fakeMessage),
		reactions: make(map[string]map[entities.Signal]map[string]bool),
		deletes:   make(map[string]int),
		failOn:    make(map[string]error),
	}
}

func (m *fakeMessenger) fail(op string) error {
	return m.failOn[op]
}

func (m *fakeMessenger) newMessage(channelID, content string, file []byte) entities.MessageRef {
	m.seq++
	id := fmt.Sprintf("msg-%d", m.seq)
	ref := entities.MessageRef{ChannelID: channelID, MessageID: id}
	if file != nil {
		ref.AttachmentURL = "https://cdn.test/" + id + "/" + cardFileName
	}
	m.messages[id] = &fakeMessage{ref: ref, content: content, file: file}
	m.order = append(m.order, id)
	return ref
}

func (m *fakeMessenger) Send(_ context.Context, channelID, content string) (entities.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("send"); err != nil {
		return entities.MessageRef{}, err
	}
	return m.newMessage(channelID, content, nil), nil
}

func (m *fakeMessenger) SendFile(_ context.Context, channelID, _ string, data []byte) (entities.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("send_file"); err != nil {
		return entities.MessageRef{}, err
	}
	return m.newMessage(channelID, "", data), nil
}

func (m *fakeMessenger) Edit(_ context.Context, ref entities.MessageRef, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("edit"); err != nil {
		return err
	}
	msg, ok := m.messages[ref.MessageID]
	if !ok || msg.deleted {
		return errors.New("unknown message")
	}
	msg.content = content
	msg.edits++
	return nil
}

func (m *fakeMessenger) Delete(_ context.Context, ref entities.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes[ref.MessageID]++
	if err := m.fail("delete"); err != nil {
		return err
	}
	msg, ok := m.messages[ref.MessageID]
	if !ok || msg.deleted {
		return errors.New("unknown message")
	}
	msg.deleted = true
	return nil
}

func (m *fakeMessenger) react(messageID, userID string, sig entities.Signal) {
	bySig, ok := m.reactions[messageID]
	if !ok {
		bySig = make(map[entities.Signal]map[string]bool)
		m.reactions[messageID] = bySig
	}
	if bySig[sig] == nil {
		bySig[sig] = make(map[string]bool)
	}
	bySig[sig][userID] = true
}

func (m *fakeMessenger) AddReaction(_ context.Context, ref entities.MessageRef, sig entities.Signal) error {
	m.mu.Lock()
	if err := m.fail("add_reaction"); err != nil {
		m.mu.Unlock()
		return err
	}
	m.react(ref.MessageID, botID, sig)
	hook := m.onBotReaction
	m.mu.Unlock()

	if hook != nil {
		hook(ref, sig)
	}
	return nil
}

func (m *fakeMessenger) RetractReaction(_ context.Context, ref entities.MessageRef, userID string, sig entities.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("retract_reaction"); err != nil {
		return err
	}
	delete(m.reactions[ref.MessageID][sig], userID)
	return nil
}

func (m *fakeMessenger) ListReactors(_ context.Context, ref entities.MessageRef, sig entities.Signal) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list_reactors"); err != nil {
		return nil, err
	}
	var out []string
	for user := range m.reactions[ref.MessageID][sig] {
		out = append(out, user)
	}
	return out, nil
}

// userReact records a user's reaction as the platform would.
func (m *fakeMessenger) userReact(messageID, userID string, sig entities.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.react(messageID, userID, sig)
}

func (m *fakeMessenger) userUnreact(messageID, userID string, sig entities.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reactions[messageID][sig], userID)
}

func (m *fakeMessenger) hasReaction(messageID, userID string, sig entities.Signal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reactions[messageID][sig][userID]
}

func (m *fakeMessenger) message(id string) fakeMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return *msg
	}
	return fakeMessage{}
}

func (m *fakeMessenger) deleteCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes[id]
}

// sentTo returns the live messages of channelID in send order.
func (m *fakeMessenger) sentTo(channelID string) []fakeMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []fakeMessage
	for _, id := range m.order {
		msg := m.messages[id]
		if msg.ref.ChannelID == channelID && !msg.deleted {
			out = append(out, *msg)
		}
	}
	return out
}

func (m *fakeMessenger) liveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if !msg.deleted {
			n++
		}
	}
	return n
}

type fakeRenderer struct {
	mu    sync.Mutex
	snaps []entities.CardSnapshot
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, snap entities.CardSnapshot) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.snaps = append(r.snaps, snap)
	return []byte(fmt.Sprintf("card v%d", snap.Version)), nil
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// echoTranslator renders the key followed by its data, sorted by name.
type echoTranslator struct{}

func (echoTranslator) T(_, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return key + " " + fmt.Sprint(data)
}

type fakeChannels struct {
	id  string
	err error
}

func (f *fakeChannels) EnsureTextChannel(_ context.Context, _ string, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.id == "" {
		f.id = name + "-id"
	}
	return f.id, nil
}

type fakeCatalog map[string]entities.Activity

func (c fakeCatalog) Lookup(key string) entities.Activity {
	if a, ok := c[key]; ok {
		return a
	}
	return entities.Activity{Key: key, Name: key}
}

type harness struct {
	t        *testing.T
	ctx      context.Context
	clk      *clock.FakeClock
	msg      *fakeMessenger
	renderer *fakeRenderer
	registry *Registry
	env      CardEnv
	guilds   *memory.GuildStore
	channels *fakeChannels
	svc      *RiseUpService
	rc       *Reconciler
}

var epoch = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := clock.Fake(epoch)
	sched := scheduler.New(clk)
	h := &harness{
		t:        t,
		ctx:      context.Background(),
		clk:      clk,
		msg:      newFakeMessenger(),
		renderer: &fakeRenderer{},
		registry: NewRegistry(memory.NewDirectory()),
		guilds:   memory.NewGuildStore(),
		channels: &fakeChannels{},
	}
	h.env = CardEnv{
		Messenger:      h.msg,
		Renderer:       h.renderer,
		Scheduler:      sched,
		Text:           output.Localizer{Translator: echoTranslator{}, Locale: "en"},
		CacheChannelID: cacheChannel,
		CloseDelay:     30 * time.Minute,
		CacheTTL:       time.Minute,
	}
	if err := h.guilds.Put(h.ctx, "guild", entities.GuildConfig{RiseUpChannelID: riseChannel}); err != nil {
		t.Fatalf("Put guild: %v", err)
	}
	catalog := fakeCatalog{"wz": {Key: "wz", Name: "Warzone", ImagePath: "images/wz.png"}}
	h.svc = NewRiseUpService(h.registry, h.env, h.guilds, h.channels, catalog, time.UTC)
	h.rc = NewReconciler(h.registry, h.msg, sched)
	return h
}

func person(id string) entities.Participant {
	return entities.Participant{ID: id, Name: strings.ToUpper(id[:1]) + id[1:]}
}

// startCard creates, publishes and activates a card for owner.
func (h *harness) startCard(owner string, in time.Duration) *Card {
	h.t.Helper()
	card, err := NewCard(h.env, CardParams{
		GuildID:          "guild",
		ChannelID:        originChan,
		ForwardChannelID: riseChannel,
		Owner:            person(owner),
		Activity:         entities.Activity{Key: "wz", Name: "Warzone"},
		ScheduledAt:      h.clk.Now().Add(in),
		Capacity:         5,
	})
	if err != nil {
		h.t.Fatalf("NewCard: %v", err)
	}
	if err := card.Publish(h.ctx); err != nil {
		h.t.Fatalf("Publish: %v", err)
	}
	ev, err := h.registry.Activate(card)
	if err != nil {
		h.t.Fatalf("Activate: %v", err)
	}
	if err := ev.Finish(h.ctx); err != nil {
		h.t.Fatalf("eviction Finish: %v", err)
	}
	if err := card.OfferReactions(h.ctx); err != nil {
		h.t.Fatalf("OfferReactions: %v", err)
	}
	return card
}

// react raises sig for user on ref, as the platform and the gateway would.
func (h *harness) react(ref *entities.MessageRef, user string, sig entities.Signal) {
	h.t.Helper()
	h.msg.userReact(ref.MessageID, user, sig)
	if err := h.rc.Reconcile(h.ctx, ref.MessageID, person(user), sig); err != nil {
		h.t.Fatalf("Reconcile(%s, %s): %v", user, sig, err)
	}
}

func (h *harness) unreact(ref *entities.MessageRef, user string, sig entities.Signal) {
	h.t.Helper()
	h.msg.userUnreact(ref.MessageID, user, sig)
	if err := h.rc.Reconcile(h.ctx, ref.MessageID, person(user), entities.SignalRetract); err != nil {
		h.t.Fatalf("Reconcile(%s, retract): %v", user, err)
	}
}

func attendingIDs(snap entities.CardSnapshot) []string {
	ids := make([]string, 0, len(snap.Attending))
	for _, e := range snap.Attending {
		ids = append(ids, e.Participant.ID)
	}
	return ids
}

