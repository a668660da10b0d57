package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ramonehamilton/booster-sim/internal/booster"
)

func testPool(code, name string) *booster.SetPool {
	colors := []string{"W", "U", "B", "R", "G"}

	commons := &booster.Sheet{Name: "common"}
	for i := 0; i < 10; i++ {
		commons.Add(&booster.Card{
			ID:      fmt.Sprintf("%s-c%d", code, i),
			Name:    fmt.Sprintf("%s Common %d", name, i),
			SetCode: strings.ToUpper(code),
			Number:  fmt.Sprintf("%d", i+1),
			Rarity:  booster.RarityCommon,
			Colors:  []string{colors[i%5]},
			Types:   []string{"Creature"},
		}, 1)
	}

	uncommons := &booster.Sheet{Name: "uncommon"}
	for i := 0; i < 5; i++ {
		uncommons.Add(&booster.Card{
			ID:      fmt.Sprintf("%s-u%d", code, i),
			Name:    fmt.Sprintf("%s Uncommon %d", name, i),
			SetCode: strings.ToUpper(code),
			Number:  fmt.Sprintf("%d", i+11),
			Rarity:  booster.RarityUncommon,
			Colors:  []string{colors[i%5]},
			Types:   []string{"Instant"},
		}, 1)
	}

	rares := &booster.Sheet{Name: "rare"}
	for i := 0; i < 2; i++ {
		rares.Add(&booster.Card{
			ID:      fmt.Sprintf("%s-r%d", code, i),
			Name:    fmt.Sprintf("%s Rare %d", name, i),
			SetCode: strings.ToUpper(code),
			Number:  fmt.Sprintf("%d", i+16),
			Rarity:  booster.RarityRare,
			Colors:  []string{colors[i%5]},
			Types:   []string{"Sorcery"},
		}, 1)
	}

	return &booster.SetPool{
		Code: strings.ToLower(code),
		Name: name,
		Composition: booster.Composition{
			Commons:   10,
			Uncommons: 3,
			Rares:     1,
		},
		Commons:   commons,
		Uncommons: uncommons,
		Rares:     rares,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	idx := booster.NewIndex([]*booster.SetPool{
		testPool("znr", "Zendikar Rising"),
		testPool("eld", "Throne of Eldraine"),
	})

	selector := booster.NewSelector(
		[]string{"znr", "eld"},
		[]string{"znr", "eld"},
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := booster.New(idx,
		booster.WithSelector(selector),
		booster.WithLogger(logger),
	)

	s := NewServer(DefaultConfig(), gen, selector, logger)
	go s.wsHub.Run()
	t.Cleanup(s.wsHub.Stop)
	return s
}

// newTestServerWithDecks is newTestServer plus a single 20-card theme deck.
func newTestServerWithDecks(t *testing.T) *Server {
	t.Helper()

	deck := &booster.JumpstartDeck{Name: "Rainbow", SetCode: "JMP"}
	for i := 0; i < 20; i++ {
		deck.Cards = append(deck.Cards, booster.PackCard{Card: &booster.Card{
			ID:      fmt.Sprintf("jmp-%d", i),
			Name:    fmt.Sprintf("Rainbow Card %d", i),
			SetCode: "JMP",
			Rarity:  booster.RarityCommon,
			Types:   []string{"Creature"},
		}})
	}

	idx := booster.NewIndex([]*booster.SetPool{testPool("znr", "Zendikar Rising")})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := booster.New(idx,
		booster.WithLogger(logger),
		booster.WithJumpstartDecks([]*booster.JumpstartDeck{deck}),
	)

	s := NewServer(DefaultConfig(), gen, booster.NewSelector(nil, nil), logger)
	go s.wsHub.Run()
	t.Cleanup(s.wsHub.Stop)
	return s
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

type packEnvelope struct {
	Data *booster.PackResult `json:"data"`
}

type packsEnvelope struct {
	Data []*booster.PackResult `json:"data"`
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["sets"] != float64(2) {
		t.Errorf("expected 2 sets, got %v", body["sets"])
	}
}

func TestGeneratePack(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/ZNR")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env packEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if env.Data == nil {
		t.Fatal("expected a pack result")
	}
	if env.Data.SetCode != "znr" {
		t.Errorf("expected set znr, got %q", env.Data.SetCode)
	}
	if len(env.Data.Cards) != 14 {
		t.Errorf("expected 14 cards, got %d", len(env.Data.Cards))
	}
	if env.Data.ID == "" {
		t.Error("expected a result ID")
	}
}

func TestGeneratePackSeededIsReproducible(t *testing.T) {
	s := newTestServer(t)

	cards := func() []string {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr?seed=42")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var env packEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		ids := make([]string, 0, len(env.Data.Cards))
		for _, c := range env.Data.Cards {
			ids = append(ids, c.ID)
		}
		return ids
	}

	first := cards()
	second := cards()
	if len(first) != len(second) {
		t.Fatalf("pack sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded packs differ at slot %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestGeneratePackBadSeed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr?seed=banana")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGeneratePackUnknownSet(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/xyz")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateSealed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr/sealed")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 6 {
		t.Fatalf("expected 6 packs, got %d", len(env.Data))
	}
	for _, pack := range env.Data {
		if pack.SetCode != "znr" {
			t.Errorf("expected set znr, got %q", pack.SetCode)
		}
	}
}

func TestGenerateSealedCountParam(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr/sealed?count=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 3 {
		t.Fatalf("expected 3 packs, got %d", len(env.Data))
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/packs/znr/sealed?count=banana")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad count, got %d", rec.Code)
	}
}

func TestGenerateFromListEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/list?sets=znr|eld&count=4")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 4 {
		t.Fatalf("expected 4 packs, got %d", len(env.Data))
	}
	for _, pack := range env.Data {
		if pack.SetCode != "znr" && pack.SetCode != "eld" {
			t.Errorf("unexpected set %q", pack.SetCode)
		}
	}
}

func TestGenerateFromListMissingSets(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/list")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without sets, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/packs/list?sets=znr|xyz")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", rec.Code)
	}
}

func TestGeneratePoolEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/pool?sets=znr|znr|eld")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	// One pack per listed code, in order.
	want := []string{"znr", "znr", "eld"}
	if len(env.Data) != len(want) {
		t.Fatalf("expected %d packs, got %d", len(want), len(env.Data))
	}
	for i, pack := range env.Data {
		if pack.SetCode != want[i] {
			t.Errorf("pack %d from %q, want %q", i, pack.SetCode, want[i])
		}
	}
}

func TestGenerateJumpstartEndpoint(t *testing.T) {
	s := newTestServer(t)

	// The test server carries no theme decks.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/jumpstart")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without decks, got %d", rec.Code)
	}

	s = newTestServerWithDecks(t)
	rec = doRequest(t, s, http.MethodGet, "/api/v1/packs/jumpstart?count=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(env.Data))
	}
	for _, deck := range env.Data {
		if deck.SetName != "Rainbow" {
			t.Errorf("expected the Rainbow deck, got %q", deck.SetName)
		}
		if len(deck.Cards) != 20 {
			t.Errorf("expected 20 cards, got %d", len(deck.Cards))
		}
	}
}

func TestGenerateChaos(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/chaos")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env packsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 6 {
		t.Fatalf("expected 6 packs, got %d", len(env.Data))
	}
	for _, pack := range env.Data {
		if pack.SetCode != "znr" && pack.SetCode != "eld" {
			t.Errorf("unexpected set %q in chaos pool", pack.SetCode)
		}
	}
}

func TestExportArena(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr/arena")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain response, got %q", ct)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 14 {
		t.Fatalf("expected 14 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "1 ") {
			t.Errorf("unexpected arena line %q", line)
		}
		if !strings.Contains(line, "(ZNR)") {
			t.Errorf("expected set code in line %q", line)
		}
	}
}

func TestExportSealedArenaMergesCounts(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/packs/znr/sealed/arena")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Six packs from a 17-card set must repeat cards, so at least one
	// merged line carries a count above one.
	merged := false
	for _, line := range strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "1 ") {
			merged = true
		}
	}
	if !merged {
		t.Error("expected merged counts in sealed arena export")
	}
}

func TestListSets(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/sets")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data []struct {
			Code     string `json:"code"`
			Name     string `json:"name"`
			PackSize int    `json:"pack_size"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(env.Data))
	}
	if env.Data[0].Code != "eld" || env.Data[1].Code != "znr" {
		t.Errorf("expected sorted codes [eld znr], got [%s %s]", env.Data[0].Code, env.Data[1].Code)
	}
	for _, set := range env.Data {
		if set.PackSize != 14 {
			t.Errorf("set %s: expected pack size 14, got %d", set.Code, set.PackSize)
		}
	}
}

func TestGetSet(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/sets/ZNR")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if env.Data.Name != "Zendikar Rising" {
		t.Errorf("expected Zendikar Rising, got %q", env.Data.Name)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/sets/xyz")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown set, got %d", rec.Code)
	}
}

func TestGetRotations(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/sets/rotations")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data struct {
			Standard []string `json:"standard"`
			Historic []string `json:"historic"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(env.Data.Standard) != 2 || len(env.Data.Historic) != 2 {
		t.Errorf("expected 2 sets per rotation, got standard=%d historic=%d",
			len(env.Data.Standard), len(env.Data.Historic))
	}
}

func TestColorChart(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats/znr/colors?packs=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html response, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "echarts") {
		t.Error("expected an echarts document")
	}
}

func TestColorChartBadPacksParam(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats/znr/colors?packs=0")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRarityChart(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/stats/znr/rarities?packs=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rarity Distribution") {
		t.Error("expected chart title in document")
	}
}
