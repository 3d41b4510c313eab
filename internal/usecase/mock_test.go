package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/totegamma/textcanon/internal/domain"
)

type mockRefRepo struct {
	languages map[int64]domain.Language
	unitTypes map[int64]domain.UnitType
	sources   map[int64]domain.Source
	books     map[int64]domain.Book
	canons    map[int64]domain.Canon
	nextID    int64
}

func newMockRefRepo() *mockRefRepo {
	return &mockRefRepo{
		languages: map[int64]domain.Language{
			1: {ID: 1, Code: "grc", Name: "Ancient Greek", Script: "Grek"},
			2: {ID: 2, Code: "en", Name: "English", Script: "Latn"},
		},
		unitTypes: map[int64]domain.UnitType{1: {ID: 1, Code: "verse", Name: "Verse"}},
		sources: map[int64]domain.Source{
			1: {ID: 1, Code: "KJV", Name: "King James"},
			2: {ID: 2, Code: "SBLGNT", Name: "SBL Greek New Testament"},
		},
		books: map[int64]domain.Book{
			1: {ID: 1, Code: "GEN", Name: "Genesis"},
			2: {ID: 2, Code: "EXO", Name: "Exodus"},
		},
		canons: map[int64]domain.Canon{
			1: {ID: 1, Code: "protestant", Name: "Protestant", DisplayOrder: 2},
			2: {ID: 2, Code: "catholic", Name: "Catholic", DisplayOrder: 1},
		},
		nextID: 100,
	}
}

func (m *mockRefRepo) GetLanguage(ctx context.Context, id int64) (domain.Language, error) {
	if l, ok := m.languages[id]; ok {
		return l, nil
	}
	return domain.Language{}, domain.NotFoundError{Resource: "language"}
}
func (m *mockRefRepo) GetUnitType(ctx context.Context, id int64) (domain.UnitType, error) {
	if u, ok := m.unitTypes[id]; ok {
		return u, nil
	}
	return domain.UnitType{}, domain.NotFoundError{Resource: "unit type"}
}
func (m *mockRefRepo) GetSource(ctx context.Context, id int64) (domain.Source, error) {
	if s, ok := m.sources[id]; ok {
		return s, nil
	}
	return domain.Source{}, domain.NotFoundError{Resource: "source"}
}
func (m *mockRefRepo) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return domain.Book{}, domain.NotFoundError{Resource: "book"}
}
func (m *mockRefRepo) FindSourceByCode(ctx context.Context, code string) (domain.Source, error) {
	for _, s := range m.sources {
		if s.Code == code {
			return s, nil
		}
	}
	return domain.Source{}, domain.NotFoundError{Resource: "source"}
}
func (m *mockRefRepo) FindBookByCode(ctx context.Context, code string) (domain.Book, error) {
	for _, b := range m.books {
		if b.Code == code {
			return b, nil
		}
	}
	return domain.Book{}, domain.NotFoundError{Resource: "book"}
}
func (m *mockRefRepo) GetCanons(ctx context.Context, ids []int64) ([]domain.Canon, error) {
	var out []domain.Canon
	for _, id := range ids {
		if c, ok := m.canons[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
func (m *mockRefRepo) ListCanons(ctx context.Context) ([]domain.Canon, error) {
	out := make([]domain.Canon, 0, len(m.canons))
	for _, c := range m.canons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}
func (m *mockRefRepo) id() int64 {
	m.nextID++
	return m.nextID
}
func (m *mockRefRepo) SaveLanguage(ctx context.Context, l domain.Language) (domain.Language, error) {
	l.ID = m.id()
	m.languages[l.ID] = l
	return l, nil
}
func (m *mockRefRepo) SaveUnitType(ctx context.Context, u domain.UnitType) (domain.UnitType, error) {
	u.ID = m.id()
	m.unitTypes[u.ID] = u
	return u, nil
}
func (m *mockRefRepo) SaveSource(ctx context.Context, s domain.Source) (domain.Source, error) {
	s.ID = m.id()
	m.sources[s.ID] = s
	return s, nil
}
func (m *mockRefRepo) SaveBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	b.ID = m.id()
	m.books[b.ID] = b
	return b, nil
}
func (m *mockRefRepo) SaveCanon(ctx context.Context, c domain.Canon) (domain.Canon, error) {
	c.ID = m.id()
	m.canons[c.ID] = c
	return c, nil
}

type mockContentRepo struct {
	rows     map[int64]domain.TextContent
	canons   map[int64][]int64
	nextID   int64
	canonSet int
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{rows: map[int64]domain.TextContent{}, canons: map[int64][]int64{}}
}

func (m *mockContentRepo) Get(ctx context.Context, id int64) (domain.TextContent, error) {
	if c, ok := m.rows[id]; ok {
		return c, nil
	}
	return domain.TextContent{}, domain.NotFoundError{Resource: "text content"}
}
func (m *mockContentRepo) FindByUnitKey(ctx context.Context, sourceID, bookID int64, unitKey string) (domain.TextContent, error) {
	for _, c := range m.rows {
		if c.SourceID == sourceID && c.BookID == bookID && c.UnitKey != nil && *c.UnitKey == unitKey {
			return c, nil
		}
	}
	return domain.TextContent{}, domain.NotFoundError{Resource: "text content"}
}
func (m *mockContentRepo) Create(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error) {
	m.nextID++
	content.ID = m.nextID
	content.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	content.UpdatedAt = content.CreatedAt
	m.rows[content.ID] = content
	if canonIDs != nil {
		m.canons[content.ID] = canonIDs
		m.canonSet++
	}
	return content, nil
}
func (m *mockContentRepo) Update(ctx context.Context, content domain.TextContent, canonIDs []int64) (domain.TextContent, error) {
	if _, ok := m.rows[content.ID]; !ok {
		return domain.TextContent{}, domain.NotFoundError{Resource: "text content"}
	}
	content.UpdatedAt = content.UpdatedAt.Add(time.Minute)
	m.rows[content.ID] = content
	if canonIDs != nil {
		m.canons[content.ID] = canonIDs
		m.canonSet++
	}
	return content, nil
}
func (m *mockContentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.NotFoundError{Resource: "text content"}
	}
	delete(m.rows, id)
	delete(m.canons, id)
	return nil
}

type mockCanonRepo struct {
	refs    *mockRefRepo
	members map[int64][]int64
}

func (m *mockCanonRepo) SetCanons(ctx context.Context, textContentID int64, canonIDs []int64) error {
	seen := map[int64]bool{}
	var ids []int64
	for _, id := range canonIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	m.members[textContentID] = ids
	return nil
}
func (m *mockCanonRepo) ListCanonsFor(ctx context.Context, textContentID int64) ([]domain.CanonRef, error) {
	canons, _ := m.refs.GetCanons(ctx, m.members[textContentID])
	sort.Slice(canons, func(i, j int) bool { return canons[i].DisplayOrder < canons[j].DisplayOrder })
	refs := make([]domain.CanonRef, 0, len(canons))
	for _, c := range canons {
		refs = append(refs, domain.CanonRef{ID: c.ID, Code: c.Code, Name: c.Name, DisplayOrder: c.DisplayOrder})
	}
	return refs, nil
}
func (m *mockCanonRepo) FindByCanon(ctx context.Context, canonID int64) ([]domain.TextContent, error) {
	return nil, nil
}

type mockTranslationRepo struct {
	rows   []domain.TextTranslation
	scope  domain.RevisionScope
	latest int
	// afterLatest runs once after Latest has read its row.
	afterLatest func()
}

func (m *mockTranslationRepo) Append(ctx context.Context, t domain.TextTranslation, scope domain.RevisionScope) (domain.TextTranslation, error) {
	m.scope = scope
	highest := 0
	for i := range m.rows {
		r := &m.rows[i]
		if r.TextContentID != t.TextContentID {
			continue
		}
		if scope == domain.RevisionScopeContent || r.LanguageTargetID == t.LanguageTargetID {
			if r.RevisionNumber > highest {
				highest = r.RevisionNumber
			}
		}
		if r.LanguageTargetID == t.LanguageTargetID {
			r.IsLatest = false
		}
	}
	t.ID = int64(len(m.rows) + 1)
	t.RevisionNumber = highest + 1
	t.IsLatest = true
	m.rows = append(m.rows, t)
	return t, nil
}
func (m *mockTranslationRepo) Promote(ctx context.Context, id int64) (domain.TextTranslation, error) {
	target, err := m.Get(ctx, id)
	if err != nil {
		return domain.TextTranslation{}, err
	}
	for i := range m.rows {
		r := &m.rows[i]
		if r.TextContentID == target.TextContentID && r.LanguageTargetID == target.LanguageTargetID {
			r.IsLatest = r.ID == id
		}
	}
	return m.Get(ctx, id)
}
func (m *mockTranslationRepo) Confirm(ctx context.Context, id int64, confirmedBy string, at time.Time) (domain.TextTranslation, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].ConfirmedBy = &confirmedBy
			m.rows[i].ConfirmedAt = &at
			return m.rows[i], nil
		}
	}
	return domain.TextTranslation{}, domain.NotFoundError{Resource: "text translation"}
}
func (m *mockTranslationRepo) Get(ctx context.Context, id int64) (domain.TextTranslation, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.TextTranslation{}, domain.NotFoundError{Resource: "text translation"}
}
func (m *mockTranslationRepo) Latest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, error) {
	m.latest++
	for _, r := range m.rows {
		if r.TextContentID == textContentID && r.LanguageTargetID == languageID && r.IsLatest {
			if hook := m.afterLatest; hook != nil {
				m.afterLatest = nil
				hook()
			}
			return r, nil
		}
	}
	return domain.TextTranslation{}, domain.NotFoundError{Resource: "text translation"}
}
func (m *mockTranslationRepo) History(ctx context.Context, textContentID, languageID int64) ([]domain.TextTranslation, error) {
	var out []domain.TextTranslation
	for _, r := range m.rows {
		if r.TextContentID == textContentID && (languageID == 0 || r.LanguageTargetID == languageID) {
			out = append(out, r)
		}
	}
	return out, nil
}

type cachedTranslation struct {
	t          domain.TextTranslation
	generation uint64
}

type mockTranslationCache struct {
	entries     map[[2]int64]cachedTranslation
	generations map[[2]int64]uint64
	invalidated int
}

func newMockTranslationCache() *mockTranslationCache {
	return &mockTranslationCache{entries: map[[2]int64]cachedTranslation{}, generations: map[[2]int64]uint64{}}
}

func (m *mockTranslationCache) GetLatest(ctx context.Context, textContentID, languageID int64) (domain.TextTranslation, uint64, bool) {
	key := [2]int64{textContentID, languageID}
	gen := m.generations[key] + 1
	entry, ok := m.entries[key]
	if !ok || entry.generation != gen {
		return domain.TextTranslation{}, gen, false
	}
	return entry.t, gen, true
}
func (m *mockTranslationCache) SetLatest(ctx context.Context, t domain.TextTranslation, generation uint64) {
	m.entries[[2]int64{t.TextContentID, t.LanguageTargetID}] = cachedTranslation{t: t, generation: generation}
}
func (m *mockTranslationCache) InvalidateLatest(ctx context.Context, textContentID, languageID int64) {
	m.invalidated++
	m.generations[[2]int64{textContentID, languageID}]++
}

type mockUnitRepo struct {
	units    map[string]domain.TextUnit
	maps     []domain.CanonMap
	payloads map[string]domain.TextPayload
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: map[string]domain.TextUnit{}, payloads: map[string]domain.TextPayload{}}
}

func (m *mockUnitRepo) CreateUnit(ctx context.Context, unit domain.TextUnit) (domain.TextUnit, error) {
	if existing, ok := m.units[unit.UnitID]; ok {
		return domain.TextUnit{}, domain.KeyConflictError{Key: unit.UnitID, ExistingID: existing.UnitID}
	}
	m.units[unit.UnitID] = unit
	return unit, nil
}
func (m *mockUnitRepo) GetUnit(ctx context.Context, unitID string) (domain.TextUnit, error) {
	if u, ok := m.units[unitID]; ok {
		return u, nil
	}
	return domain.TextUnit{}, domain.NotFoundError{Resource: "text unit"}
}
func (m *mockUnitRepo) MapToCanon(ctx context.Context, canonID int64, unitID string, sequence int) (domain.CanonMap, error) {
	cm := domain.CanonMap{ID: int64(len(m.maps) + 1), CanonID: canonID, UnitID: unitID, Sequence: sequence}
	m.maps = append(m.maps, cm)
	return cm, nil
}
func (m *mockUnitRepo) ListCanonUnits(ctx context.Context, canonID int64) ([]domain.CanonUnit, error) {
	var out []domain.CanonUnit
	for _, cm := range m.maps {
		if cm.CanonID == canonID {
			out = append(out, domain.CanonUnit{Sequence: cm.Sequence, Unit: m.units[cm.UnitID]})
		}
	}
	return out, nil
}
func (m *mockUnitRepo) PutPayload(ctx context.Context, payload domain.TextPayload) (domain.TextPayload, error) {
	key := payload.UnitID + "/" + payload.Layer
	if existing, ok := m.payloads[key]; ok {
		payload.ID = existing.ID
	} else {
		payload.ID = int64(len(m.payloads) + 1)
	}
	m.payloads[key] = payload
	return payload, nil
}
func (m *mockUnitRepo) ListPayloads(ctx context.Context, unitID string) ([]domain.TextPayload, error) {
	var out []domain.TextPayload
	for _, p := range m.payloads {
		if p.UnitID == unitID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockPublisher struct {
	events []domain.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

func ptr[T any](v T) *T { return &v }
