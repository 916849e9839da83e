package proxy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opencatalog/metagraph/internal/model"
)

// MemoryProxy is an in-process Proxy backed by maps under a single RWMutex.
// It exists for development instances and tests; it honors the same
// contract the graph backend does, including the error taxonomy and the
// idempotence of every mutation.
type MemoryProxy struct {
	mu        sync.RWMutex
	users     map[string]model.User
	tables    map[string]*model.Table
	relations map[relationKey]struct{}
	reads     map[relationKey]*usageRecord
	latestTs  int64
	now       func() time.Time
}

type relationKey struct {
	userID   string
	tableURI string
	relType  model.RelationType
}

type usageRecord struct {
	readCount int64
	lastRead  int64
}

// relTypeRead keys usage records in the relations map space without
// clashing with follow/own edges.
const relTypeRead model.RelationType = "read"

func NewMemoryProxy() *MemoryProxy {
	return &MemoryProxy{
		users:     make(map[string]model.User),
		tables:    make(map[string]*model.Table),
		relations: make(map[relationKey]struct{}),
		reads:     make(map[relationKey]*usageRecord),
		now:       time.Now,
	}
}

// SeedUser and SeedTable stand in for the upstream ingestion pipeline,
// which owns entity lifecycle. They are not part of the Proxy contract.
func (p *MemoryProxy) SeedUser(u model.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.Email] = u
}

func (p *MemoryProxy) SeedTable(t model.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := t
	cp.Columns = append([]model.Column(nil), t.Columns...)
	cp.Tags = append([]model.Tag(nil), t.Tags...)
	p.tables[t.URI()] = &cp
}

func (p *MemoryProxy) GetUser(ctx context.Context, id string) (*model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	if !ok {
		return nil, notFoundf("user %s", id)
	}
	return &u, nil
}

func (p *MemoryProxy) GetUsers(ctx context.Context) ([]model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	users := make([]model.User, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (p *MemoryProxy) GetTable(ctx context.Context, tableURI string) (*model.Table, error) {
	if _, err := model.ParseTableURI(tableURI); err != nil {
		return nil, invalidf("%v", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return nil, notFoundf("table %s", tableURI)
	}

	cp := *t
	cp.Columns = append([]model.Column(nil), t.Columns...)
	cp.Tags = append([]model.Tag(nil), t.Tags...)
	cp.Owners = p.ownersLocked(tableURI)
	return &cp, nil
}

func (p *MemoryProxy) ownersLocked(tableURI string) []model.User {
	owners := []model.User{}
	for key := range p.relations {
		if key.tableURI == tableURI && key.relType == model.RelationOwn {
			if u, ok := p.users[key.userID]; ok {
				owners = append(owners, u)
			}
		}
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Email < owners[j].Email })
	return owners
}

func (p *MemoryProxy) AddRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error {
	if !relType.Valid() {
		return invalidf("relation type %q", relType)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureEndpointsLocked(userID, tableURI); err != nil {
		return err
	}
	p.relations[relationKey{userID, tableURI, relType}] = struct{}{}
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) DeleteRelation(ctx context.Context, userID, tableURI string, relType model.RelationType) error {
	if !relType.Valid() {
		return invalidf("relation type %q", relType)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureEndpointsLocked(userID, tableURI); err != nil {
		return err
	}
	delete(p.relations, relationKey{userID, tableURI, relType})
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) GetTablesByUserRelation(ctx context.Context, userID string, relType model.RelationType) ([]model.PopularTable, error) {
	if !relType.Valid() {
		return nil, invalidf("relation type %q", relType)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.users[userID]; !ok {
		return nil, notFoundf("user %s", userID)
	}

	uris := []string{}
	for key := range p.relations {
		if key.userID == userID && key.relType == relType {
			uris = append(uris, key.tableURI)
		}
	}
	sort.Strings(uris)

	tables := make([]model.PopularTable, 0, len(uris))
	for _, uri := range uris {
		tables = append(tables, p.popularViewLocked(uri))
	}
	return tables, nil
}

func (p *MemoryProxy) RecordTableRead(ctx context.Context, userID, tableURI string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureEndpointsLocked(userID, tableURI); err != nil {
		return err
	}

	key := relationKey{userID, tableURI, relTypeRead}
	rec, ok := p.reads[key]
	if !ok {
		rec = &usageRecord{}
		p.reads[key] = rec
	}
	rec.readCount++
	rec.lastRead = p.now().Unix()
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) GetFrequentlyReadTables(ctx context.Context, userID string, limit int) ([]model.TableRead, error) {
	if limit <= 0 {
		return nil, invalidf("limit must be positive, got %d", limit)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.users[userID]; !ok {
		return nil, notFoundf("user %s", userID)
	}

	reads := []model.TableRead{}
	for key, rec := range p.reads {
		if key.userID != userID {
			continue
		}
		reads = append(reads, model.TableRead{
			Table:     p.popularViewLocked(key.tableURI),
			ReadCount: rec.readCount,
			LastRead:  rec.lastRead,
		})
	}
	sort.Slice(reads, func(i, j int) bool {
		if reads[i].ReadCount != reads[j].ReadCount {
			return reads[i].ReadCount > reads[j].ReadCount
		}
		if reads[i].LastRead != reads[j].LastRead {
			return reads[i].LastRead > reads[j].LastRead
		}
		return reads[i].Table.URI() < reads[j].Table.URI()
	})
	if len(reads) > limit {
		reads = reads[:limit]
	}
	return reads, nil
}

func (p *MemoryProxy) AddTag(ctx context.Context, tableURI, tag, tagType string) error {
	if tag == "" {
		return invalidf("tag name must not be empty")
	}
	if tagType == "" {
		tagType = model.DefaultTagType
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return notFoundf("table %s", tableURI)
	}
	for _, existing := range t.Tags {
		if existing.TagName == tag {
			return nil
		}
	}
	t.Tags = append(t.Tags, model.Tag{TagName: tag, TagType: tagType})
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) DeleteTag(ctx context.Context, tableURI, tag, tagType string) error {
	if tag == "" {
		return invalidf("tag name must not be empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return notFoundf("table %s", tableURI)
	}
	for i, existing := range t.Tags {
		if existing.TagName == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			break
		}
	}
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) GetTags(ctx context.Context) ([]model.TagDetail, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	counts := map[string]int64{}
	for _, t := range p.tables {
		for _, tag := range t.Tags {
			counts[tag.TagName]++
		}
	}

	tags := make([]model.TagDetail, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, model.TagDetail{TagName: name, TagCount: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].TagCount != tags[j].TagCount {
			return tags[i].TagCount > tags[j].TagCount
		}
		return tags[i].TagName < tags[j].TagName
	})
	return tags, nil
}

func (p *MemoryProxy) GetTableDescription(ctx context.Context, tableURI string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return "", notFoundf("table %s", tableURI)
	}
	return t.Description, nil
}

func (p *MemoryProxy) PutTableDescription(ctx context.Context, tableURI, description string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return notFoundf("table %s", tableURI)
	}
	t.Description = description
	p.touchLocked()
	return nil
}

func (p *MemoryProxy) GetColumnDescription(ctx context.Context, tableURI, columnName string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return "", notFoundf("table %s", tableURI)
	}
	for _, c := range t.Columns {
		if c.Name == columnName {
			return c.Description, nil
		}
	}
	return "", notFoundf("column %s on table %s", columnName, tableURI)
}

func (p *MemoryProxy) PutColumnDescription(ctx context.Context, tableURI, columnName, description string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tables[tableURI]
	if !ok {
		return notFoundf("table %s", tableURI)
	}
	for i := range t.Columns {
		if t.Columns[i].Name == columnName {
			t.Columns[i].Description = description
			p.touchLocked()
			return nil
		}
	}
	return notFoundf("column %s on table %s", columnName, tableURI)
}

func (p *MemoryProxy) GetPopularTables(ctx context.Context, limit int) ([]model.PopularTable, error) {
	if limit <= 0 {
		return nil, invalidf("limit must be positive, got %d", limit)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	scores := map[string]int64{}
	for key, rec := range p.reads {
		scores[key.tableURI] += rec.readCount
	}

	type scored struct {
		uri   string
		score int64
	}
	ranked := make([]scored, 0, len(scores))
	for uri, score := range scores {
		ranked = append(ranked, scored{uri, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].uri < ranked[j].uri
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	tables := make([]model.PopularTable, 0, len(ranked))
	for _, s := range ranked {
		tables = append(tables, p.popularViewLocked(s.uri))
	}
	return tables, nil
}

func (p *MemoryProxy) GetLatestUpdatedTs(ctx context.Context) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latestTs, nil
}

func (p *MemoryProxy) ensureEndpointsLocked(userID, tableURI string) error {
	if _, ok := p.users[userID]; !ok {
		return notFoundf("user %s", userID)
	}
	if _, ok := p.tables[tableURI]; !ok {
		return notFoundf("table %s", tableURI)
	}
	return nil
}

func (p *MemoryProxy) popularViewLocked(uri string) model.PopularTable {
	t, ok := p.tables[uri]
	if !ok {
		return model.PopularTable{}
	}
	return model.PopularTable{
		Database:    t.Database,
		Cluster:     t.Cluster,
		Schema:      t.Schema,
		Name:        t.Name,
		Description: t.Description,
	}
}

// touchLocked never moves the high-water mark backwards, even with a
// rewound clock.
func (p *MemoryProxy) touchLocked() {
	if ts := p.now().Unix(); ts > p.latestTs {
		p.latestTs = ts
	}
}
