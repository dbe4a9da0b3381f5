package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/fbomateus/gestao-tcc/config"
	"github.com/fbomateus/gestao-tcc/internal/model"
	"github.com/fbomateus/gestao-tcc/internal/repository"
	pkgerrors "github.com/fbomateus/gestao-tcc/pkg/errors"
	"github.com/fbomateus/gestao-tcc/pkg/storage"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
	// createErr simula falha do INSERT (ex.: índice único)
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetAlunoByMatricula(_ context.Context, matricula string) (*model.User, error) {
	for _, u := range m.users {
		if u.Tipo == model.TipoAluno && u.Matricula != nil && *u.Matricula == matricula {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (m *mockUserRepo) ListNonAdmin(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Tipo == model.TipoAdmin {
			continue
		}
		if filter.Tipo != "" && u.Tipo != filter.Tipo {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Username+" "+u.NomeCompleto+" "+u.Email, filter.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NomeCompleto < result[j].NomeCompleto })

	total := int64(len(result))
	if offset >= len(result) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) ListOrientadoresAtivos(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Tipo == model.TipoOrientador && u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NomeCompleto < result[j].NomeCompleto })
	return result, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock TemaRepository ──

type mockTemaRepo struct {
	temas map[string]*model.TemaTCC
	users *mockUserRepo
	seq   int
}

func newMockTemaRepo(users *mockUserRepo) *mockTemaRepo {
	return &mockTemaRepo{temas: make(map[string]*model.TemaTCC), users: users}
}

// withAssociations cópia com Aluno/Orientador carregados, como o Preload
func (m *mockTemaRepo) withAssociations(t *model.TemaTCC) *model.TemaTCC {
	c := *t
	c.Aluno = m.users.users[c.AlunoID]
	c.Orientador = nil
	if c.HasOrientador() {
		c.Orientador = m.users.users[*c.OrientadorID]
	}
	return &c
}

func (m *mockTemaRepo) Create(_ context.Context, tema *model.TemaTCC) error {
	for _, t := range m.temas {
		if t.AlunoID == tema.AlunoID && t.Titulo == tema.Titulo {
			return &pgconn.PgError{Code: "23505", ConstraintName: repository.ConstraintTemaTitulo}
		}
	}
	if tema.TemaID == "" {
		m.seq++
		tema.TemaID = fmt.Sprintf("tema-%d", m.seq)
	}
	if tema.Version == 0 {
		tema.Version = 1
	}
	c := *tema
	m.temas[tema.TemaID] = &c
	return nil
}

func (m *mockTemaRepo) GetByID(_ context.Context, id string) (*model.TemaTCC, error) {
	if t, ok := m.temas[id]; ok {
		return m.withAssociations(t), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemaRepo) GetByAlunoTitulo(_ context.Context, alunoID, titulo string) (*model.TemaTCC, error) {
	for _, t := range m.temas {
		if t.AlunoID == alunoID && t.Titulo == titulo {
			return m.withAssociations(t), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTemaRepo) List(_ context.Context, f repository.TemaFilter) ([]model.TemaTCC, error) {
	var result []model.TemaTCC
	for _, t := range m.temas {
		if f.AlunoID != "" && t.AlunoID != f.AlunoID {
			continue
		}
		if f.OrientadorID != "" && !t.IsOrientadoPor(f.OrientadorID) {
			continue
		}
		if f.ParticipanteID != "" && t.AlunoID != f.ParticipanteID && !t.IsOrientadoPor(f.ParticipanteID) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		result = append(result, *m.withAssociations(t))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Titulo < result[j].Titulo })
	return result, nil
}

func (m *mockTemaRepo) Update(_ context.Context, tema *model.TemaTCC) error {
	cur, ok := m.temas[tema.TemaID]
	if !ok || cur.Version != tema.Version {
		return pkgerrors.ErrOptimisticLock
	}
	tema.Version++
	c := *tema
	m.temas[tema.TemaID] = &c
	return nil
}

func (m *mockTemaRepo) Delete(_ context.Context, id string) error {
	delete(m.temas, id)
	return nil
}

func (m *mockTemaRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.temas)), nil
}

// ── Mock EntregaRepository ──

type mockEntregaRepo struct {
	entregas  map[string]*model.Entrega
	temas     *mockTemaRepo
	seq       int
	createErr error
}

func newMockEntregaRepo(temas *mockTemaRepo) *mockEntregaRepo {
	return &mockEntregaRepo{entregas: make(map[string]*model.Entrega), temas: temas}
}

func (m *mockEntregaRepo) withTema(e *model.Entrega) model.Entrega {
	c := *e
	if t, ok := m.temas.temas[c.TemaID]; ok {
		c.Tema = m.temas.withAssociations(t)
	}
	return c
}

func (m *mockEntregaRepo) Create(_ context.Context, entrega *model.Entrega) error {
	if m.createErr != nil {
		return m.createErr
	}
	if entrega.EntregaID == "" {
		m.seq++
		entrega.EntregaID = fmt.Sprintf("entrega-%d", m.seq)
	}
	if entrega.CreatedAt.IsZero() {
		entrega.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Second)
	}
	c := *entrega
	c.Tema = nil
	m.entregas[entrega.EntregaID] = &c
	return nil
}

func (m *mockEntregaRepo) GetByID(_ context.Context, id string) (*model.Entrega, error) {
	if e, ok := m.entregas[id]; ok {
		c := m.withTema(e)
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntregaRepo) filter(keep func(*model.Entrega) bool) []model.Entrega {
	var result []model.Entrega
	for _, e := range m.entregas {
		if keep(e) {
			result = append(result, m.withTema(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DataEntrega.Equal(result[j].DataEntrega) {
			return result[i].DataEntrega.After(result[j].DataEntrega)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockEntregaRepo) ListByTema(_ context.Context, temaID string) ([]model.Entrega, error) {
	return m.filter(func(e *model.Entrega) bool { return e.TemaID == temaID }), nil
}

func (m *mockEntregaRepo) recent(limit int, keep func(*model.TemaTCC) bool) []model.Entrega {
	result := m.filter(func(e *model.Entrega) bool {
		t, ok := m.temas.temas[e.TemaID]
		return ok && keep(t)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (m *mockEntregaRepo) RecentByAluno(_ context.Context, alunoID string, limit int) ([]model.Entrega, error) {
	return m.recent(limit, func(t *model.TemaTCC) bool { return t.AlunoID == alunoID }), nil
}

func (m *mockEntregaRepo) RecentByOrientador(_ context.Context, orientadorID string, limit int) ([]model.Entrega, error) {
	return m.recent(limit, func(t *model.TemaTCC) bool { return t.IsOrientadoPor(orientadorID) }), nil
}

func (m *mockEntregaRepo) ListAll(_ context.Context) ([]model.Entrega, error) {
	return m.filter(func(*model.Entrega) bool { return true }), nil
}

func (m *mockEntregaRepo) ArquivosByTema(_ context.Context, temaID string) ([]string, error) {
	var keys []string
	for _, e := range m.entregas {
		if e.TemaID == temaID {
			keys = append(keys, e.Arquivo)
		}
	}
	return keys, nil
}

func (m *mockEntregaRepo) UpdateFeedback(_ context.Context, entrega *model.Entrega) error {
	e, ok := m.entregas[entrega.EntregaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.ComentarioOrientador = entrega.ComentarioOrientador
	e.Nota = entrega.Nota
	return nil
}

func (m *mockEntregaRepo) Delete(_ context.Context, id string) error {
	delete(m.entregas, id)
	return nil
}

func (m *mockEntregaRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.entregas)), nil
}

// ── Mock storage / notifier / token store ──

type memStore struct {
	files map[string][]byte
	seq   int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, name string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.seq++
	key := fmt.Sprintf("entregas/2026/05/%d-%s", s.seq, strings.ToLower(name))
	s.files[key] = data
	return key, int64(len(data)), nil
}

func (s *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.files, key)
	return nil
}

type sentEvent struct {
	userID    string
	eventType string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID, eventType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, eventType: eventType})
}

type memTokenStore struct {
	revoked map[string]time.Duration
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *memTokenStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── fixture comum ──

type testEnv struct {
	cfg      *config.Config
	users    *mockUserRepo
	temas    *mockTemaRepo
	entregas *mockEntregaRepo
	repo     *repository.Repository
	store    *memStore
	notifier *recordingNotifier
	clock    clock
}

// fixedNow 10/05/2026 14:00 em São Paulo
var fixedNow = time.Date(2026, 5, 10, 14, 0, 0, 0, time.FixedZone("BRT", -3*3600))

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Server: config.ServerConfig{Timezone: "America/Sao_Paulo"},
		Auth: config.AuthConfig{
			JWTSecret:        "segredo-de-teste-com-tamanho",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  24 * time.Hour,
			BcryptCost:       4,
			MinPasswordChars: 8,
		},
		Storage: config.StorageConfig{
			MaxFileSize:       1024,
			AllowedExtensions: []string{".pdf", ".doc", ".docx", ".zip"},
		},
	}

	users := newMockUserRepo()
	temas := newMockTemaRepo(users)
	entregas := newMockEntregaRepo(temas)

	clk := newClock(fixedNow.Location())
	clk.now = func() time.Time { return fixedNow }

	return &testEnv{
		cfg:      cfg,
		users:    users,
		temas:    temas,
		entregas: entregas,
		repo:     &repository.Repository{User: users, Tema: temas, Entrega: entregas},
		store:    newMemStore(),
		notifier: &recordingNotifier{},
		clock:    clk,
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func (e *testEnv) addUser(id, username, tipo string) *model.User {
	u := &model.User{
		UserID:       id,
		Username:     username,
		NomeCompleto: "Nome " + username,
		Email:        username + "@uni.br",
		Tipo:         tipo,
		IsActive:     true,
		PasswordHash: "$2a$04$invalid",
	}
	switch tipo {
	case model.TipoAluno:
		u.Matricula = strPtr("M-" + id)
	case model.TipoOrientador:
		u.AreaAtuacao = strPtr("Computação")
	}
	_ = e.users.Create(context.Background(), u)
	return u
}

func (e *testEnv) addTema(id, titulo, alunoID string, orientadorID *string, status string) *model.TemaTCC {
	t := &model.TemaTCC{
		TemaID:       id,
		Titulo:       titulo,
		Descricao:    "descrição",
		AlunoID:      alunoID,
		OrientadorID: orientadorID,
		Status:       status,
	}
	_ = e.temas.Create(context.Background(), t)
	return t
}

func (e *testEnv) addEntrega(id, temaID string, data time.Time) *model.Entrega {
	key := "entregas/2026/05/" + id + ".pdf"
	e.store.files[key] = []byte("%PDF-" + id)
	ent := &model.Entrega{
		EntregaID:   id,
		TemaID:      temaID,
		Titulo:      "Entrega " + id,
		Arquivo:     key,
		ArquivoNome: id + ".pdf",
		DataEntrega: data,
	}
	_ = e.entregas.Create(context.Background(), ent)
	return ent
}
